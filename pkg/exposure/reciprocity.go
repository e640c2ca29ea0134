package exposure

import (
	"math"
	"strings"

	"github.com/matzehuels/darkroom/pkg/errors"
)

// Film is a stock with its Schwarzschild reciprocity exponent.
type Film struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// Films lists common stocks. Factors are the usual published
// approximations of each manufacturer's reciprocity curve.
var Films = []Film{
	{Key: "hp5", Name: "Ilford HP5 Plus", Factor: 1.31},
	{Key: "fp4", Name: "Ilford FP4 Plus", Factor: 1.26},
	{Key: "panf", Name: "Ilford Pan F Plus", Factor: 1.33},
	{Key: "delta100", Name: "Ilford Delta 100", Factor: 1.26},
	{Key: "delta400", Name: "Ilford Delta 400", Factor: 1.41},
	{Key: "delta3200", Name: "Ilford Delta 3200", Factor: 1.33},
	{Key: "trix", Name: "Kodak Tri-X 400", Factor: 1.54},
	{Key: "tmax100", Name: "Kodak T-Max 100", Factor: 1.15},
	{Key: "tmax400", Name: "Kodak T-Max 400", Factor: 1.24},
	{Key: "foma100", Name: "Fomapan 100", Factor: 1.40},
}

// LookupFilm finds a film by key, case-insensitively.
func LookupFilm(key string) (Film, error) {
	for _, f := range Films {
		if strings.EqualFold(f.Key, key) {
			return f, nil
		}
	}
	return Film{}, errors.New(errors.ErrCodeUnknownFilm, "unknown film: %q", key)
}

// Reciprocity is a corrected exposure.
type Reciprocity struct {
	Metered   float64 `json:"metered"`
	Corrected float64 `json:"corrected"`
	Factor    float64 `json:"factor"`
	Stops     float64 `json:"stops"`
}

// CorrectedTime applies reciprocity failure correction: times above one
// second become metered^factor, shorter times are unchanged.
func CorrectedTime(metered, factor float64) (Reciprocity, error) {
	if err := validTime("metered time", metered); err != nil {
		return Reciprocity{}, err
	}
	if math.IsNaN(factor) || factor < 1 || factor > 3 {
		return Reciprocity{}, errors.New(errors.ErrCodeInvalidInput, "reciprocity factor must be in [1, 3], got %g", factor)
	}
	corrected := metered
	if metered > 1 {
		corrected = math.Pow(metered, factor)
	}
	return Reciprocity{
		Metered:   metered,
		Corrected: corrected,
		Factor:    factor,
		Stops:     math.Log2(corrected / metered),
	}, nil
}
