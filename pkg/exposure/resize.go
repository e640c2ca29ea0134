package exposure

import (
	"math"

	"github.com/matzehuels/darkroom/pkg/errors"
)

// Resize is the result of scaling a print.
type Resize struct {
	OriginalTime float64 `json:"original_time"`
	NewTime      float64 `json:"new_time"`
	Stops        float64 `json:"stops"`
	AreaRatio    float64 `json:"area_ratio"`
}

// ResizeExposure scales an exposure time from one print size to another.
// Light spreads over the projected area, so time scales with the area
// ratio.
func ResizeExposure(origW, origH, newW, newH, origTime float64) (Resize, error) {
	dims := []struct {
		name string
		v    float64
	}{
		{"original width", origW},
		{"original height", origH},
		{"new width", newW},
		{"new height", newH},
	}
	for _, d := range dims {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return Resize{}, errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %g", d.name, d.v)
		}
	}
	if err := validTime("original time", origTime); err != nil {
		return Resize{}, err
	}

	ratio := (newW * newH) / (origW * origH)
	return Resize{
		OriginalTime: origTime,
		NewTime:      origTime * ratio,
		Stops:        math.Log2(ratio),
		AreaRatio:    ratio,
	}, nil
}
