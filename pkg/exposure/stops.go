package exposure

import (
	"fmt"
	"math"

	"github.com/matzehuels/darkroom/pkg/errors"
)

// Common stop increments.
const (
	FullStop  = 1.0
	HalfStop  = 1.0 / 2
	ThirdStop = 1.0 / 3
)

// AdjustTime returns base seconds changed by the given number of stops.
func AdjustTime(base, stops float64) (float64, error) {
	if err := validTime("base time", base); err != nil {
		return 0, err
	}
	if math.IsNaN(stops) || math.IsInf(stops, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "stops must be a finite number")
	}
	return base * math.Exp2(stops), nil
}

// StopsBetween returns how many stops separate time a from time b.
// Positive means b is longer.
func StopsBetween(a, b float64) (float64, error) {
	if err := validTime("first time", a); err != nil {
		return 0, err
	}
	if err := validTime("second time", b); err != nil {
		return 0, err
	}
	return math.Log2(b / a), nil
}

// Step is one rung of a test-strip ladder.
type Step struct {
	Stops float64 `json:"stops"`
	Time  float64 `json:"time"`
}

// StopSteps returns the times from -span to +span stops around base, in
// increments of the given fraction of a stop.
func StopSteps(base, increment float64, span int) ([]Step, error) {
	if err := validTime("base time", base); err != nil {
		return nil, err
	}
	if !(increment > 0) || increment > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "increment must be in (0, 1], got %g", increment)
	}
	if span < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "span cannot be negative")
	}
	perStop := int(math.Round(1 / increment))
	n := span * perStop
	steps := make([]Step, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		s := float64(i) / float64(perStop)
		steps = append(steps, Step{Stops: s, Time: base * math.Exp2(s)})
	}
	return steps, nil
}

// FormatStops renders a stop count with thirds or halves as a fraction,
// e.g. "+1 1/3" or "-1/2".
func FormatStops(stops float64) string {
	sign := "+"
	if stops < 0 {
		sign = "-"
		stops = -stops
	}
	whole := math.Floor(stops + 1e-9)
	frac := stops - whole
	if frac > 0.99 {
		whole, frac = whole+1, 0
	}

	var fracStr string
	switch {
	case frac < 0.01:
	case math.Abs(frac-1.0/3) < 0.01:
		fracStr = "1/3"
	case math.Abs(frac-0.5) < 0.01:
		fracStr = "1/2"
	case math.Abs(frac-2.0/3) < 0.01:
		fracStr = "2/3"
	default:
		return fmt.Sprintf("%s%.2f", sign, stops)
	}

	switch {
	case whole == 0 && fracStr == "":
		return "0"
	case whole == 0:
		return sign + fracStr
	case fracStr == "":
		return fmt.Sprintf("%s%d", sign, int(whole))
	default:
		return fmt.Sprintf("%s%d %s", sign, int(whole), fracStr)
	}
}

func validTime(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be a positive number, got %g", field, v)
	}
	return nil
}
