package exposure_test

import (
	"fmt"

	"github.com/matzehuels/darkroom/pkg/exposure"
)

func ExampleResizeExposure() {
	r, err := exposure.ResizeExposure(8, 10, 16, 20, 12)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.1fs (%s stops)\n", r.NewTime, exposure.FormatStops(r.Stops))
	// Output: 48.0s (+2 stops)
}
