package border

import (
	"fmt"
	"sort"
)

// Custom is the table key for caller-supplied dimensions.
const Custom = "custom"

// PaperDimensions is a sheet of paper in inches, portrait orientation.
type PaperDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AspectRatio is a negative's frame ratio. Ratio is Width/Height.
type AspectRatio struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ratio returns Width/Height, or 0 when Height is not positive.
func (a AspectRatio) Ratio() float64 {
	if a.Height <= 0 {
		return 0
	}
	return a.Width / a.Height
}

// PaperSize is an entry of the standard paper table.
type PaperSize struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Size  PaperDimensions `json:"size"`
}

// RatioEntry is an entry of the standard aspect ratio table.
type RatioEntry struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Ratio AspectRatio `json:"ratio"`
}

// EaselSize is a standard easel slot in canonical orientation (Width <= Height).
type EaselSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
}

// Area returns Width*Height.
func (e EaselSize) Area() float64 { return e.Width * e.Height }

// PaperSizes is the ordered paper table. Indices are part of the preset
// format; the custom entry stays last.
var PaperSizes = []PaperSize{
	{Key: "4x5", Label: "4x5", Size: PaperDimensions{4, 5}},
	{Key: "4x6", Label: "4x6 (postcard)", Size: PaperDimensions{4, 6}},
	{Key: "5x7", Label: "5x7", Size: PaperDimensions{5, 7}},
	{Key: "8x10", Label: "8x10", Size: PaperDimensions{8, 10}},
	{Key: "11x14", Label: "11x14", Size: PaperDimensions{11, 14}},
	{Key: "16x20", Label: "16x20", Size: PaperDimensions{16, 20}},
	{Key: "20x24", Label: "20x24", Size: PaperDimensions{20, 24}},
	{Key: Custom, Label: "Custom Paper Size"},
}

// AspectRatios is the ordered aspect ratio table. Indices are part of the
// preset format; the custom entry stays last.
var AspectRatios = []RatioEntry{
	{Key: "3:2", Label: "3:2 (35mm, 6x9)", Ratio: AspectRatio{3, 2}},
	{Key: "65:24", Label: "65:24 (XPan)", Ratio: AspectRatio{65, 24}},
	{Key: "6:4.5", Label: "6x4.5", Ratio: AspectRatio{6, 4.5}},
	{Key: "1:1", Label: "1:1 (6x6)", Ratio: AspectRatio{1, 1}},
	{Key: "7:6", Label: "7:6 (6x7)", Ratio: AspectRatio{7, 6}},
	{Key: "5:4", Label: "5:4 (4x5)", Ratio: AspectRatio{5, 4}},
	{Key: "7:5", Label: "7:5 (5x7)", Ratio: AspectRatio{7, 5}},
	{Key: "16:9", Label: "16:9", Ratio: AspectRatio{16, 9}},
	{Key: "1.37:1", Label: "1.37:1 (Academy)", Ratio: AspectRatio{1.37, 1}},
	{Key: "1.85:1", Label: "1.85:1 (Widescreen)", Ratio: AspectRatio{1.85, 1}},
	{Key: "2:1", Label: "2:1 (Univisium)", Ratio: AspectRatio{2, 1}},
	{Key: "2.39:1", Label: "2.39:1 (Anamorphic)", Ratio: AspectRatio{2.39, 1}},
	{Key: "2.76:1", Label: "2.76:1 (Ultra Panavision)", Ratio: AspectRatio{2.76, 1}},
	{Key: Custom, Label: "Custom Ratio"},
}

// EaselSizes holds the standard easel slots, ascending by area.
var EaselSizes = deriveEasels(PaperSizes)

func deriveEasels(papers []PaperSize) []EaselSize {
	easels := make([]EaselSize, 0, len(papers))
	for _, p := range papers {
		if p.Key == Custom {
			continue
		}
		w, h := p.Size.Width, p.Size.Height
		if w > h {
			w, h = h, w
		}
		easels = append(easels, EaselSize{Width: w, Height: h, Label: p.Key})
	}
	sort.SliceStable(easels, func(i, j int) bool {
		return easels[i].Area() < easels[j].Area()
	})
	return easels
}

// PaperIndex returns the table index of key, or -1.
func PaperIndex(key string) int {
	for i, p := range PaperSizes {
		if p.Key == key {
			return i
		}
	}
	return -1
}

// RatioIndex returns the table index of key, or -1.
func RatioIndex(key string) int {
	for i, r := range AspectRatios {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// LookupPaper returns the dimensions for a standard paper key.
func LookupPaper(key string) (PaperDimensions, error) {
	i := PaperIndex(key)
	if i < 0 || key == Custom {
		return PaperDimensions{}, fmt.Errorf("unknown paper size: %q", key)
	}
	return PaperSizes[i].Size, nil
}

// LookupRatio returns the ratio for a standard aspect ratio key.
func LookupRatio(key string) (AspectRatio, error) {
	i := RatioIndex(key)
	if i < 0 || key == Custom {
		return AspectRatio{}, fmt.Errorf("unknown aspect ratio: %q", key)
	}
	return AspectRatios[i].Ratio, nil
}
