package border

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Defaults applied by Input.WithDefaults.
const (
	DefaultPaperSize   = "8x10"
	DefaultAspectRatio = "3:2"
	DefaultMinBorder   = 0.5

	// DefaultEaselCacheSize bounds the easel memo cache.
	DefaultEaselCacheSize = 256
)

// Warnings emitted by Calculate in addition to the clamp warnings.
const (
	WarnUnknownPaper     = "Unknown paper size."
	WarnUnknownRatio     = "Unknown aspect ratio."
	WarnNoPrintArea      = "The minimum border leaves no room for a print."
	WarnExceedsEasels    = "Paper is larger than every standard easel."
	WarnNegativeBlade    = "Blade readings below zero: reduce the offset."
	WarnNonStandardPaper = "Non-standard paper size: place it against the stops of the %s easel."
)

// Input is a full set of border calculator settings.
type Input struct {
	PaperSize          string  `json:"paper_size"`
	CustomPaperWidth   float64 `json:"custom_paper_width,omitempty"`
	CustomPaperHeight  float64 `json:"custom_paper_height,omitempty"`
	AspectRatio        string  `json:"aspect_ratio"`
	CustomAspectWidth  float64 `json:"custom_aspect_width,omitempty"`
	CustomAspectHeight float64 `json:"custom_aspect_height,omitempty"`
	MinBorder          float64 `json:"min_border"`
	EnableOffset       bool    `json:"enable_offset,omitempty"`
	IgnoreMinBorder    bool    `json:"ignore_min_border,omitempty"`
	HorizontalOffset   float64 `json:"horizontal_offset,omitempty"`
	VerticalOffset     float64 `json:"vertical_offset,omitempty"`
	IsLandscape        bool    `json:"is_landscape,omitempty"`
	IsRatioFlipped     bool    `json:"is_ratio_flipped,omitempty"`
}

// WithDefaults fills empty table keys with the defaults.
func (in Input) WithDefaults() Input {
	if in.PaperSize == "" {
		in.PaperSize = DefaultPaperSize
	}
	if in.AspectRatio == "" {
		in.AspectRatio = DefaultAspectRatio
	}
	return in
}

// Paper resolves the paper dimensions, turned for landscape.
func (in Input) Paper() (PaperDimensions, bool) {
	var p PaperDimensions
	if in.PaperSize == Custom {
		p = PaperDimensions{Width: in.CustomPaperWidth, Height: in.CustomPaperHeight}
	} else {
		var err error
		if p, err = LookupPaper(in.PaperSize); err != nil {
			return PaperDimensions{}, false
		}
	}
	if in.IsLandscape {
		p.Width, p.Height = p.Height, p.Width
	}
	p.Width, p.Height = finiteOrZero(p.Width), finiteOrZero(p.Height)
	return p, true
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Ratio resolves the aspect ratio, flipped if requested.
func (in Input) Ratio() (AspectRatio, bool) {
	var r AspectRatio
	if in.AspectRatio == Custom {
		r = AspectRatio{Width: in.CustomAspectWidth, Height: in.CustomAspectHeight}
	} else {
		var err error
		if r, err = LookupRatio(in.AspectRatio); err != nil {
			return AspectRatio{}, false
		}
	}
	if in.IsRatioFlipped {
		r.Width, r.Height = r.Height, r.Width
	}
	return r, true
}

// PrintCalculation is everything derived from an Input. It has no identity
// and is recomputed whenever the input changes.
type PrintCalculation struct {
	PaperWidth       float64    `json:"paper_width"`
	PaperHeight      float64    `json:"paper_height"`
	PrintWidth       float64    `json:"print_width"`
	PrintHeight      float64    `json:"print_height"`
	Borders          Borders    `json:"borders"`
	Blades           Blades     `json:"blades"`
	HorizontalOffset float64    `json:"horizontal_offset"`
	VerticalOffset   float64    `json:"vertical_offset"`
	Easel            EaselMatch `json:"easel"`
	BladeThickness   float64    `json:"blade_thickness"`
	Fits             bool       `json:"fits"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// HasWarnings reports whether any warning was raised.
func (c PrintCalculation) HasWarnings() bool { return len(c.Warnings) > 0 }

// Engine runs border calculations and memoizes easel lookups.
type Engine struct {
	easels *lru.Cache[easelKey, EaselMatch]
}

// easelKey is the canonical memo key: dimensions rounded to 1/10000 inch.
type easelKey struct {
	w, h      int64
	landscape bool
}

func newEaselKey(w, h float64, landscape bool) easelKey {
	return easelKey{
		w:         int64(math.Round(w * 1e4)),
		h:         int64(math.Round(h * 1e4)),
		landscape: landscape,
	}
}

// NewEngine creates an engine whose easel cache holds at most size entries;
// the least recently used entry is evicted first. Non-positive sizes use
// DefaultEaselCacheSize.
func NewEngine(size int) *Engine {
	if size <= 0 {
		size = DefaultEaselCacheSize
	}
	c, err := lru.New[easelKey, EaselMatch](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Engine{easels: c}
}

// FindCenteringOffsets is the memoized form of the package function.
func (e *Engine) FindCenteringOffsets(paperW, paperH float64, isLandscape bool) EaselMatch {
	key := newEaselKey(paperW, paperH, isLandscape)
	if m, ok := e.easels.Get(key); ok {
		return m
	}
	m := FindCenteringOffsets(paperW, paperH, isLandscape)
	e.easels.Add(key, m)
	return m
}

// CachedEasels returns the number of memoized easel lookups.
func (e *Engine) CachedEasels() int { return e.easels.Len() }

// Calculate resolves the input and computes the print, borders, blades and
// warnings. It never fails: unknown table keys and degenerate geometry
// produce a zero print with a warning.
func (e *Engine) Calculate(in Input) PrintCalculation {
	in = in.WithDefaults()

	paper, ok := in.Paper()
	if !ok {
		return PrintCalculation{Warnings: []string{WarnUnknownPaper}, BladeThickness: BaseBladeThickness}
	}
	calc := PrintCalculation{
		PaperWidth:     paper.Width,
		PaperHeight:    paper.Height,
		BladeThickness: CalculateBladeThickness(paper.Width, paper.Height),
	}

	ratio, ok := in.Ratio()
	if !ok {
		calc.Warnings = append(calc.Warnings, WarnUnknownRatio)
		calc.Borders = BordersFromGaps(paper.Width/2, paper.Height/2, 0, 0)
		return calc
	}

	size := ComputePrintSize(paper.Width, paper.Height, ratio.Width, ratio.Height, in.MinBorder)
	if size.IsZero() {
		calc.Warnings = append(calc.Warnings, WarnNoPrintArea)
		calc.Borders = BordersFromGaps(math.Max(paper.Width, 0)/2, math.Max(paper.Height, 0)/2, 0, 0)
		return calc
	}
	calc.PrintWidth, calc.PrintHeight = size.Width, size.Height

	var h, v float64
	if in.EnableOffset {
		h, v = in.HorizontalOffset, in.VerticalOffset
	}
	clamped := ClampOffsets(paper.Width, paper.Height, size.Width, size.Height,
		in.MinBorder, h, v, in.IgnoreMinBorder)
	if clamped.Warning != "" {
		calc.Warnings = append(calc.Warnings, clamped.Warning)
	}
	calc.HorizontalOffset, calc.VerticalOffset = clamped.Horizontal, clamped.Vertical
	calc.Borders = BordersFromGaps(clamped.HalfW, clamped.HalfH, clamped.Horizontal, clamped.Vertical)

	calc.Easel = e.FindCenteringOffsets(paper.Width, paper.Height, in.IsLandscape)

	// Non-standard paper sits centered in a larger slot; blades are read
	// relative to the slot, so the slack shifts every reading.
	var slackX, slackY float64
	if calc.Easel.IsNonStandardPaperSize {
		slackX = (calc.Easel.EffectiveSlot.Width - paper.Width) / 2
		slackY = (calc.Easel.EffectiveSlot.Height - paper.Height) / 2
		if calc.Easel.EaselSize.Label == Custom {
			calc.Warnings = append(calc.Warnings, WarnExceedsEasels)
		} else {
			calc.Warnings = append(calc.Warnings, fmt.Sprintf(WarnNonStandardPaper, calc.Easel.EaselSize.Label))
		}
	}
	calc.Blades = BladeReadings(size.Width, size.Height,
		clamped.Horizontal+slackX, clamped.Vertical+slackY)
	if calc.Blades.Left < 0 || calc.Blades.Right < 0 || calc.Blades.Top < 0 || calc.Blades.Bottom < 0 {
		calc.Warnings = append(calc.Warnings, WarnNegativeBlade)
	}

	calc.Fits = ValidatePrintFits(paper.Width, paper.Height, size.Width, size.Height,
		clamped.Horizontal, clamped.Vertical)
	return calc
}

// OptimalMinBorder runs CalculateOptimalMinBorder against the resolved
// paper and ratio of in, starting from in.MinBorder.
func (e *Engine) OptimalMinBorder(in Input) float64 {
	in = in.WithDefaults()
	paper, ok := in.Paper()
	if !ok {
		return in.MinBorder
	}
	ratio, ok := in.Ratio()
	if !ok {
		return in.MinBorder
	}
	return CalculateOptimalMinBorder(paper.Width, paper.Height, ratio.Width, ratio.Height, in.MinBorder)
}
