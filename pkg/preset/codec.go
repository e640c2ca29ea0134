package preset

import (
	"encoding/base64"
	stderrors "errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/errors"
)

// Share code layout. Fields are joined with '-' and the result is base64
// encoded with the URL-safe alphabet and no padding:
//
//	name-ratioIdx-paperIdx-border*100-hOffset*100-(vOffset*100+10000)-flags[-customs]
//
// customs (present when the ratio or the paper is custom) are the custom
// aspect width and height and the custom paper width and height, each *100.
// The name is query-escaped with '-' escaped too, so the first '-' always
// ends it. A negative numeric field shows up as an empty field followed by
// its magnitude.
const (
	separator       = "-"
	verticalBias    = 10000
	baseFieldCount  = 6
	customDimsCount = 4
)

// Flag bits. The order is part of the share format.
const (
	FlagEnableOffset = 1 << iota
	FlagIgnoreMinBorder
	FlagShowBlades
	FlagIsLandscape
	FlagIsRatioFlipped
	FlagShowBladeReadings

	flagMask = 1<<6 - 1
)

// ErrInvalidCode is returned by Decode for malformed share codes.
var ErrInvalidCode = stderrors.New("invalid preset code")

// Flags packs the boolean settings into the share bitmask.
func (p Preset) Flags() int {
	var f int
	set := func(on bool, bit int) {
		if on {
			f |= bit
		}
	}
	set(p.EnableOffset, FlagEnableOffset)
	set(p.IgnoreMinBorder, FlagIgnoreMinBorder)
	set(p.ShowBlades, FlagShowBlades)
	set(p.IsLandscape, FlagIsLandscape)
	set(p.IsRatioFlipped, FlagIsRatioFlipped)
	set(p.ShowBladeReadings, FlagShowBladeReadings)
	return f
}

func (p *Preset) setFlags(f int) {
	p.EnableOffset = f&FlagEnableOffset != 0
	p.IgnoreMinBorder = f&FlagIgnoreMinBorder != 0
	p.ShowBlades = f&FlagShowBlades != 0
	p.IsLandscape = f&FlagIsLandscape != 0
	p.IsRatioFlipped = f&FlagIsRatioFlipped != 0
	p.ShowBladeReadings = f&FlagShowBladeReadings != 0
}

// Encode returns the share code for p. The ratio and paper must be table
// keys; numeric fields are kept to two decimals.
func Encode(p Preset) (string, error) {
	ratioIdx := border.RatioIndex(p.AspectRatio)
	if ratioIdx < 0 {
		return "", errors.New(errors.ErrCodeUnknownRatio, "unknown aspect ratio: %q", p.AspectRatio)
	}
	paperIdx := border.PaperIndex(p.PaperSize)
	if paperIdx < 0 {
		return "", errors.New(errors.ErrCodeUnknownPaper, "unknown paper size: %q", p.PaperSize)
	}

	fields := []string{
		escapeName(p.Name),
		strconv.Itoa(ratioIdx),
		strconv.Itoa(paperIdx),
		hundredths(p.MinBorder),
		hundredths(p.HorizontalOffset),
		strconv.FormatInt(int64(math.Round(p.VerticalOffset*100))+verticalBias, 10),
		strconv.Itoa(p.Flags()),
	}
	if p.hasCustomDims() {
		fields = append(fields,
			hundredths(p.CustomAspectWidth),
			hundredths(p.CustomAspectHeight),
			hundredths(p.CustomPaperWidth),
			hundredths(p.CustomPaperHeight),
		)
	}

	raw := strings.Join(fields, separator)
	return base64.RawURLEncoding.EncodeToString([]byte(raw)), nil
}

// Decode parses a share code. Trailing '=' padding is tolerated. Codes
// that do not decode, or that reference unknown table entries, return an
// error wrapping ErrInvalidCode; callers are expected to fall back to
// defaults.
func Decode(code string) (*Preset, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(code), "="))
	if err != nil {
		return nil, invalid("not base64: %v", err)
	}
	raw := string(data)

	i := strings.Index(raw, separator)
	if i < 0 {
		return nil, invalid("missing fields")
	}
	name, err := url.QueryUnescape(raw[:i])
	if err != nil {
		return nil, invalid("bad name: %v", err)
	}

	nums, err := parseFields(raw[i+1:])
	if err != nil {
		return nil, err
	}
	if len(nums) != baseFieldCount && len(nums) != baseFieldCount+customDimsCount {
		return nil, invalid("expected %d or %d numeric fields, got %d",
			baseFieldCount, baseFieldCount+customDimsCount, len(nums))
	}

	ratioIdx, paperIdx, flags := nums[0], nums[1], nums[5]
	if ratioIdx < 0 || ratioIdx >= int64(len(border.AspectRatios)) {
		return nil, invalid("aspect ratio index %d out of range", ratioIdx)
	}
	if paperIdx < 0 || paperIdx >= int64(len(border.PaperSizes)) {
		return nil, invalid("paper size index %d out of range", paperIdx)
	}
	if flags < 0 || flags > flagMask {
		return nil, invalid("flags %d out of range", flags)
	}

	p := &Preset{
		Name:             name,
		AspectRatio:      border.AspectRatios[ratioIdx].Key,
		PaperSize:        border.PaperSizes[paperIdx].Key,
		MinBorder:        float64(nums[2]) / 100,
		HorizontalOffset: float64(nums[3]) / 100,
		VerticalOffset:   float64(nums[4]-verticalBias) / 100,
	}
	p.setFlags(int(flags))

	if p.hasCustomDims() {
		if len(nums) != baseFieldCount+customDimsCount {
			return nil, invalid("custom entry without custom dimensions")
		}
		p.CustomAspectWidth = float64(nums[6]) / 100
		p.CustomAspectHeight = float64(nums[7]) / 100
		p.CustomPaperWidth = float64(nums[8]) / 100
		p.CustomPaperHeight = float64(nums[9]) / 100
	}
	return p, nil
}

// DecodeOrDefault decodes code and falls back to Default when it is
// malformed, logging the failure at warn level.
func DecodeOrDefault(code string, logger *log.Logger) Preset {
	p, err := Decode(code)
	if err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Warn("ignoring preset code", "code", code, "err", err)
		return Default()
	}
	return *p
}

// parseFields splits the numeric part of a share code. An empty field
// marks the following field as negative.
func parseFields(s string) ([]int64, error) {
	parts := strings.Split(s, separator)
	nums := make([]int64, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		neg := false
		if parts[i] == "" {
			if i+1 >= len(parts) || parts[i+1] == "" {
				return nil, invalid("empty field")
			}
			neg = true
			i++
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil || n < 0 {
			return nil, invalid("bad number %q", parts[i])
		}
		if neg {
			n = -n
		}
		nums = append(nums, n)
	}
	return nums, nil
}

func escapeName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), separator, "%2D")
}

func hundredths(v float64) string {
	return strconv.FormatInt(int64(math.Round(v*100)), 10)
}

func invalid(format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeInvalidPreset, ErrInvalidCode, format, args...)
}
