package cache

// Keyer generates cache keys for each artifact kind.
type Keyer interface {
	// CalculationKey returns the key for a serialized calculation result.
	// input is any JSON-serializable description of the calculator input.
	CalculationKey(input any) string

	// PreviewKey returns the key for a rendered preview of input.
	PreviewKey(input any, opts PreviewKeyOpts) string
}

// PreviewKeyOpts holds the render options that change preview output.
type PreviewKeyOpts struct {
	Format        string  `json:"format"`
	Scale         float64 `json:"scale"`
	ShowBlades    bool    `json:"show_blades"`
	ShowReadings  bool    `json:"show_readings"`
	ShowDimension bool    `json:"show_dimensions"`
}

// Key prefixes. Bump the version suffix when the cached format changes.
const (
	prefixCalculation = "calc:v1"
	prefixPreview     = "preview:v1"
)

// DefaultKeyer hashes canonical JSON of the inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CalculationKey implements Keyer.
func (DefaultKeyer) CalculationKey(input any) string {
	return hashKey(prefixCalculation, input)
}

// PreviewKey implements Keyer.
func (DefaultKeyer) PreviewKey(input any, opts PreviewKeyOpts) string {
	return hashKey(prefixPreview, input, opts)
}

var _ Keyer = DefaultKeyer{}
