package config

import "sort"

// Feature names accepted by Features.Enabled.
const (
	FeatureOptimalBorder = "optimal_border"
	FeaturePreview       = "preview"
	FeaturePresetSharing = "preset_sharing"
	FeatureExposure      = "exposure"
)

// Features toggles optional functionality. All features are on by default.
type Features struct {
	OptimalBorder bool `toml:"optimal_border"`
	Preview       bool `toml:"preview"`
	PresetSharing bool `toml:"preset_sharing"`
	Exposure      bool `toml:"exposure"`
}

// AllFeatures returns a Features value with everything enabled.
func AllFeatures() Features {
	return Features{OptimalBorder: true, Preview: true, PresetSharing: true, Exposure: true}
}

// Enabled reports whether the named feature is on. Unknown names are off.
func (f Features) Enabled(name string) bool {
	switch name {
	case FeatureOptimalBorder:
		return f.OptimalBorder
	case FeaturePreview:
		return f.Preview
	case FeaturePresetSharing:
		return f.PresetSharing
	case FeatureExposure:
		return f.Exposure
	}
	return false
}

// List returns the enabled feature names, sorted.
func (f Features) List() []string {
	var out []string
	for _, name := range []string{FeatureOptimalBorder, FeaturePreview, FeaturePresetSharing, FeatureExposure} {
		if f.Enabled(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
