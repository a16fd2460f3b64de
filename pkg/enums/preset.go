package enums

// Preset names a relative reporting window.
type Preset string

const (
	PresetYesterday Preset = "yesterday"
	PresetLast7     Preset = "last7"
	PresetLast14    Preset = "last14"
	PresetLast30    Preset = "last30"
	PresetThisMonth Preset = "thisMonth"
	PresetLastMonth Preset = "lastMonth"
)

// DefaultPreset is the trailing window used when a request omits or
// misspells its preset. Unknown presets normalize here, they never fail.
const DefaultPreset = PresetLast7

var validPresets = []Preset{
	PresetYesterday,
	PresetLast7,
	PresetLast14,
	PresetLast30,
	PresetThisMonth,
	PresetLastMonth,
}

// String implements fmt.Stringer.
func (p Preset) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Preset.
func (p Preset) IsValid() bool {
	for _, candidate := range validPresets {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalizePreset maps raw input to a known Preset, falling back to
// DefaultPreset for anything unrecognized.
func NormalizePreset(value string) Preset {
	candidate := Preset(value)
	if candidate.IsValid() {
		return candidate
	}
	return DefaultPreset
}
