package config

import "sort"

// Widget set names for [display] preset.
const (
	PresetFull     = "full"
	PresetEconomy  = "economy"
	PresetSociety  = "society"
	PresetLive     = "live"
	PresetCounters = "counters"
)

// presets maps each name to its widget IDs in display order. Full is nil:
// every widget.
var presets = map[string][]string{
	PresetFull: nil,

	//	debt  percapita  tax  opportunity  corporate  income  fx
	PresetEconomy: {"debt", "percapita", "tax", "opportunity", "corporate", "income", "fx"},

	//	population  support  region  demographics  silver  leaders
	//	generations  cities  infra  bridges  bridgemap
	PresetSociety: {
		"population", "support", "region", "demographics", "silver", "leaders",
		"generations", "cities", "infra", "bridges", "bridgemap",
	},

	// Only the widgets fed by network sources.
	PresetLive: {"region", "weather", "fx", "quakes", "news"},

	// The real-time counters, for small terminals.
	PresetCounters: {"debt", "population", "percapita", "tax"},
}

// Preset returns the widget IDs of a named set and whether the name is
// known. A nil slice with ok means every widget.
func Preset(name string) ([]string, bool) {
	ids, ok := presets[name]
	return ids, ok
}

// PresetNames lists the known sets alphabetically.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
