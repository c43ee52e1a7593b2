package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thSakuraTheme(),
		thNordTheme(),
		thTokyoNightTheme(),
		thMonoTheme(),
	} {
		thRegister(t)
	}
}

// thDefaultTheme is a dark sumi-ink palette with a vermilion accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Foreground: "#e6e1d6",
		Dim:        "#7a7568",
		Accent:     "#e34234",

		Border:      "#3d3a34",
		BorderFocus: "#e34234",
		Title:       "#f2c14e",

		Rising:  "#ef5350",
		Falling: "#4fc3f7",

		Good: "#66bb6a",
		Warn: "#ffb74d",
		Crit: "#ef5350",

		GaugeEmpty: "#3d3a34",
		Series:     []string{"#4fc3f7", "#ef5350", "#f2c14e", "#66bb6a", "#ba68c8"},

		HelpKey:  "#e34234",
		HelpDesc: "#7a7568",
	}
}

// thSakuraTheme is a soft pink palette.
func thSakuraTheme() Theme {
	return Theme{
		Name:       "sakura",
		Foreground: "#fbe9ef",
		Dim:        "#9c7f8a",
		Accent:     "#f48fb1",

		Border:      "#4a3640",
		BorderFocus: "#f48fb1",
		Title:       "#fce4ec",

		Rising:  "#ff6f91",
		Falling: "#81d4fa",

		Good: "#a5d6a7",
		Warn: "#ffcc80",
		Crit: "#ff6f91",

		GaugeEmpty: "#4a3640",
		Series:     []string{"#f48fb1", "#81d4fa", "#ffcc80", "#a5d6a7", "#ce93d8"},

		HelpKey:  "#f48fb1",
		HelpDesc: "#9c7f8a",
	}
}

// thNordTheme returns the cool arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#e5e9f0",

		Rising:  "#bf616a",
		Falling: "#81a1c1",

		Good: "#a3be8c",
		Warn: "#ebcb8b",
		Crit: "#bf616a",

		GaugeEmpty: "#3b4252",
		Series:     []string{"#88c0d0", "#bf616a", "#ebcb8b", "#a3be8c", "#b48ead"},

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

// thTokyoNightTheme returns the Tokyo Night theme.
func thTokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",

		Border:      "#292e42",
		BorderFocus: "#7aa2f7",
		Title:       "#c0caf5",

		Rising:  "#f7768e",
		Falling: "#7dcfff",

		Good: "#9ece6a",
		Warn: "#e0af68",
		Crit: "#f7768e",

		GaugeEmpty: "#292e42",
		Series:     []string{"#7aa2f7", "#f7768e", "#e0af68", "#9ece6a", "#bb9af7"},

		HelpKey:  "#7aa2f7",
		HelpDesc: "#565f89",
	}
}

// thMonoTheme keeps everything in grays for terminals without color.
func thMonoTheme() Theme {
	return Theme{
		Name:       "mono",
		Foreground: "#d0d0d0",
		Dim:        "#808080",
		Accent:     "#ffffff",

		Border:      "#585858",
		BorderFocus: "#ffffff",
		Title:       "#ffffff",

		Rising:  "#ffffff",
		Falling: "#a8a8a8",

		Good: "#a8a8a8",
		Warn: "#d0d0d0",
		Crit: "#ffffff",

		GaugeEmpty: "#444444",
		Series:     []string{"#ffffff", "#a8a8a8", "#808080"},

		HelpKey:  "#ffffff",
		HelpDesc: "#808080",
	}
}
