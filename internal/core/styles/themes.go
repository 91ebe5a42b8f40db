package styles

import (
	"image/color"
	"sort"

	lipgloss "charm.land/lipgloss/v2"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Light bool

	Primary    color.Color
	Secondary  color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
	Mark       color.Color
}

const (
	// DefaultDarkPalette is used for the dark theme unless configured.
	DefaultDarkPalette = "tokyo-night"
	// DefaultLightPalette is used for the light theme unless configured.
	DefaultLightPalette = "tokyo-day"
)

// palettes holds the built-in named palettes.
var palettes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
		Mark:       lipgloss.Color("#bb9af7"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Background: lipgloss.Color("#282828"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
		Mark:       lipgloss.Color("#d3869b"),
	},
	"catppuccin": {
		Primary:    lipgloss.Color("#89b4fa"), // Blue
		Secondary:  lipgloss.Color("#94e2d5"), // Teal
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0
		Background: lipgloss.Color("#1e1e2e"), // Base
		Surface:    lipgloss.Color("#313244"), // Surface0
		Success:    lipgloss.Color("#a6e3a1"), // Green
		Warning:    lipgloss.Color("#f9e2af"), // Yellow
		Error:      lipgloss.Color("#f38ba8"), // Red
		Mark:       lipgloss.Color("#cba6f7"), // Mauve
	},
	"kanagawa": {
		Primary:    lipgloss.Color("#7E9CD8"), // crystalBlue
		Secondary:  lipgloss.Color("#7FB4CA"), // springBlue
		Foreground: lipgloss.Color("#DCD7BA"), // fujiWhite
		Muted:      lipgloss.Color("#727169"), // fujiGray
		Background: lipgloss.Color("#1F1F28"), // sumiInk1
		Surface:    lipgloss.Color("#2A2A37"), // sumiInk3
		Success:    lipgloss.Color("#76946A"), // autumnGreen
		Warning:    lipgloss.Color("#DCA561"), // autumnYellow
		Error:      lipgloss.Color("#C34043"), // autumnRed
		Mark:       lipgloss.Color("#957FB8"), // oniViolet
	},
	"onedark": {
		Primary:    lipgloss.Color("#61afef"),
		Secondary:  lipgloss.Color("#56b6c2"),
		Foreground: lipgloss.Color("#abb2bf"),
		Muted:      lipgloss.Color("#5c6370"),
		Background: lipgloss.Color("#282c34"),
		Surface:    lipgloss.Color("#3e4452"),
		Success:    lipgloss.Color("#98c379"),
		Warning:    lipgloss.Color("#e5c07b"),
		Error:      lipgloss.Color("#e06c75"),
		Mark:       lipgloss.Color("#c678dd"),
	},

	"tokyo-day": {
		Light:      true,
		Primary:    lipgloss.Color("#2e7de9"),
		Secondary:  lipgloss.Color("#007197"),
		Foreground: lipgloss.Color("#3760bf"),
		Muted:      lipgloss.Color("#848cb5"),
		Background: lipgloss.Color("#e1e2e7"),
		Surface:    lipgloss.Color("#c4c8da"),
		Success:    lipgloss.Color("#587539"),
		Warning:    lipgloss.Color("#8c6c3e"),
		Error:      lipgloss.Color("#f52a65"),
		Mark:       lipgloss.Color("#9854f1"),
	},
	"catppuccin-latte": {
		Light:      true,
		Primary:    lipgloss.Color("#1e66f5"), // Blue
		Secondary:  lipgloss.Color("#179299"), // Teal
		Foreground: lipgloss.Color("#4c4f69"), // Text
		Muted:      lipgloss.Color("#9ca0b0"), // Overlay0
		Background: lipgloss.Color("#eff1f5"), // Base
		Surface:    lipgloss.Color("#ccd0da"), // Surface0
		Success:    lipgloss.Color("#40a02b"), // Green
		Warning:    lipgloss.Color("#df8e1d"), // Yellow
		Error:      lipgloss.Color("#d20f39"), // Red
		Mark:       lipgloss.Color("#8839ef"), // Mauve
	},
	"gruvbox-light": {
		Light:      true,
		Primary:    lipgloss.Color("#076678"),
		Secondary:  lipgloss.Color("#427b58"),
		Foreground: lipgloss.Color("#3c3836"),
		Muted:      lipgloss.Color("#928374"),
		Background: lipgloss.Color("#fbf1c7"),
		Surface:    lipgloss.Color("#ebdbb2"),
		Success:    lipgloss.Color("#79740e"),
		Warning:    lipgloss.Color("#b57614"),
		Error:      lipgloss.Color("#9d0006"),
		Mark:       lipgloss.Color("#8f3f71"),
	},
}

// PaletteNames returns sorted names of all built-in palettes, optionally
// filtered to light or dark palettes.
func PaletteNames(light bool) []string {
	names := make([]string, 0, len(palettes))
	for name, p := range palettes {
		if p.Light == light {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given name.
func GetPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// ResolvePalette returns the named palette when it exists and matches the
// requested brightness, otherwise the built-in default for that brightness.
func ResolvePalette(name string, light bool) Palette {
	if p, ok := palettes[name]; ok && p.Light == light {
		return p
	}
	if light {
		return palettes[DefaultLightPalette]
	}
	return palettes[DefaultDarkPalette]
}
