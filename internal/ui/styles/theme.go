package styles

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for terminal output
type Theme struct {
	Primary color.Color // headers, highlighted values
	Success color.Color // OK results
	Warning color.Color // skipped results, dirty repos
	Error   color.Color // failed results
	Muted   color.Color // dry-run results, secondary text
}

// Preset themes
var (
	// DefaultTheme uses the 256-color palette
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Success: lipgloss.Color("82"),  // green
		Warning: lipgloss.Color("214"), // orange
		Error:   lipgloss.Color("196"), // red
		Muted:   lipgloss.Color("244"), // gray
	}

	// DraculaTheme is based on the Dracula color scheme
	DraculaTheme = Theme{
		Primary: lipgloss.Color("#bd93f9"), // purple
		Success: lipgloss.Color("#50fa7b"), // green
		Warning: lipgloss.Color("#ffb86c"), // orange
		Error:   lipgloss.Color("#ff5555"), // red
		Muted:   lipgloss.Color("#6272a4"), // comment
	}

	// NordTheme is based on the Nord color scheme
	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"), // nord8 (frost cyan)
		Success: lipgloss.Color("#a3be8c"), // nord14 (aurora green)
		Warning: lipgloss.Color("#ebcb8b"), // nord13 (aurora yellow)
		Error:   lipgloss.Color("#bf616a"), // nord11 (aurora red)
		Muted:   lipgloss.Color("#4c566a"), // nord3 (polar night)
	}

	// GruvboxTheme is based on the Gruvbox color scheme
	GruvboxTheme = Theme{
		Primary: lipgloss.Color("#83a598"), // blue
		Success: lipgloss.Color("#b8bb26"), // green
		Warning: lipgloss.Color("#fabd2f"), // yellow
		Error:   lipgloss.Color("#fb4934"), // red
		Muted:   lipgloss.Color("#665c54"), // gray
	}

	// NoneTheme renders without any colors, formatting is preserved
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
	}
)

var presets = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"nord":    NordTheme,
	"gruvbox": GruvboxTheme,
	"none":    NoneTheme,
}

// currentTheme holds the active theme
var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// PresetNames returns the sorted preset names
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Init activates the named preset. An empty name selects "default".
// An unknown name keeps the default theme and returns an error.
func Init(name string) error {
	if name == "" {
		name = "default"
	}
	theme, ok := presets[name]
	if !ok {
		currentTheme = DefaultTheme
		applyTheme(DefaultTheme)
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	currentTheme = theme
	applyTheme(theme)
	return nil
}
