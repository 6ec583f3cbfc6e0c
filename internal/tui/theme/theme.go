// Package theme defines the color themes of the tripvault planner TUI.
package theme

import (
	"github.com/theirongolddev/tripvault/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps each part of the planner screen to a color.
type Theme struct {
	Name string

	Background   lipgloss.Color // app background
	Surface      lipgloss.Color // cards and bars
	SurfaceHover lipgloss.Color // active tab, fuel pill
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused day card, overlays

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color // headline figures and titles
	KeyHint      lipgloss.Color // key names and the fuel pill
	Total        lipgloss.Color // day and trip totals, success notices
	Error        lipgloss.Color // failed saves
	Trend        lipgloss.Color // daily spend chart

	// One bar color per cost category.
	Stay       lipgloss.Color
	Transport  lipgloss.Color
	Food       lipgloss.Color
	Activities lipgloss.Color
	Misc       lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	KeyHint:      lipgloss.Color("#24837B"),
	Total:        lipgloss.Color("#A3B859"),
	Error:        lipgloss.Color("#D14D41"),
	Trend:        lipgloss.Color("#4385BE"),
	Stay:         lipgloss.Color("#24837B"),
	Transport:    lipgloss.Color("#4385BE"),
	Food:         lipgloss.Color("#8B7EC8"),
	Activities:   lipgloss.Color("#DA702C"),
	Misc:         lipgloss.Color("#CE5D97"),
}

// Slate matches the colors of the web planner page.
var Slate = Theme{
	Name:         "slate",
	Background:   lipgloss.Color("#0B1120"),
	Surface:      lipgloss.Color("#111827"),
	SurfaceHover: lipgloss.Color("#1F2937"),
	Border:       lipgloss.Color("#1F2937"),
	BorderAccent: lipgloss.Color("#22D3EE"),
	TextDim:      lipgloss.Color("#4B5563"),
	TextMuted:    lipgloss.Color("#9CA3AF"),
	TextPrimary:  lipgloss.Color("#E5E7EB"),
	Accent:       lipgloss.Color("#22D3EE"),
	AccentBright: lipgloss.Color("#67E8F9"),
	KeyHint:      lipgloss.Color("#22D3EE"),
	Total:        lipgloss.Color("#4ADE80"),
	Error:        lipgloss.Color("#E11D48"),
	Trend:        lipgloss.Color("#3B82F6"),
	Stay:         lipgloss.Color("#22D3EE"),
	Transport:    lipgloss.Color("#3B82F6"),
	Food:         lipgloss.Color("#A855F7"),
	Activities:   lipgloss.Color("#F97316"),
	Misc:         lipgloss.Color("#E11D48"),
}

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	KeyHint:      lipgloss.Color("#94E2D5"),
	Total:        lipgloss.Color("#A6E3A1"),
	Error:        lipgloss.Color("#F38BA8"),
	Trend:        lipgloss.Color("#89B4FA"),
	Stay:         lipgloss.Color("#94E2D5"),
	Transport:    lipgloss.Color("#89B4FA"),
	Food:         lipgloss.Color("#CBA6F7"),
	Activities:   lipgloss.Color("#FAB387"),
	Misc:         lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue and purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	KeyHint:      lipgloss.Color("#7DCFFF"),
	Total:        lipgloss.Color("#9ECE6A"),
	Error:        lipgloss.Color("#F7768E"),
	Trend:        lipgloss.Color("#7AA2F7"),
	Stay:         lipgloss.Color("#7DCFFF"),
	Transport:    lipgloss.Color("#7AA2F7"),
	Food:         lipgloss.Color("#BB9AF7"),
	Activities:   lipgloss.Color("#FF9E64"),
	Misc:         lipgloss.Color("#F7768E"),
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	KeyHint:      lipgloss.Color("6"),
	Total:        lipgloss.Color("10"),
	Error:        lipgloss.Color("1"),
	Trend:        lipgloss.Color("4"),
	Stay:         lipgloss.Color("6"),
	Transport:    lipgloss.Color("4"),
	Food:         lipgloss.Color("5"),
	Activities:   lipgloss.Color("3"),
	Misc:         lipgloss.Color("1"),
}

// All lists the themes offered by setup, in display order.
var All = []Theme{FlexokiDark, Slate, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named theme, or FlexokiDark when there is none.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive switches Active to the named theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Category returns the bar color for a pipeline category key.
func (t Theme) Category(key string) lipgloss.Color {
	switch key {
	case pipeline.CatStay:
		return t.Stay
	case pipeline.CatTransport:
		return t.Transport
	case pipeline.CatFood:
		return t.Food
	case pipeline.CatActivities:
		return t.Activities
	case pipeline.CatMisc:
		return t.Misc
	}
	return t.Accent
}
