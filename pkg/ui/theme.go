package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the palette and the pre-built styles every view draws with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Bands
	High lipgloss.AdaptiveColor
	Low  lipgloss.AdaptiveColor

	Focus  lipgloss.AdaptiveColor
	Border lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	MutedText lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Selected  lipgloss.Style
	Disabled  lipgloss.Style

	// Plot glyph styles.
	HighDot   lipgloss.Style
	LowDot    lipgloss.Style
	FocusDot  lipgloss.Style
	Axis      lipgloss.Style
	Brush     lipgloss.Style
	Note      lipgloss.Style
	StoryNote lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		High: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1C40F"},
		Low:  lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#8BE9FD"},

		Focus:  lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#FF79C6"},
		Border: lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Muted:  lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Label = r.NewStyle().Foreground(t.Subtext)
	t.Value = r.NewStyle().Foreground(t.Base.GetForeground()).Bold(true)
	t.Selected = r.NewStyle().
		Background(ColorBgHighlight).
		Foreground(t.Primary).
		Bold(true)
	t.Disabled = r.NewStyle().Foreground(t.Border).Strikethrough(true)

	t.HighDot = r.NewStyle().Foreground(t.High)
	t.LowDot = r.NewStyle().Foreground(t.Low)
	t.FocusDot = r.NewStyle().Foreground(t.Focus).Bold(true)
	t.Axis = r.NewStyle().Foreground(t.Secondary)
	t.Brush = r.NewStyle().Background(ThemeBg("#44475A")).Foreground(t.Primary)
	t.Note = r.NewStyle().Foreground(ThemeFg("#F1FA8C")).Italic(true)
	t.StoryNote = r.NewStyle().Foreground(ThemeFg("#FFB86C")).Bold(true)

	return t
}

// BandColor returns the color of a rating band.
func (t Theme) BandColor(b model.Band) lipgloss.AdaptiveColor {
	if b == model.BandHigh {
		return t.High
	}
	return t.Low
}

// BandStyle returns the dot style of a rating band.
func (t Theme) BandStyle(b model.Band) lipgloss.Style {
	if b == model.BandHigh {
		return t.HighDot
	}
	return t.LowDot
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
