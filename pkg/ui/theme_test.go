package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/story"
)

func TestDefaultTheme(t *testing.T) {
	renderer := lipgloss.NewRenderer(nil)
	theme := DefaultTheme(renderer)

	if theme.Renderer != renderer {
		t.Error("DefaultTheme renderer mismatch")
	}
	if isColorEmpty(theme.Primary) || isColorEmpty(theme.High) || isColorEmpty(theme.Low) {
		t.Error("DefaultTheme has an empty color")
	}
	if theme.High == theme.Low {
		t.Error("bands should have distinct colors")
	}
}

func isColorEmpty(c lipgloss.AdaptiveColor) bool {
	return c.Light == "" && c.Dark == ""
}

func TestBandColor(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))
	if theme.BandColor(model.BandHigh) != theme.High {
		t.Error("BandColor(high) mismatch")
	}
	if theme.BandColor(model.BandLow) != theme.Low {
		t.Error("BandColor(low) mismatch")
	}
}

func TestThemeColorsFollowProfile(t *testing.T) {
	orig := TermProfile
	defer func() { TermProfile = orig }()

	TermProfile = colorprofile.ANSI
	if _, ok := ThemeBg("#44475A").(lipgloss.NoColor); !ok {
		t.Error("ThemeBg on ANSI should be NoColor")
	}
	if got := ThemeFg("#FFB86C"); got != lipgloss.ANSIColor(7) {
		t.Errorf("ThemeFg on ANSI = %v, want ANSI 7", got)
	}

	TermProfile = colorprofile.TrueColor
	if got := ThemeBg("#44475A"); got != lipgloss.Color("#44475A") {
		t.Errorf("ThemeBg on TrueColor = %v", got)
	}
}

func TestKeyMapFollowsControls(t *testing.T) {
	k := defaultKeyMap()
	k.applyControls(story.Controls{Zoom: true}, true)
	if k.AllGenres.Enabled() || k.SplitUp.Enabled() || k.ResetAll.Enabled() || k.Story.Enabled() {
		t.Error("tour should disable filter bindings and the story key")
	}
	if !k.ZoomIn.Enabled() || !k.ClickPick.Enabled() {
		t.Error("zoom and click picks stay available during the tour")
	}

	k.applyControls(story.AllControls, false)
	if !k.AllGenres.Enabled() || !k.Story.Enabled() || k.ClickPick.Enabled() {
		t.Error("bindings not restored after the tour")
	}
	if len(k.ShortHelp()) == 0 || len(k.FullHelp()) != 4 {
		t.Error("help groups missing")
	}
}
