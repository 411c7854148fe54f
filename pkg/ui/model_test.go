package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/debounce"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/story"
)

func movie(title string, year int, gross, rating float64, genres ...string) model.Movie {
	return model.Movie{Title: title, ReleaseYear: year, Gross: gross, Rating: rating, Genres: genres}
}

func testDataset() *model.Dataset {
	return model.NewDataset([]model.Movie{
		movie("The Godfather", 1972, 134.97e6, 9.2, "Crime", "Drama"),
		movie("Jaws", 1975, 260e6, 8.0, "Adventure", "Thriller"),
		movie("Star Wars", 1977, 322.74e6, 8.6, "Action", "Adventure", "Sci-Fi"),
		movie("The Shawshank Redemption", 1994, 28.34e6, 9.3, "Drama"),
		movie("Avatar", 2009, 760.5e6, 7.8, "Action", "Adventure", "Sci-Fi"),
		movie("Inception", 2010, 292.58e6, 8.8, "Action", "Sci-Fi"),
		movie("Star Wars: Episode VII - The Force Awakens", 2015, 936.66e6, 7.9, "Action", "Adventure", "Sci-Fi"),
	})
}

func newTestModel(t *testing.T) (Model, *dashboard.Dashboard, *debounce.FakeClock) {
	t.Helper()
	clock := debounce.NewFakeClock()
	d := dashboard.New(testDataset(), dashboard.WithClock(clock))
	m := NewModel(d)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, d, clock
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func TestModelResizesDashboard(t *testing.T) {
	m, _, _ := newTestModel(t)
	sideW, pw, ph := m.layout()
	if sideW != 40 || pw != 70 || ph != 24 {
		t.Fatalf("layout = %d, %d, %d; want 40, 70, 24", sideW, pw, ph)
	}
	if m.frame.Width != 69 || m.frame.Height != 23 {
		t.Errorf("dashboard size = %vx%v, want 69x23", m.frame.Width, m.frame.Height)
	}
	if gw, gh := plotSize(m.frame); gw != pw || gh != ph {
		t.Errorf("plotSize = %d, %d; want %d, %d", gw, gh, pw, ph)
	}
}

func TestModelTabCyclesPanes(t *testing.T) {
	m, _, _ := newTestModel(t)
	want := []pane{paneTimeline, paneGenres, paneLegend, paneScatter}
	for _, p := range want {
		m = press(t, m, "tab")
		if m.focus != p {
			t.Fatalf("focus = %s, want %s", m.focus, p)
		}
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != paneLegend {
		t.Errorf("shift+tab focus = %s, want Legend", m.focus)
	}
}

func TestModelScatterKeyboardNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "right")
	h := m.frame.Highlight
	if h.ActiveTitle == "" || h.Source != highlight.SourceKeyboard {
		t.Fatalf("after right: active %q source %q", h.ActiveTitle, h.Source)
	}
	year := *h.FocusedYear

	m = press(t, m, "enter")
	if l := m.frame.Highlight.LockedYear; l == nil || *l != year {
		t.Errorf("LockedYear = %v, want %d", l, year)
	}

	m = press(t, m, "esc")
	if m.frame.Highlight.LockedYear != nil {
		t.Error("esc should clear the lock")
	}
	if m.frame.Highlight.ActiveTitle != "" {
		t.Errorf("esc should blur, active = %q", m.frame.Highlight.ActiveTitle)
	}
}

func TestModelGenreToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "tab", "tab")
	if m.focus != paneGenres {
		t.Fatalf("focus = %s", m.focus)
	}
	m = press(t, m, "enter")
	if m.frame.Filter.AllGenres {
		t.Fatal("toggling Action should leave a partial selection")
	}
	for _, g := range m.frame.Filter.Genres {
		if g == "Action" {
			t.Errorf("Action still selected: %v", m.frame.Filter.Genres)
		}
	}

	m = press(t, m, "n")
	if len(m.frame.Points) != 0 || m.frame.Empty == "" {
		t.Errorf("no genres: %d points, empty %q", len(m.frame.Points), m.frame.Empty)
	}
	m = press(t, m, "e")
	if !m.frame.Filter.AllGenres || len(m.frame.Points) != 7 {
		t.Errorf("recover: all=%v points=%d", m.frame.Filter.AllGenres, len(m.frame.Points))
	}
}

func TestModelTimelineBrush(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "tab", "right")
	if m.tlCursor == nil || *m.tlCursor != 1972 {
		t.Fatalf("cursor = %v, want 1972", m.tlCursor)
	}
	if y := m.frame.Highlight.FocusedYear; y == nil || *y != 1972 {
		t.Errorf("FocusedYear = %v, want 1972", y)
	}

	m = press(t, m, "enter", "right", "right", "enter")
	r := m.frame.Filter.YearRange
	if r == nil || r.Min != 1972 || r.Max != 1977 {
		t.Fatalf("YearRange = %+v, want 1972-1977", r)
	}
	if len(m.frame.Points) != 3 {
		t.Errorf("points = %d, want 3", len(m.frame.Points))
	}

	m = press(t, m, "x")
	if m.frame.Filter.YearRange != nil {
		t.Errorf("x should reset the brush, got %+v", m.frame.Filter.YearRange)
	}
}

func TestModelLegendKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "tab", "tab", "tab")
	split := m.frame.Filter.RatingSplit

	m = press(t, m, "enter")
	if bandVisible(m.frame, model.BandHigh) {
		t.Error("enter on the first row should hide the high band")
	}
	m = press(t, m, "down", "down", "right")
	if got := m.frame.Filter.RatingSplit; got <= split {
		t.Errorf("split = %v, want above %v", got, split)
	}
	m = press(t, m, "x")
	if !bandVisible(m.frame, model.BandHigh) || m.frame.Filter.RatingSplit != m.frame.Filter.DefaultSplit {
		t.Errorf("reset legend: bands %v split %v", m.frame.Filter.Bands, m.frame.Filter.RatingSplit)
	}
}

func TestModelStoryFlow(t *testing.T) {
	m, _, clock := newTestModel(t)
	m = press(t, m, "t")
	if !m.frame.Story.Active || m.frame.Story.Index != 0 {
		t.Fatalf("story = %+v", m.frame.Story)
	}

	m = press(t, m, "right", "right")
	if m.frame.Story.Index != 2 {
		t.Fatalf("index = %d, want 2", m.frame.Story.Index)
	}
	m = press(t, m, "right")
	if m.frame.Story.Index != 2 || !m.statusErr {
		t.Errorf("gated step: index %d, status %q", m.frame.Story.Index, m.status)
	}

	clock.Advance(story.DefaultSetupDelay)
	m = update(t, m, FrameMsg{Frame: m.d.Frame()})
	if len(m.frame.Story.Clickables) == 0 {
		t.Fatal("clickables should be armed after the setup delay")
	}
	m = press(t, m, "1")
	if m.frame.Story.Index != 3 {
		t.Errorf("after click index = %d, want 3", m.frame.Story.Index)
	}

	m = press(t, m, "esc")
	if m.frame.Story.Active {
		t.Error("esc should end the tour")
	}
}

func TestModelLockedControlReportsStatus(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "t", "tab", "tab", "enter")
	if !strings.Contains(m.status, "Locked") || !m.statusErr {
		t.Errorf("status = %q, want a locked message", m.status)
	}
	if !m.frame.Filter.AllGenres {
		t.Error("genre selection changed during the tour")
	}
}

func TestModelStatusClears(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.setStatus("first", false)
	stale := m.statusSeq
	m.setStatus("second", false)

	m = update(t, m, clearStatusMsg{seq: stale})
	if m.status != "second" {
		t.Errorf("stale clear removed status, got %q", m.status)
	}
	m = update(t, m, clearStatusMsg{seq: m.statusSeq})
	if m.status != "" {
		t.Errorf("status = %q, want cleared", m.status)
	}
}

func TestModelDropsStaleFrames(t *testing.T) {
	m, _, _ := newTestModel(t)
	rev := m.frame.Revision
	m = update(t, m, FrameMsg{Frame: dashboard.Frame{Revision: rev - 1}})
	if m.frame.Revision != rev {
		t.Errorf("revision = %d, want %d", m.frame.Revision, rev)
	}
}

func TestModelMouseHoverAndLock(t *testing.T) {
	m, _, _ := newTestModel(t)
	pw, ph := plotSize(m.frame)
	col, row, ok := pointCell(m.frame, m.frame.Points[0].Movie, pw, ph)
	if !ok {
		t.Fatal("first point outside the plot")
	}
	want, _ := pointAt(m.frame, col, row)
	ox, sy, _ := m.plotOrigin()

	m = update(t, m, tea.MouseMsg{X: ox + col, Y: sy + row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	h := m.frame.Highlight
	if h.FocusedYear == nil || *h.FocusedYear != want.ReleaseYear || h.Source != highlight.SourceScatter {
		t.Fatalf("hover highlight = %+v, want %d from scatter", h, want.ReleaseYear)
	}

	m = update(t, m, tea.MouseMsg{X: ox + col, Y: sy + row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if l := m.frame.Highlight.LockedYear; l == nil || *l != want.ReleaseYear {
		t.Errorf("LockedYear = %v, want %d", l, want.ReleaseYear)
	}
}

func TestModelWheelZooms(t *testing.T) {
	m, _, _ := newTestModel(t)
	ox, sy, _ := m.plotOrigin()
	m = update(t, m, tea.MouseMsg{X: ox + 10, Y: sy + 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.frame.Transform.K <= 1 {
		t.Errorf("K = %v, want > 1", m.frame.Transform.K)
	}
	if !m.frame.ResetVisible {
		t.Error("reset should be visible after zooming")
	}
}

func TestModelView(t *testing.T) {
	m, _, _ := newTestModel(t)
	out := m.View()
	for _, want := range []string{"marquee", "Stats", "Legend", "Genres", "Focus", "Mean gross per year"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}

	m = press(t, m, "t")
	if out := m.View(); !strings.Contains(out, "Tour") || !strings.Contains(out, "A Century of Cinema") {
		t.Error("story view should show the tour panel")
	}

	small := update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(small.View(), "Terminal too small") {
		t.Error("expected the too-small notice")
	}
}
