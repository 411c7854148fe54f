package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/highlight"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/story"
)

// pane is the keyboard focus region.
type pane int

const (
	paneScatter pane = iota
	paneTimeline
	paneGenres
	paneLegend
	paneCount
)

func (p pane) String() string {
	switch p {
	case paneScatter:
		return "Scatter"
	case paneTimeline:
		return "Timeline"
	case paneGenres:
		return "Genres"
	case paneLegend:
		return "Legend"
	}
	return ""
}

// Layout constants, in cells.
const (
	timelineRows   = 4
	sidebarMin     = 30
	sidebarMax     = 44
	statsHeight    = 12 // 9 rows + heading + border
	legendHeight   = 6
	focusHeight    = 8
	minPlotWidth   = 12
	minPlotHeight  = 4
	statusDuration = 3 * time.Second
)

// timelineHeight is the outer height of the timeline panel.
const timelineHeight = timelineRows + 2 + 3

// FrameMsg carries a frame produced outside Update, by a timer.
type FrameMsg struct {
	Frame dashboard.Frame
}

// ReloadMsg reports a dataset reload from the file watcher.
type ReloadMsg struct {
	Summary string
	Err     error
}

type clearStatusMsg struct{ seq int }

// Model is the bubbletea model of the dashboard.
type Model struct {
	d     *dashboard.Dashboard
	frame dashboard.Frame

	width, height int
	focus         pane

	theme    Theme
	keys     keyMap
	help     help.Model
	captions *captionRenderer

	status    string
	statusErr bool
	statusSeq int

	genreCursor int
	bandCursor  int
	tlCursor    *int
	brushAnchor *int

	dragFrom     *int
	scatterHover bool
	tlHover      bool
}

// NewModel wraps d. The initial plot is sized from d's current frame until
// the first window size arrives.
func NewModel(d *dashboard.Dashboard) Model {
	h := help.New()
	m := Model{
		d:        d,
		frame:    d.Frame(),
		width:    120,
		height:   40,
		theme:    DefaultTheme(lipgloss.DefaultRenderer()),
		keys:     defaultKeyMap(),
		help:     h,
		captions: newCaptionRenderer(),
	}
	m.keys.applyControls(m.frame.Controls, m.frame.Story.Active)
	return m
}

// Subscribe forwards timer-driven frames to send, typically a
// tea.Program's Send. It returns the unsubscribe function.
func (m Model) Subscribe(send func(tea.Msg)) func() {
	return m.d.Subscribe(func(f dashboard.Frame) {
		// Send blocks until the event loop reads it, and subscribers run
		// on the goroutine that changed the dashboard, possibly Update.
		go send(FrameMsg{Frame: f})
	})
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh pulls the latest frame after a synchronous dashboard call.
func (m *Model) refresh() {
	m.setFrame(m.d.Frame())
}

func (m *Model) setFrame(f dashboard.Frame) {
	if f.Revision < m.frame.Revision {
		return
	}
	m.frame = f
	m.keys.applyControls(f.Controls, f.Story.Active)
	if n := len(f.GenreCounts); n > 0 {
		m.genreCursor = clampInt(m.genreCursor, 0, n-1)
	}
	if m.tlCursor != nil {
		if _, ok := f.Timeline.Series.At(*m.tlCursor); !ok {
			m.tlCursor = nil
		}
	}
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status, m.statusErr = msg, isErr
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// check turns a rejected dashboard event into a status message.
func (m *Model) check(err error) tea.Cmd {
	m.refresh()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dashboard.ErrControlLocked):
		return m.setStatus("Locked during the tour (esc to leave it)", true)
	case errors.Is(err, story.ErrStepGated):
		return m.setStatus("Click one of the highlighted movies first", true)
	default:
		return m.setStatus(err.Error(), true)
	}
}

// layout returns the sidebar width and the plot size in cells.
func (m Model) layout() (sideW, plotW, plotH int) {
	sideW = clampInt(m.width/3, sidebarMin, sidebarMax)
	mainW := m.width - sideW
	plotW = mainW - 2 - gutterWidth
	// header + footer, scatter border + heading + axis rows, timeline panel
	plotH = m.height - 2 - 5 - timelineHeight
	return sideW, plotW, plotH
}

func (m *Model) resize() {
	_, pw, ph := m.layout()
	if pw < minPlotWidth || ph < minPlotHeight {
		return
	}
	m.d.Resize(float64(pw-1), float64(ph-1))
	m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case FrameMsg:
		m.setFrame(msg.Frame)
		return m, nil

	case ReloadMsg:
		m.refresh()
		if msg.Err != nil {
			return m, m.setStatus("Reload failed: "+msg.Err.Error(), true)
		}
		return m, m.setStatus("Reloaded: "+msg.Summary, false)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) setFocus(p pane) {
	if m.focus == p {
		return
	}
	switch m.focus {
	case paneScatter:
		m.d.Blur()
	case paneTimeline:
		m.d.PointerLeave(highlight.SourceTimeline)
		m.brushAnchor = nil
	}
	m.focus = p
	m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	v := m.frame.Story

	if key.Matches(msg, k.Quit) {
		return m, tea.Quit
	}

	if v.Active {
		switch msg.String() {
		case "right", "l":
			if !m.d.StoryKey(story.KeyRight) {
				return m, m.check(story.ErrStepGated)
			}
			return m, m.check(nil)
		case "left", "h":
			m.d.StoryKey(story.KeyLeft)
			return m, m.check(nil)
		case "esc":
			m.d.StoryKey(story.KeyEscape)
			return m, m.check(nil)
		}
		if key.Matches(msg, k.ClickPick) {
			return m, m.pick(int(msg.String()[0] - '1'))
		}
	}

	switch {
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, k.NextPane):
		m.setFocus((m.focus + 1) % paneCount)
		return m, nil
	case key.Matches(msg, k.PrevPane):
		m.setFocus((m.focus + paneCount - 1) % paneCount)
		return m, nil
	case key.Matches(msg, k.Story):
		m.d.StoryStart()
		return m, m.check(nil)
	case key.Matches(msg, k.ResetAll):
		return m, m.check(m.d.ResetFilters())
	case key.Matches(msg, k.Recover):
		return m, m.check(m.d.Recover())
	case key.Matches(msg, k.Copy):
		return m, m.copyFocused()
	case key.Matches(msg, k.ZoomIn):
		return m, m.zoom(1.5)
	case key.Matches(msg, k.ZoomOut):
		return m, m.zoom(1 / 1.5)
	case key.Matches(msg, k.ZoomReset):
		return m, m.check(m.d.ResetZoom())
	case key.Matches(msg, k.Pan):
		return m, m.pan(msg.String())
	case key.Matches(msg, k.SplitUp):
		return m, m.check(m.d.SetRatingSplit(m.frame.Filter.RatingSplit + 0.1))
	case key.Matches(msg, k.SplitDown):
		return m, m.check(m.d.SetRatingSplit(m.frame.Filter.RatingSplit - 0.1))
	}

	switch m.focus {
	case paneScatter:
		return m, m.scatterKey(msg)
	case paneTimeline:
		return m, m.timelineKey(msg)
	case paneGenres:
		return m, m.genresKey(msg)
	case paneLegend:
		return m, m.legendKey(msg)
	}
	return m, nil
}

// pick clicks the i-th numbered movie of the current tour step.
func (m *Model) pick(i int) tea.Cmd {
	c := m.frame.Story.Clickables
	if i < 0 || i >= len(c) {
		return nil
	}
	title := c[i]
	if !m.d.RecordClicked(title) {
		return m.check(nil)
	}
	m.refresh()
	return m.setStatus("Clicked "+title, false)
}

func (m *Model) copyFocused() tea.Cmd {
	mv := m.focusedMovie()
	if mv == nil {
		return m.setStatus("Nothing focused to copy", true)
	}
	if err := clipboard.WriteAll(movieLine(mv)); err != nil {
		return m.setStatus("Clipboard unavailable: "+err.Error(), true)
	}
	return m.setStatus("Copied "+mv.Title, false)
}

// focusedMovie is the keyboard-active movie, or the first movie of the
// focused year.
func (m Model) focusedMovie() *model.Movie {
	title := m.frame.Highlight.ActiveTitle
	if title == "" && len(m.frame.Highlighted) > 0 {
		title = m.frame.Highlighted[0]
	}
	for _, p := range m.frame.Points {
		if p.Movie.Title == title {
			return p.Movie
		}
	}
	return nil
}

func (m *Model) zoom(factor float64) tea.Cmd {
	return m.check(m.d.ZoomAt(factor, m.frame.Width/2, m.frame.Height/2))
}

func (m *Model) pan(k string) tea.Cmd {
	dx, dy := m.frame.Width/10, m.frame.Height/10
	switch k {
	case "shift+left":
		return m.check(m.d.Pan(dx, 0))
	case "shift+right":
		return m.check(m.d.Pan(-dx, 0))
	case "shift+up":
		return m.check(m.d.Pan(0, dy))
	case "shift+down":
		return m.check(m.d.Pan(0, -dy))
	}
	return nil
}

var navKeys = map[string]highlight.Direction{
	"left": highlight.Left, "h": highlight.Left,
	"right": highlight.Right, "l": highlight.Right,
	"up": highlight.Up, "k": highlight.Up,
	"down": highlight.Down, "j": highlight.Down,
	"home": highlight.Home, "g": highlight.Home,
	"end": highlight.End, "G": highlight.End,
}

func (m *Model) scatterKey(msg tea.KeyMsg) tea.Cmd {
	if dir, ok := navKeys[msg.String()]; ok {
		m.d.Navigate(dir)
		return m.check(nil)
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		mv := m.focusedMovie()
		if mv == nil {
			return nil
		}
		m.d.ToggleLock(mv.ReleaseYear)
		m.d.RecordClicked(mv.Title)
		return m.check(nil)
	case key.Matches(msg, m.keys.Escape):
		m.d.ClearLock()
		m.d.Blur()
		return m.check(nil)
	}
	return nil
}

// timelineStep moves the timeline cursor by delta series entries.
func (m *Model) timelineStep(delta int) {
	s := m.frame.Timeline.Series
	if len(s) == 0 {
		return
	}
	i := 0
	if m.tlCursor != nil {
		for j, p := range s {
			if p.Year == *m.tlCursor {
				i = j + delta
				break
			}
		}
	} else if delta < 0 {
		i = len(s) - 1
	}
	year := s[clampInt(i, 0, len(s)-1)].Year
	m.tlCursor = &year
	m.d.Hover(highlight.SourceTimeline, &year)
}

func (m *Model) timelineKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		m.timelineStep(-1)
		return m.check(nil)
	case "right", "l":
		m.timelineStep(1)
		return m.check(nil)
	case "home", "g":
		m.timelineStep(-len(m.frame.Timeline.Series))
		return m.check(nil)
	case "end", "G":
		m.timelineStep(len(m.frame.Timeline.Series))
		return m.check(nil)
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		if m.tlCursor == nil {
			return nil
		}
		if m.brushAnchor == nil {
			if !m.frame.Controls.Brush {
				return m.check(dashboard.ErrControlLocked)
			}
			y := *m.tlCursor
			m.brushAnchor = &y
			return m.setStatus(fmt.Sprintf("Brush from %d: move and press enter", y), false)
		}
		lo, hi := float64(min(*m.brushAnchor, *m.tlCursor)), float64(max(*m.brushAnchor, *m.tlCursor))
		m.brushAnchor = nil
		return m.check(m.d.BrushChanged(&lo, &hi))
	case key.Matches(msg, m.keys.ResetPane):
		m.brushAnchor = nil
		return m.check(m.d.ResetTimeline())
	case key.Matches(msg, m.keys.Escape):
		m.brushAnchor = nil
		m.tlCursor = nil
		m.d.PointerLeave(highlight.SourceTimeline)
		return m.check(nil)
	}
	return nil
}

func (m *Model) genresKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.frame.GenreCounts)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.genreCursor = clampInt(m.genreCursor-1, 0, max(n-1, 0))
	case key.Matches(msg, m.keys.Down):
		m.genreCursor = clampInt(m.genreCursor+1, 0, max(n-1, 0))
	case key.Matches(msg, m.keys.Home):
		m.genreCursor = 0
	case key.Matches(msg, m.keys.End):
		m.genreCursor = max(n-1, 0)
	case key.Matches(msg, m.keys.Select):
		if n == 0 {
			return nil
		}
		return m.check(m.d.ToggleGenre(m.frame.GenreCounts[m.genreCursor].Genre))
	case key.Matches(msg, m.keys.AllGenres), key.Matches(msg, m.keys.ResetPane):
		return m.check(m.d.SelectAllGenres(true))
	case key.Matches(msg, m.keys.NoGenres):
		return m.check(m.d.SelectAllGenres(false))
	}
	return nil
}

func (m *Model) legendKey(msg tea.KeyMsg) tea.Cmd {
	rows := len(model.AllBands) + 1
	onSlider := m.bandCursor == len(model.AllBands)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.bandCursor = clampInt(m.bandCursor-1, 0, rows-1)
	case key.Matches(msg, m.keys.Down):
		m.bandCursor = clampInt(m.bandCursor+1, 0, rows-1)
	case onSlider && key.Matches(msg, m.keys.Left):
		return m.check(m.d.SetRatingSplit(m.frame.Filter.RatingSplit - 0.1))
	case onSlider && key.Matches(msg, m.keys.Right):
		return m.check(m.d.SetRatingSplit(m.frame.Filter.RatingSplit + 0.1))
	case key.Matches(msg, m.keys.Select):
		if onSlider {
			return nil
		}
		return m.check(m.d.ToggleBand(model.AllBands[m.bandCursor]))
	case key.Matches(msg, m.keys.ResetPane):
		return m.check(m.d.ResetLegend())
	}
	return nil
}

// plotOrigin is the screen cell of plot cell (0, 0) for the scatter and of
// the first bar row for the timeline.
func (m Model) plotOrigin() (x, scatterY, timelineY int) {
	_, _, ph := m.layout()
	x = 1 + gutterWidth
	// header, border, heading
	scatterY = 3
	// the scatter panel is ph+5 rows; then border, heading and marker row
	timelineY = 1 + (ph + 5) + 3
	return x, scatterY, timelineY
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ox, sy, ty := m.plotOrigin()
	pw, ph := plotSize(m.frame)
	col := msg.X - ox
	inX := col >= 0 && col < pw

	switch {
	case inX && msg.Y >= sy && msg.Y < sy+ph:
		return m.scatterMouse(msg, col, msg.Y-sy)
	case inX && msg.Y >= ty-1 && msg.Y < ty+timelineRows:
		return m.timelineMouse(msg, col)
	}
	return m.leavePlots()
}

func (m *Model) leavePlots() tea.Cmd {
	if m.scatterHover {
		m.scatterHover = false
		m.d.PointerLeave(highlight.SourceScatter)
	}
	if m.tlHover {
		m.tlHover = false
		m.d.PointerLeave(highlight.SourceTimeline)
	}
	m.refresh()
	return nil
}

func (m *Model) scatterMouse(msg tea.MouseMsg, col, row int) tea.Cmd {
	if m.tlHover {
		m.tlHover = false
		m.d.PointerLeave(highlight.SourceTimeline)
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.check(m.d.ZoomAt(1.25, float64(col), float64(row)))
	case tea.MouseButtonWheelDown:
		return m.check(m.d.ZoomAt(0.8, float64(col), float64(row)))
	}

	mv, ok := pointAt(m.frame, col, row)
	switch msg.Action {
	case tea.MouseActionMotion:
		if ok {
			y := mv.ReleaseYear
			m.scatterHover = true
			m.d.Hover(highlight.SourceScatter, &y)
		} else if m.scatterHover {
			m.scatterHover = false
			m.d.PointerLeave(highlight.SourceScatter)
		}
		m.refresh()
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.setFocus(paneScatter)
		if !ok {
			m.d.ClearLock()
			return m.check(nil)
		}
		m.d.ToggleLock(mv.ReleaseYear)
		if m.d.RecordClicked(mv.Title) {
			m.refresh()
			return m.setStatus("Clicked "+mv.Title, false)
		}
		m.refresh()
	}
	return nil
}

func (m *Model) timelineMouse(msg tea.MouseMsg, col int) tea.Cmd {
	if m.scatterHover {
		m.scatterHover = false
		m.d.PointerLeave(highlight.SourceScatter)
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		m.tlHover = true
		m.d.TimelinePointer(float64(col))
		if msg.Button == tea.MouseButtonLeft && m.dragFrom != nil {
			return m.check(m.d.BrushPixels(float64(*m.dragFrom), float64(col)))
		}
		m.refresh()
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.setFocus(paneTimeline)
			c := col
			m.dragFrom = &c
		}
	case tea.MouseActionRelease:
		from := m.dragFrom
		m.dragFrom = nil
		if from == nil {
			return nil
		}
		if *from == col {
			// A click without a drag clears the brush.
			return m.check(m.d.BrushChanged(nil, nil))
		}
		return m.check(m.d.BrushPixels(float64(*from), float64(col)))
	}
	return nil
}

func (m Model) View() string {
	defer metrics.Timer(metrics.UIRender)()

	sideW, pw, ph := m.layout()
	if pw < minPlotWidth || ph < minPlotHeight {
		return ErrorStyle.Render(fmt.Sprintf("Terminal too small (%dx%d)", m.width, m.height))
	}
	if m.help.ShowAll {
		return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.help.View(m.keys))
	}
	th := &m.theme
	f := m.frame
	mainW := m.width - sideW

	scatter := panel(m.scatterTitle(), renderScatter(f, th), mainW, m.focus == paneScatter)
	tl := panel(m.timelineTitle(), renderTimeline(f, th, timelineRows, m.tlCursor, m.brushAnchor), mainW, m.focus == paneTimeline)
	left := lipgloss.JoinVertical(lipgloss.Left, scatter, tl)

	bodyH := m.height - 2
	inner := sideW - 2
	side := []string{
		panel("Stats", renderStats(f, th, inner), sideW, false),
		panel("Legend", renderLegend(f, th, inner, m.bandCursor, m.focus == paneLegend), sideW, m.focus == paneLegend),
	}
	rest := bodyH - statsHeight - legendHeight
	if f.Story.Active {
		side = append(side, panel("Tour", clipLines(renderStory(f.Story, th, m.captions, inner), rest-3), sideW, false))
	} else {
		genresH := max(rest-focusHeight-3, 2)
		side = append(side,
			panel("Genres", renderGenres(f, th, inner, genresH, m.genreCursor, m.focus == paneGenres), sideW, m.focus == paneGenres),
			panel("Focus", clipLines(renderFocus(f, th, inner, focusHeight-3), focusHeight-3), sideW, false),
		)
	}
	right := clipLines(lipgloss.JoinVertical(lipgloss.Left, side...), bodyH)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) scatterTitle() string {
	title := "Gross by release year"
	if m.frame.ResetVisible {
		title += fmt.Sprintf(" · zoom %.1fx (0 resets)", m.frame.Transform.K)
	}
	return title
}

func (m Model) timelineTitle() string {
	if r := m.frame.Filter.YearRange; r != nil {
		return fmt.Sprintf("Mean gross per year · %d to %d", r.Min, r.Max)
	}
	return "Mean gross per year"
}

func (m Model) header() string {
	f := m.frame
	left := m.theme.Header.Render("marquee")
	info := fmt.Sprintf(" %s · %s shown · %s",
		f.Filter.GenreLabel,
		plural(len(f.Points), "movie", "movies"),
		m.focus)
	if f.Story.Active {
		info += fmt.Sprintf(" · tour %d/%d", f.Story.Index+1, f.Story.Total)
	}
	return left + m.theme.Label.Render(truncate(info, m.width-lipgloss.Width(left)))
}

func (m Model) footer() string {
	if m.status != "" {
		st := StatusStyle
		if m.statusErr {
			st = ErrorStyle
		}
		return st.Render(truncate(m.status, m.width))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// clipLines keeps the first n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
