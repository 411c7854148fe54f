package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/marquee/pkg/story"
)

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextPane  key.Binding
	PrevPane  key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Home      key.Binding
	End       key.Binding
	Select    key.Binding
	Escape    key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding
	Pan       key.Binding
	AllGenres key.Binding
	NoGenres  key.Binding
	SplitUp   key.Binding
	SplitDown key.Binding
	ResetPane key.Binding
	ResetAll  key.Binding
	Recover   key.Binding
	Story     key.Binding
	Copy      key.Binding
	ClickPick key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		PrevPane:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),
		Pan:       key.NewBinding(key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right"), key.WithHelp("shift+←↑↓→", "pan")),
		AllGenres: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all genres")),
		NoGenres:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no genres")),
		SplitUp:   key.NewBinding(key.WithKeys("]", "."), key.WithHelp("]", "split +0.1")),
		SplitDown: key.NewBinding(key.WithKeys("[", ","), key.WithHelp("[", "split -0.1")),
		ResetPane: key.NewBinding(key.WithKeys("x", "backspace"), key.WithHelp("x", "reset pane")),
		ResetAll:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset filters")),
		Recover:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "fix empty view")),
		Story:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "story tour")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy movie")),
		ClickPick: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "click highlighted movie")),
	}
}

// applyControls disables the bindings of controls the tour has locked, so
// help only lists what works.
func (k *keyMap) applyControls(c story.Controls, storyActive bool) {
	k.AllGenres.SetEnabled(c.Genres)
	k.NoGenres.SetEnabled(c.Genres)
	k.SplitUp.SetEnabled(c.Slider)
	k.SplitDown.SetEnabled(c.Slider)
	k.ResetPane.SetEnabled(c.Brush || c.Legend || c.Genres)
	k.ResetAll.SetEnabled(c.Reset)
	k.Recover.SetEnabled(c.Reset)
	k.ZoomIn.SetEnabled(c.Zoom)
	k.ZoomOut.SetEnabled(c.Zoom)
	k.ZoomReset.SetEnabled(c.Zoom)
	k.Pan.SetEnabled(c.Zoom)
	k.Story.SetEnabled(!storyActive)
	k.ClickPick.SetEnabled(storyActive)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Select, k.Story, k.ClickPick, k.ResetAll, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Up, k.Down, k.Left, k.Right, k.Home, k.End},
		{k.Select, k.Escape, k.ZoomIn, k.ZoomOut, k.ZoomReset, k.Pan},
		{k.AllGenres, k.NoGenres, k.SplitUp, k.SplitDown, k.ResetPane, k.ResetAll, k.Recover},
		{k.Story, k.ClickPick, k.Copy, k.Help, k.Quit},
	}
}
