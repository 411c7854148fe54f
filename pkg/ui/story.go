package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/marquee/pkg/story"
)

type captionKey struct {
	index int
	width int
}

// captionRenderer renders step captions as markdown, caching the output per
// step and width.
type captionRenderer struct {
	width    int
	renderer *glamour.TermRenderer
	cache    map[captionKey]string
}

func newCaptionRenderer() *captionRenderer {
	return &captionRenderer{cache: make(map[captionKey]string)}
}

func (c *captionRenderer) render(index int, md string, width int) string {
	width = max(width, 10)
	key := captionKey{index: index, width: width}
	if out, ok := c.cache[key]; ok {
		return out
	}
	if c.renderer == nil || c.width != width {
		style := glamour.WithAutoStyle()
		if TermProfile < colorprofile.ANSI {
			style = glamour.WithStandardStyle("notty")
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			c.renderer = nil
		} else {
			c.renderer, c.width = r, width
		}
	}
	out := md
	if c.renderer != nil {
		if rendered, err := c.renderer.Render(md); err == nil {
			// Strip the blank margin glamour adds around the document.
			out = strings.Trim(rendered, "\n")
		}
	}
	c.cache[key] = out
	return out
}

// progressDots draws one dot per step: current, visited or unseen.
func progressDots(v story.View, th *Theme) string {
	var b strings.Builder
	for i, d := range v.Progress {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch {
		case d.Current:
			b.WriteString(th.FocusDot.Render("●"))
		case d.Visited:
			b.WriteString(th.Title.Render("●"))
		default:
			b.WriteString(th.MutedText.Render("○"))
		}
	}
	return b.String()
}

// renderStory draws the tour panel: step heading, caption, the numbered
// movies the step asks for and the navigation hints.
func renderStory(v story.View, th *Theme, captions *captionRenderer, width int) string {
	if !v.Active {
		return th.MutedText.Render(truncate("Press t for the guided tour", width))
	}
	head := fmt.Sprintf("%d/%d %s", v.Index+1, v.Total, v.Title)
	lines := []string{
		th.Title.Render(truncate(head, width)),
		progressDots(v, th),
		captions.render(v.Index, v.Caption, width),
	}

	for i, t := range v.Clickables {
		if i >= 9 {
			break
		}
		lines = append(lines, th.StoryNote.Render(truncate(fmt.Sprintf("%d) %s", i+1, t), width)))
	}

	var nav []string
	if v.PrevEnabled {
		nav = append(nav, "← prev")
	}
	switch {
	case !v.NextEnabled:
		nav = append(nav, "click a highlighted movie")
	case v.IsLast:
		nav = append(nav, "→ finish")
	default:
		nav = append(nav, "→ next")
	}
	nav = append(nav, "esc exit")
	lines = append(lines, th.MutedText.Render(truncate(strings.Join(nav, " · "), width)))
	return strings.Join(lines, "\n")
}
