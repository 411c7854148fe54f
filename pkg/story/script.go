package story

import (
	"github.com/vanderheijden86/marquee/pkg/filter"
	"github.com/vanderheijden86/marquee/pkg/model"
)

// Annotation is a label pinned to one movie while a step is shown.
type Annotation struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Preset is the filter a step applies. It replaces the current filter
// field by field: a nil YearRange clears the brush, nil Genres selects every
// genre and nil Bands shows both bands.
type Preset struct {
	YearRange   *filter.YearRange `json:"year_range,omitempty" yaml:"year_range,omitempty"`
	Genres      []string          `json:"genres,omitempty" yaml:"genres,omitempty"`
	RatingSplit float64           `json:"rating_split" yaml:"rating_split"`
	Bands       []model.Band      `json:"bands,omitempty" yaml:"bands,omitempty"`
}

// Step is one stage of the tour.
type Step struct {
	Title         string       `json:"title" yaml:"title"`
	// Caption is markdown.
	Caption       string       `json:"caption" yaml:"caption"`
	// Preset is ignored when Restore is set.
	Preset        Preset       `json:"preset" yaml:"preset"`
	Restore       bool         `json:"restore,omitempty" yaml:"restore,omitempty"`
	Annotations   []Annotation `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Clickables    []string     `json:"clickables,omitempty" yaml:"clickables,omitempty"`
	RequiresClick bool         `json:"requires_click,omitempty" yaml:"requires_click,omitempty"`
}

// IsClickable reports whether title is one of the step's click targets.
func (s Step) IsClickable(title string) bool {
	for _, c := range s.Clickables {
		if c == title {
			return true
		}
	}
	return false
}

// DefaultScript is the built-in tour: "Do great movies make great money?"
func DefaultScript() []Step {
	return []Step{
		{
			Title: "A Century of Cinema",
			Caption: "Over a hundred years the link between critical acclaim, audience love and box office " +
				"returns has kept shifting. This tour walks through how.\n\n**Press Next to begin.**",
			Preset: Preset{RatingSplit: 8.0},
		},
		{
			Title: "The Golden Age",
			Caption: "Between 1930 and 1975 many of the most celebrated films were also strong earners. " +
				"*The Godfather* is the classic case: a critics' favourite that also ruled the box office.\n\n" +
				"**Trend:** aligned",
			Preset: Preset{
				YearRange:   &filter.YearRange{Min: 1930, Max: 1975},
				RatingSplit: 8.0,
			},
			Annotations: []Annotation{{Title: "The Godfather", Text: "Classic", Icon: "👑"}},
		},
		{
			Title: "The Blockbuster is Born",
			Caption: "In the mid 1970s the blockbuster arrived. *Jaws* (1975) and *Star Wars* (1977) broke every " +
				"record and showed that Action and Sci-Fi could win over critics and crowds at once.\n\n" +
				"**Select the point for \"Star Wars\" to continue.**",
			Preset: Preset{
				YearRange:   &filter.YearRange{Min: 1975, Max: 1985},
				Genres:      []string{"Action", "Adventure", "Sci-Fi"},
				RatingSplit: 8.0,
			},
			Annotations: []Annotation{
				{Title: "Star Wars", Text: "Phenomenon", Icon: "⭐"},
				{Title: "Jaws", Text: "Blockbuster", Icon: "🦈"},
			},
			Clickables:    []string{"Star Wars"},
			RequiresClick: true,
		},
		{
			Title: "The Great Divergence",
			Caption: "From 1990 onward two patterns pull apart.\n\n" +
				"- **Critic-proof hits** earn enormous sums with mixed reviews (*Star Wars: Episode VII*).\n" +
				"- **Acclaimed gems** top the ratings with modest takings (*The Shawshank Redemption*).\n\n" +
				"**Select either film to continue.**",
			Preset: Preset{
				YearRange:   &filter.YearRange{Min: 1990, Max: 2019},
				RatingSplit: 8.5,
			},
			Annotations: []Annotation{
				{Title: "The Shawshank Redemption", Text: "Acclaimed Gem", Icon: "💎"},
				{Title: "Star Wars: Episode VII - The Force Awakens", Text: "Blockbuster", Icon: "💰"},
			},
			Clickables:    []string{"The Shawshank Redemption", "Star Wars: Episode VII - The Force Awakens"},
			RequiresClick: true,
		},
		{
			Title: "Your Turn to Explore",
			Caption: "That is the story so far. Your original view is back: use the timeline, the genre filter " +
				"and the rating split to look for patterns of your own.\n\n*Happy exploring!*",
			Restore: true,
		},
	}
}
