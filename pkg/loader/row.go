package loader

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/marquee/pkg/model"
)

// number accepts a JSON number or a string such as "1,234,567" or
// "142 min". An empty string or null leaves it unset. NaN and infinities are
// rejected.
type number struct {
	v   float64
	set bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = number{}
		return nil
	}
	if b[0] != '"' {
		v, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		return n.setFinite(v, string(b))
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "min"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		*n = number{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	return n.setFinite(v, s)
}

func (n *number) setFinite(v float64, src string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a finite number: %q", src)
	}
	*n = number{v: v, set: true}
	return nil
}

// genreList accepts ["Drama","Crime"] or "Drama, Crime".
type genreList []string

func (g *genreList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*g = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = model.SplitGenres(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*g = model.SplitGenres(strings.Join(list, ","))
	return nil
}

// row is one JSONL line before validation. Keys match case-insensitively,
// so both title and Series_Title style exports decode.
type row struct {
	Title       string    `json:"title"`
	SeriesTitle string    `json:"series_title"`
	Year        number    `json:"release_year"`
	Released    number    `json:"released_year"`
	Gross       number    `json:"gross"`
	Rating      number    `json:"imdb_rating"`
	Genres      genreList `json:"genres"`
	Genre       genreList `json:"genre"`
	Runtime     number    `json:"runtime"`
	Votes       number    `json:"votes"`
	NoOfVotes   number    `json:"no_of_votes"`
	MetaScore   number    `json:"meta_score"`
	Director    string    `json:"director"`
	PosterURL   string    `json:"poster_url"`
	PosterLink  string    `json:"poster_link"`
	Overview    string    `json:"overview"`
}

func (r row) movie() model.Movie {
	m := model.Movie{
		Title:     strings.TrimSpace(firstString(r.Title, r.SeriesTitle)),
		Gross:     r.Gross.v,
		Rating:    r.Rating.v,
		Genres:    r.Genres,
		Runtime:   int(r.Runtime.v),
		Director:  strings.TrimSpace(r.Director),
		PosterURL: firstString(r.PosterURL, r.PosterLink),
		Overview:  r.Overview,
	}
	if len(m.Genres) == 0 {
		m.Genres = r.Genre
	}
	m.ReleaseYear = int(r.year().v)
	votes := r.Votes
	if !votes.set {
		votes = r.NoOfVotes
	}
	m.Votes = int(votes.v)
	if r.MetaScore.set {
		ms := r.MetaScore.v
		m.MetaScore = &ms
	}
	// A missing rating must not pass as 0.
	if !r.Rating.set {
		m.Rating = -1
	}
	return m
}

func (r row) year() number {
	if r.Year.set {
		return r.Year
	}
	return r.Released
}

// check reports what movie would silently truncate.
func (r row) check() []FieldError {
	if y := r.year(); y.set && y.v != math.Trunc(y.v) {
		return []FieldError{{Field: "release_year", Message: "must be a whole year"}}
	}
	return nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
