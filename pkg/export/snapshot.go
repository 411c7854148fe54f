// Package export writes static snapshots of a dashboard frame.
//
// A snapshot is the same Frame the terminal UI draws from, laid out once
// into a scene and rendered as SVG (svgo), PNG (gg) or indented JSON. The
// displayed movies alone can also be written to a SQLite database.
package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	json "github.com/goccy/go-json"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/marquee/internal/datasource"
	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/metrics"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/scale"
)

// Supported formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDB   = "db"
)

// Preset sizes the plot area of a snapshot. The dashboard should be resized
// to the preset before the frame is taken so axes match the canvas.
type Preset struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Presets are the named snapshot sizes.
var Presets = map[string]Preset{
	"default": {Name: "default", Width: 900, Height: 520},
	"wide":    {Name: "wide", Width: 1400, Height: 560},
	"print":   {Name: "print", Width: 1100, Height: 850},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupPreset finds a preset by name; "" means default.
func LookupPreset(name string) (Preset, error) {
	if name == "" {
		name = "default"
	}
	p, ok := Presets[strings.ToLower(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// SnapshotOptions controls snapshot export.
type SnapshotOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg", "png", "json" or "db" (case-insensitive)
	Title  string // Optional heading
}

// ResolveFormat settles the output format and path. An empty format is taken
// from the extension; a path without one gets ".svg".
func ResolveFormat(path, format string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".svg", ".png", ".json", ".db":
			format = ext[1:]
		case ".sqlite", ".sqlite3":
			format = FormatDB
		default:
			format = FormatSVG
			if path != "" && ext == "" {
				path += ".svg"
			}
		}
	}
	switch format {
	case FormatSVG, FormatPNG, FormatJSON, FormatDB:
	case "sqlite":
		format = FormatDB
	default:
		return "", "", fmt.Errorf("unsupported format %q (want svg, png, json or db)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// SaveSnapshot renders f to opts.Path. It returns the path written, which
// may have gained an extension.
func SaveSnapshot(f dashboard.Frame, opts SnapshotOptions) (string, error) {
	defer metrics.Timer(metrics.SnapshotRender)()

	format, path, err := ResolveFormat(opts.Path, opts.Format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}

	switch format {
	case FormatPNG:
		sc, err := buildScene(f, opts.Title)
		if err != nil {
			return "", err
		}
		return path, renderPNG(path, sc)
	case FormatDB:
		movies := make([]model.Movie, 0, len(f.Points))
		for _, p := range f.Points {
			movies = append(movies, *p.Movie)
		}
		return path, datasource.WriteSQLite(context.Background(), path, movies)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if format == FormatJSON {
		err = WriteFrameJSON(file, f)
	} else {
		err = WriteSVG(file, f, opts.Title)
	}
	if err != nil {
		return "", err
	}
	return path, file.Close()
}

// WriteFrameJSON writes f as indented JSON.
func WriteFrameJSON(w io.Writer, f dashboard.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// WriteSVG renders f as an SVG document.
func WriteSVG(w io.Writer, f dashboard.Frame, title string) error {
	sc, err := buildScene(f, title)
	if err != nil {
		return err
	}
	renderSVG(w, sc)
	return nil
}

// --- scene -----------------------------------------------------------------

const (
	marginLeft   = 90.0
	marginTop    = 110.0
	marginRight  = 220.0
	marginBottom = 50.0
)

var (
	colorHigh     = color.RGBA{0xe0, 0xa1, 0x1b, 0xff}
	colorLow      = color.RGBA{0x4c, 0x78, 0xa8, 0xff}
	colorFocus    = color.RGBA{0xd6, 0x33, 0x84, 0xff}
	colorAxis     = color.RGBA{0x44, 0x44, 0x44, 0xff}
	colorGrid     = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xfd, 0xfd, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorNote     = color.RGBA{0xff, 0xf7, 0xd6, 0xff}
)

func bandColor(b model.Band) color.RGBA {
	if b == model.BandHigh {
		return colorHigh
	}
	return colorLow
}

type dot struct {
	X, Y  float64
	R     float64
	Fill  color.RGBA
	Focus bool
	Title string
}

type tick struct {
	Pos   float64
	Label string
}

type note struct {
	X, Y float64
	Text string
	Icon string
}

type legendRow struct {
	Fill  color.RGBA
	Label string
}

type scene struct {
	Width, Height int
	// Plot area origin and size, in canvas pixels.
	PX, PY, PW, PH float64

	Title   string
	Summary []string
	Empty   string

	Dots   []dot
	XTicks []tick
	YTicks []tick
	Break  [][2]float64
	Notes  []note
	Legend []legendRow
}

func buildScene(f dashboard.Frame, title string) (scene, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return scene{}, fmt.Errorf("frame has no size (%vx%v)", f.Width, f.Height)
	}
	if title == "" {
		title = "Do great movies make great money?"
	}
	sc := scene{
		Width:  int(marginLeft + f.Width + marginRight),
		Height: int(marginTop + f.Height + marginBottom),
		PX:     marginLeft,
		PY:     marginTop,
		PW:     f.Width,
		PH:     f.Height,
		Title:  title,
	}

	inPlot := func(x, y float64) bool {
		return x >= 0 && x <= f.Width && y >= 0 && y <= f.Height
	}

	for _, p := range f.Points {
		x := f.XAxis.Scale.Map(float64(p.Movie.ReleaseYear))
		y := f.YAxis.Scale.Map(p.Movie.Gross)
		if !inPlot(x, y) {
			continue
		}
		d := dot{X: sc.PX + x, Y: sc.PY + y, R: 4, Fill: bandColor(p.Band), Title: p.Movie.Title}
		if f.IsHighlighted(p.Movie.Title) || p.Movie.Title == f.Highlight.ActiveTitle {
			d.R, d.Focus = 6, true
		}
		sc.Dots = append(sc.Dots, d)
	}

	for _, t := range f.XAxis.Ticks {
		if x := f.XAxis.Scale.Map(t); x >= 0 && x <= f.Width {
			sc.XTicks = append(sc.XTicks, tick{Pos: sc.PX + x, Label: fmt.Sprintf("%d", int(t))})
		}
	}
	for _, t := range f.YAxis.Ticks {
		if y := f.YAxis.Scale.Map(t); y >= 0 && y <= f.Height {
			sc.YTicks = append(sc.YTicks, tick{Pos: sc.PY + y, Label: scale.FormatGross(t)})
		}
	}
	if f.ScaleBreak {
		for _, pt := range scale.BreakMarker(f.BreakY) {
			sc.Break = append(sc.Break, [2]float64{sc.PX + pt[0], sc.PY + pt[1]})
		}
	}

	for _, a := range f.Annotations {
		sc.Notes = append(sc.Notes, note{X: sc.PX + a.X, Y: sc.PY + a.Y, Text: a.Text + ": " + a.Title, Icon: a.Icon})
	}

	for _, b := range f.Filter.Bands {
		label := fmt.Sprintf("rating >= %.1f (%d)", f.Filter.RatingSplit, f.BandCounts[b])
		if b == model.BandLow {
			label = fmt.Sprintf("rating < %.1f (%d)", f.Filter.RatingSplit, f.BandCounts[b])
		}
		sc.Legend = append(sc.Legend, legendRow{Fill: bandColor(b), Label: label})
	}

	sc.Summary = append(sc.Summary, "genres: "+f.Filter.GenreLabel+yearLabel(f))
	if f.Stats.Empty {
		sc.Empty = emptyMessage(f)
	} else {
		s := f.Stats
		sc.Summary = append(sc.Summary,
			fmt.Sprintf("movies: %d  mean gross: %s  median: %s  years: %d-%d",
				s.Count, scale.FormatGross(s.MeanGross), scale.FormatGross(s.MedianGross), s.YearSpan.From, s.YearSpan.To),
			fmt.Sprintf("rating vs gross: r=%.2f (%s)", s.RatingGrossCorrelation, s.CorrelationLabel),
		)
	}
	if f.Story.Active {
		sc.Summary = append(sc.Summary, fmt.Sprintf("tour step %d/%d: %s", f.Story.Index+1, f.Story.Total, f.Story.Title))
	}
	return sc, nil
}

func yearLabel(f dashboard.Frame) string {
	if r := f.Filter.YearRange; r != nil {
		return fmt.Sprintf("  years: %d-%d", r.Min, r.Max)
	}
	return ""
}

func emptyMessage(f dashboard.Frame) string {
	switch f.Recovery {
	case "":
		return "No movies in the dataset"
	default:
		return fmt.Sprintf("No movies match (%s); try %s", f.Empty, f.Recovery)
	}
}

// --- SVG -------------------------------------------------------------------

func renderSVG(w io.Writer, sc scene) {
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Rect(0, 0, sc.Width, sc.Height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(16, 16, sc.Width-32, int(marginTop)-40, 10, 10, "fill:"+css(colorHeaderBG))

	canvas.Text(32, 44, sc.Title, fmt.Sprintf("fill:%s;font-size:18px;font-family:sans-serif;font-weight:bold", css(colorText)))
	for i, line := range sc.Summary {
		canvas.Text(32, 64+i*16, line, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	px, py, pw, ph := int(sc.PX), int(sc.PY), int(sc.PW), int(sc.PH)
	canvas.Group("id=\"axes\"")
	for _, t := range sc.YTicks {
		y := int(t.Pos)
		canvas.Line(px, y, px+pw, y, "stroke:"+css(colorGrid))
		canvas.Text(px-8, y+4, t.Label, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:end", css(colorSubtle)))
	}
	for _, t := range sc.XTicks {
		x := int(t.Pos)
		canvas.Line(x, py+ph, x, py+ph+5, "stroke:"+css(colorAxis))
		canvas.Text(x, py+ph+18, t.Label, fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
	}
	canvas.Line(px, py+ph, px+pw, py+ph, "stroke:"+css(colorAxis))
	canvas.Line(px, py, px, py+ph, "stroke:"+css(colorAxis))
	if len(sc.Break) > 0 {
		xs, ys := polyline(sc.Break)
		canvas.Polyline(xs, ys, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", css(colorAxis)))
	}
	canvas.Gend()

	canvas.Group("id=\"points\"")
	for _, d := range sc.Dots {
		style := fmt.Sprintf("fill:%s;fill-opacity:0.75", css(d.Fill))
		if d.Focus {
			style = fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", css(d.Fill), css(colorFocus))
		}
		canvas.Group()
		canvas.Title(d.Title)
		canvas.Circle(int(d.X), int(d.Y), int(d.R), style)
		canvas.Gend()
	}
	canvas.Gend()

	for _, n := range sc.Notes {
		x, y := int(n.X), int(n.Y)
		text := n.Text
		if n.Icon != "" {
			text = n.Icon + " " + text
		}
		canvas.Line(x, y, x+12, y-18, "stroke:"+css(colorAxis))
		canvas.Text(x+14, y-20, text, fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", css(colorText)))
	}

	lx := px + pw + 24
	canvas.Text(lx, py+4, "Legend", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, row := range sc.Legend {
		y := py + 24 + i*20
		canvas.Circle(lx+6, y-4, 6, "fill:"+css(row.Fill))
		canvas.Text(lx+18, y, row.Label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}

	if sc.Empty != "" {
		cx, cy := px+pw/2, py+ph/2
		canvas.Roundrect(cx-220, cy-24, 440, 48, 8, 8, "fill:"+css(colorNote))
		canvas.Text(cx, cy+5, sc.Empty, fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;text-anchor:middle", css(colorText)))
	}

	canvas.End()
}

func polyline(pts [][2]float64) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = int(p[0]), int(p[1])
	}
	return xs, ys
}

// --- PNG -------------------------------------------------------------------

func renderPNG(path string, sc scene) error {
	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(sc.Width)-32, marginTop-40, 10)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawStringAnchored(sc.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	for i, line := range sc.Summary {
		dc.DrawStringAnchored(line, 32, 60+float64(i)*16, 0, 0.5)
	}

	dc.SetLineWidth(1)
	for _, t := range sc.YTicks {
		dc.SetColor(colorGrid)
		dc.DrawLine(sc.PX, t.Pos, sc.PX+sc.PW, t.Pos)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(t.Label, sc.PX-8, t.Pos, 1, 0.5)
	}
	for _, t := range sc.XTicks {
		dc.SetColor(colorAxis)
		dc.DrawLine(t.Pos, sc.PY+sc.PH, t.Pos, sc.PY+sc.PH+5)
		dc.Stroke()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(t.Label, t.Pos, sc.PY+sc.PH+16, 0.5, 0.5)
	}
	dc.SetColor(colorAxis)
	dc.DrawLine(sc.PX, sc.PY+sc.PH, sc.PX+sc.PW, sc.PY+sc.PH)
	dc.DrawLine(sc.PX, sc.PY, sc.PX, sc.PY+sc.PH)
	dc.Stroke()
	if len(sc.Break) > 0 {
		dc.SetLineWidth(2)
		dc.MoveTo(sc.Break[0][0], sc.Break[0][1])
		for _, p := range sc.Break[1:] {
			dc.LineTo(p[0], p[1])
		}
		dc.Stroke()
		dc.SetLineWidth(1)
	}

	for _, d := range sc.Dots {
		dc.DrawCircle(d.X, d.Y, d.R)
		dc.SetColor(d.Fill)
		if d.Focus {
			dc.FillPreserve()
			dc.SetColor(colorFocus)
			dc.SetLineWidth(2)
			dc.Stroke()
			dc.SetLineWidth(1)
			continue
		}
		dc.Fill()
	}

	dc.SetColor(colorText)
	for _, n := range sc.Notes {
		dc.DrawLine(n.X, n.Y, n.X+12, n.Y-18)
		dc.Stroke()
		dc.DrawStringAnchored(n.Text, n.X+14, n.Y-20, 0, 0.5)
	}

	lx := sc.PX + sc.PW + 24
	dc.DrawStringAnchored("Legend", lx, sc.PY, 0, 0.5)
	for i, row := range sc.Legend {
		y := sc.PY + 20 + float64(i)*20
		dc.SetColor(row.Fill)
		dc.DrawCircle(lx+6, y, 6)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(row.Label, lx+18, y, 0, 0.5)
	}

	if sc.Empty != "" {
		cx, cy := sc.PX+sc.PW/2, sc.PY+sc.PH/2
		dc.SetColor(colorNote)
		dc.DrawRoundedRectangle(cx-220, cy-24, 440, 48, 8)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(sc.Empty, cx, cy, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
