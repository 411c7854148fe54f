package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardConfig holds the answers collected by the export wizard.
type WizardConfig struct {
	Path     string `json:"path"`
	Format   string `json:"format"`
	Preset   string `json:"preset"`
	Title    string `json:"title,omitempty"`
	Remember bool   `json:"remember"`
}

// Options converts the answers to SnapshotOptions.
func (c WizardConfig) Options() SnapshotOptions {
	return SnapshotOptions{Path: c.Path, Format: c.Format, Title: c.Title}
}

// Validate checks the answers without touching the filesystem.
func (c WizardConfig) Validate() error {
	if _, err := LookupPreset(c.Preset); err != nil {
		return err
	}
	if _, _, err := ResolveFormat(c.Path, c.Format); err != nil {
		return err
	}
	return nil
}

// Wizard walks the user through a snapshot export.
type Wizard struct {
	config WizardConfig
}

// NewWizard creates a wizard seeded with defaults, typically the
// export section of the user's config.
func NewWizard(preset, format string) *Wizard {
	if preset == "" {
		preset = "default"
	}
	if format == "" {
		format = FormatSVG
	}
	return &Wizard{config: WizardConfig{
		Path:   "marquee." + format,
		Format: format,
		Preset: preset,
	}}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks for format, preset, path and title.
func (w *Wizard) Run() (*WizardConfig, error) {
	fmt.Println("")
	fmt.Println("marquee snapshot export")
	fmt.Println("───────────────────────")

	presetOpts := make([]huh.Option[string], 0, len(Presets))
	for _, name := range PresetNames() {
		p := Presets[name]
		presetOpts = append(presetOpts, huh.NewOption(fmt.Sprintf("%s (%.0fx%.0f)", name, p.Width, p.Height), name))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("SVG (vector, keeps movie titles as tooltips)", FormatSVG),
					huh.NewOption("PNG (raster)", FormatPNG),
					huh.NewOption("JSON (the full frame)", FormatJSON),
				).
				Value(&w.config.Format),
			huh.NewSelect[string]().
				Title("Size preset").
				Options(presetOpts...).
				Value(&w.config.Preset),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	w.config.Path = withExt(w.config.Path, w.config.Format)
	form = newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file").
				Value(&w.config.Path).
				Validate(func(s string) error {
					_, _, err := ResolveFormat(s, w.config.Format)
					return err
				}),
			huh.NewInput().
				Title("Heading (optional)").
				Value(&w.config.Title).
				Placeholder("Do great movies make great money?"),
			huh.NewConfirm().
				Title("Remember format and preset?").
				Value(&w.config.Remember),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}

	if err := w.config.Validate(); err != nil {
		return nil, err
	}
	cfg := w.config
	return &cfg, nil
}

// GetConfig returns the current answers.
func (w *Wizard) GetConfig() WizardConfig {
	return w.config
}

// withExt swaps the extension of path to match format.
func withExt(path, format string) string {
	if path == "" {
		return "marquee." + format
	}
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".svg", ".png", ".json":
		return strings.TrimSuffix(path, ext) + "." + format
	}
	return path + "." + format
}
