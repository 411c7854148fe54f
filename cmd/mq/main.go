package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/marquee/internal/datasource"
	"github.com/vanderheijden86/marquee/pkg/config"
	"github.com/vanderheijden86/marquee/pkg/dashboard"
	"github.com/vanderheijden86/marquee/pkg/debug"
	"github.com/vanderheijden86/marquee/pkg/export"
	"github.com/vanderheijden86/marquee/pkg/loader"
	"github.com/vanderheijden86/marquee/pkg/model"
	"github.com/vanderheijden86/marquee/pkg/ui"
	"github.com/vanderheijden86/marquee/pkg/version"
	"github.com/vanderheijden86/marquee/pkg/watcher"
)

func main() {
	dataFlag := flag.String("data", "", "Dataset path or registered name (comma-separate to merge several)")
	exportPath := flag.String("export", "", "Write a snapshot of the initial view to PATH and exit")
	formatFlag := flag.String("format", "", "Snapshot format: svg, png, json or db (default from extension)")
	wizardFlag := flag.Bool("export-wizard", false, "Choose snapshot options interactively and export")
	robotFlag := flag.Bool("robot-frame", false, "Print the initial frame as JSON and exit")
	genresFlag := flag.String("genres", "", "Comma-separated genres to select (default all)")
	yearsFlag := flag.String("years", "", "Year range to brush, e.g. 1970-1989")
	splitFlag := flag.Float64("split", 0, "Rating split between the two bands")
	storyStep := flag.Int("story-step", 0, "Start the guided tour at step N (1-based)")
	watchFlag := flag.Bool("watch", false, "Reload the dataset when the file changes (TUI only)")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: mq [options]")
		fmt.Println("\nAn interactive terminal dashboard for movie box office data.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("mq %s\n", version.Version)
		os.Exit(0)
	}

	// Robot output must stay clean JSON.
	if *robotFlag {
		os.Setenv("MQ_ROBOT", "1")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	start := startState{Genres: parseGenres(*genresFlag), StoryStep: *storyStep}
	if start.Years, err = parseYears(*yearsFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "split" {
			start.Split = splitFlag
		}
	})

	ctx := context.Background()
	dataPath := cfg.ResolveDataPath(*dataFlag)
	paths := []string{dataPath}
	if names := splitPaths(*dataFlag); len(names) > 1 {
		paths = paths[:0]
		for _, n := range names {
			paths = append(paths, cfg.ResolveDataPath(n))
		}
	}

	loadStart := time.Now()
	ds, reports, err := datasource.LoadAll(ctx, paths, loader.ParseOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	debug.LogTiming("load", time.Since(loadStart))
	for i, rep := range reports {
		debug.Log("%s: %d lines, %d loaded, %d rejected, %d duplicates",
			paths[i], rep.Lines, rep.Loaded, len(rep.Rejected), len(rep.Duplicates))
	}

	d := dashboard.New(ds, dashboardOptions(cfg)...)
	if err := start.apply(d); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Without a terminal there is nothing to draw on; print the frame instead.
	if *robotFlag || (!*wizardFlag && *exportPath == "" && !term.IsTerminal(int(os.Stdout.Fd()))) {
		if err := writeRobotFrame(os.Stdout, dataPath, d.Frame()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding frame: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *wizardFlag {
		if err := runExportWizard(d, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *exportPath != "" {
		opts := export.SnapshotOptions{Path: *exportPath, Format: *formatFlag}
		if err := exportSnapshot(d, cfg.Export.Preset, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := runTUIProgram(ctx, d, dataPath, *watchFlag && len(paths) == 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

// exportSnapshot renders the current view at the preset size and writes it.
func exportSnapshot(d *dashboard.Dashboard, presetName string, opts export.SnapshotOptions) error {
	preset, err := export.LookupPreset(presetName)
	if err != nil {
		return err
	}
	d.Resize(preset.Width, preset.Height)
	path, err := export.SaveSnapshot(d.Frame(), opts)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runExportWizard(d *dashboard.Dashboard, cfg config.Config) error {
	answers, err := export.NewWizard(cfg.Export.Preset, cfg.Export.Format).Run()
	if err != nil {
		return err
	}
	if err := exportSnapshot(d, answers.Preset, answers.Options()); err != nil {
		return err
	}
	if answers.Remember {
		cfg.Export.Preset = answers.Preset
		cfg.Export.Format = answers.Format
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving export defaults: %w", err)
		}
		fmt.Printf("Saved export defaults to %s\n", config.ConfigPath())
	}
	return nil
}

func runTUIProgram(ctx context.Context, d *dashboard.Dashboard, dataPath string, watch bool) error {
	m := ui.NewModel(d)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

	unsubscribe := m.Subscribe(p.Send)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch {
		load := func(ctx context.Context, path string) (*model.Dataset, error) {
			ds, _, err := datasource.Load(ctx, path, loader.ParseOptions{WarningHandler: func(string) {}})
			return ds, err
		}
		apply := func(ds *model.Dataset) {
			summary := datasource.Diff(d.Dataset(), ds).Summary()
			d.ReplaceDataset(ds)
			p.Send(ui.ReloadMsg{Summary: summary})
		}
		onError := func(err error) {
			p.Send(ui.ReloadMsg{Err: err})
		}
		r, err := watcher.WatchDataset(ctx, dataPath, load, apply, onError)
		if err != nil {
			debug.Log("watch %s: %v", dataPath, err)
		} else {
			defer r.Stop()
		}
	}

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set MQ_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("MQ_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
