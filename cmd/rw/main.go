package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/config"
	"github.com/vanderheijden86/roadwork/pkg/debug"
	"github.com/vanderheijden86/roadwork/pkg/layout"
	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/render"
	"github.com/vanderheijden86/roadwork/pkg/store"
	"github.com/vanderheijden86/roadwork/pkg/timeline"
	"github.com/vanderheijden86/roadwork/pkg/ui"
	"github.com/vanderheijden86/roadwork/pkg/version"
	"github.com/vanderheijden86/roadwork/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	exportPath := flag.String("export", "", "Render a snapshot to the given path and exit (format from extension)")
	exportFormat := flag.String("format", "", "Snapshot format: png or svg (overrides extension)")
	wizardFlag := flag.Bool("wizard", false, "Run the interactive export wizard and exit")
	title := flag.String("title", "", "Roadmap title shown over the label column")
	zoom := flag.Float64("zoom", 0, "Initial zoom factor (0.25-16)")
	csvOut := flag.String("export-csv", "", "Write the roadmap as CSV to the given path and exit")
	csvIn := flag.String("import-csv", "", "Import a CSV roadmap into the given destination and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: rw [options] [roadmap file]")
		fmt.Println("\nAn interactive Gantt-style roadmap viewer.")
		fmt.Println("Roadmap files may be .yaml, .csv, or .db (sqlite).")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("rw %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *zoom > 0 {
		cfg.View.ZoomLevel = *zoom
	}
	if *title != "" {
		cfg.Export.Title = *title
	}

	roadmapPath := cfg.Roadmap
	if flag.NArg() > 0 {
		roadmapPath = flag.Arg(0)
	}
	if roadmapPath == "" {
		roadmapPath = "roadmap.yaml"
	}

	if *csvIn != "" {
		if err := importCSV(*csvIn, roadmapPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error importing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %s into %s\n", *csvIn, roadmapPath)
		os.Exit(0)
	}

	snap, err := loadSnapshot(roadmapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", roadmapPath, err)
		os.Exit(1)
	}

	if *csvOut != "" {
		if err := exportCSV(*csvOut, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *csvOut)
		os.Exit(0)
	}

	if *exportPath != "" || *wizardFlag {
		if err := runExport(snap, cfg, *exportPath, *exportFormat, *wizardFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !ui.IsInteractive() {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use --export for headless rendering")
		os.Exit(1)
	}

	repo := store.NewRepository(snap)

	// Live reload for file-backed roadmaps. The sqlite store has no
	// single file worth watching for row-level edits, so it reloads
	// only on restart.
	var fileWatcher *watcher.Watcher
	if watchable(roadmapPath) {
		w, err := watcher.New(roadmapPath)
		if err != nil {
			debug.Log("main: watcher setup failed: %v", err)
		} else if err := w.Start(); err != nil {
			debug.Log("main: watcher start failed: %v", err)
		} else {
			fileWatcher = w
			defer w.Stop()
		}
	}

	m := ui.New(ui.ModelConfig{
		Repo:    repo,
		Reload:  func() (model.Snapshot, error) { return loadSnapshot(roadmapPath) },
		Watcher: fileWatcher,
		Config:  cfg,
		Title:   cfg.Export.Title,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running roadmap viewer: %v\n", err)
		os.Exit(1)
	}
}

// loadSnapshot reads a roadmap from yaml, csv, or sqlite, keyed on the
// file extension.
func loadSnapshot(path string) (model.Snapshot, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return store.LoadYAML(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return model.Snapshot{}, err
		}
		defer f.Close()
		return store.ImportCSV(f)
	case ".db", ".sqlite", ".sqlite3":
		bs, err := store.OpenBlobStore(path)
		if err != nil {
			return model.Snapshot{}, err
		}
		defer bs.Close()
		snap, _, err := bs.Load(store.DefaultBlobKey)
		return snap, err
	default:
		return model.Snapshot{}, fmt.Errorf("unsupported roadmap format %q (want .yaml, .csv, or .db)", filepath.Ext(path))
	}
}

func watchable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".csv":
		return true
	}
	return false
}

func importCSV(csvPath, destPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	snap, err := store.ImportCSV(f)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(destPath)) {
	case ".yaml", ".yml":
		return store.SaveYAML(destPath, snap)
	case ".db", ".sqlite", ".sqlite3":
		bs, err := store.OpenBlobStore(destPath)
		if err != nil {
			return err
		}
		defer bs.Close()
		_, err = bs.Save(store.DefaultBlobKey, snap)
		return err
	default:
		return fmt.Errorf("unsupported destination %q (want .yaml or .db)", destPath)
	}
}

func exportCSV(path string, snap model.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.ExportCSV(f, snap)
}

// runExport renders a headless snapshot at full pixel density. With
// wizard mode the output settings come from an interactive form.
func runExport(snap model.Snapshot, cfg config.Config, path, format string, wizard bool) error {
	items := layout.Collect(snap.Themes, nil)
	rows := layout.AssignRows(items)
	sc := timeline.Compute(items, cfg.View.ZoomLevel, nil)

	opts := render.SnapshotOptions{
		Items: items,
		Rows:  rows,
		Scale: sc,
		Title: cfg.Export.Title,
	}

	if wizard {
		wc, err := render.RunExportWizard(cfg.Export.Title)
		if err != nil {
			return err
		}
		return wc.Export(opts)
	}

	opts.Path = path
	opts.Format = format
	if opts.Format == "" {
		opts.Format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	if err := render.SaveSnapshot(opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		// All-motion tracking: hover needs motion events while no button
		// is down, which cell-motion mode never delivers.
		tea.WithMouseAllMotion(),
		tea.WithoutSignalHandler(),
	)

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

	// Optional auto-quit for automated tests: set RW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("RW_TUI_AUTOCLOSE_MS"); v != "" {
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
			}()
		}
	}

	_, err := p.Run()
	return err
}
