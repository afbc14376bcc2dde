// Interactive export wizard for the --export flag without a path.
// It collects format, output path and title, then hands off to
// SaveSnapshot.
package render

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
	Format      string // "png" or "svg"
	OutputPath  string
	Title       string
	BothFormats bool
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunExportWizard prompts for export settings and returns them. The
// defaults come from the roadmap title so a bare Enter-Enter-Enter run
// produces something sensible.
func RunExportWizard(defaultTitle string) (*WizardConfig, error) {
	cfg := &WizardConfig{
		Format:     "png",
		OutputPath: "roadmap.png",
		Title:      defaultTitle,
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Snapshot format").
				Options(
					huh.NewOption("PNG (raster)", "png"),
					huh.NewOption("SVG (vector)", "svg"),
				).
				Value(&cfg.Format),
			huh.NewConfirm().
				Title("Write both formats?").
				Description("Writes sibling .png and .svg files").
				Value(&cfg.BothFormats),
			huh.NewInput().
				Title("Output path").
				Value(&cfg.OutputPath),
			huh.NewInput().
				Title("Title (rendered over the label column)").
				Value(&cfg.Title),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("export wizard: %w", err)
	}

	// Keep path extension and chosen format consistent.
	ext := strings.ToLower(filepath.Ext(cfg.OutputPath))
	if ext != "."+cfg.Format {
		cfg.OutputPath = strings.TrimSuffix(cfg.OutputPath, ext) + "." + cfg.Format
	}

	return cfg, nil
}

// Export runs a snapshot export using wizard answers.
func (c *WizardConfig) Export(opts SnapshotOptions) error {
	opts.Title = c.Title
	if c.BothFormats {
		base := strings.TrimSuffix(c.OutputPath, filepath.Ext(c.OutputPath))
		return SaveBoth(base+".png", base+".svg", opts)
	}
	opts.Path = c.OutputPath
	opts.Format = c.Format
	return SaveSnapshot(opts)
}
