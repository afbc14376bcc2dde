// Package testutil provides deterministic roadmap fixture generators
// and shared assertions for layout and persistence tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// GeneratorConfig controls roadmap generation.
type GeneratorConfig struct {
	Seed               int64     // Random seed for determinism (0 = use current time)
	IDPrefix           string    // Prefix for item ids (default: "test")
	BaseDate           time.Time // First theme start date (default: 2026-01-01)
	Themes             int       // Theme count (default 2)
	ProductsPerTheme   int       // Products per theme (default 2)
	FeaturesPerProduct int       // Features per product (default 3)
	UndatedThemes      bool      // Leave every second theme undated
	WithProgress       bool      // Attach progress to every second feature
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:               42,
		IDPrefix:           "test",
		BaseDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Themes:             2,
		ProductsPerTheme:   2,
		FeaturesPerProduct: 3,
	}
}

// Generator creates roadmap fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if cfg.Themes == 0 {
		cfg.Themes = 2
	}
	if cfg.ProductsPerTheme == 0 {
		cfg.ProductsPerTheme = 2
	}
	if cfg.FeaturesPerProduct == 0 {
		cfg.FeaturesPerProduct = 3
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Snapshot generates a full roadmap. Themes are laid out back to back
// quarter by quarter; features within a product overlap at random so
// row packing has real work to do.
func (g *Generator) Snapshot() model.Snapshot {
	var themes []model.Theme
	for t := 0; t < g.cfg.Themes; t++ {
		start := g.cfg.BaseDate.AddDate(0, 3*t, 0)
		end := start.AddDate(0, 3, -1)
		theme := model.Theme{
			ID:   fmt.Sprintf("%s-t%d", g.cfg.IDPrefix, t),
			Name: fmt.Sprintf("Theme %d", t),
		}
		if !g.cfg.UndatedThemes || t%2 == 0 {
			s, e := start, end
			theme.StartDate = &s
			theme.EndDate = &e
		}

		for p := 0; p < g.cfg.ProductsPerTheme; p++ {
			pStart := start.AddDate(0, 0, 7*p)
			pEnd := pStart.AddDate(0, 2, 0)
			prod := model.Product{
				ID:        fmt.Sprintf("%s-t%d-p%d", g.cfg.IDPrefix, t, p),
				Name:      fmt.Sprintf("Product %d.%d", t, p),
				ParentID:  theme.ID,
				StartDate: pStart,
				EndDate:   pEnd,
			}

			for f := 0; f < g.cfg.FeaturesPerProduct; f++ {
				fStart := pStart.AddDate(0, 0, g.rng.Intn(30))
				fEnd := fStart.AddDate(0, 0, 5+g.rng.Intn(20))
				feat := model.Feature{
					ID:        fmt.Sprintf("%s-t%d-p%d-f%d", g.cfg.IDPrefix, t, p, f),
					Name:      fmt.Sprintf("Feature %d.%d.%d", t, p, f),
					ParentID:  prod.ID,
					StartDate: fStart,
					EndDate:   fEnd,
				}
				if g.cfg.WithProgress && f%2 == 0 {
					feat.Progress = &model.Progress{
						Status:          model.ProgressInProgress,
						PercentComplete: g.rng.Intn(101),
					}
				}
				prod.Features = append(prod.Features, feat)
			}
			theme.Products = append(theme.Products, prod)
		}
		themes = append(themes, theme)
	}
	return model.Snapshot{Themes: themes}
}

// FlatFeatures generates n features spread over a year under a single
// theme and product, one per week column group. Used by culling tests
// that need a tall roadmap.
func (g *Generator) FlatFeatures(n int) model.Snapshot {
	start := g.cfg.BaseDate
	end := start.AddDate(1, 0, 0)
	theme := model.Theme{
		ID:        g.cfg.IDPrefix + "-theme",
		Name:      "Theme",
		StartDate: &start,
		EndDate:   &end,
	}
	prod := model.Product{
		ID:        g.cfg.IDPrefix + "-prod",
		Name:      "Product",
		ParentID:  theme.ID,
		StartDate: start,
		EndDate:   end,
	}
	for i := 0; i < n; i++ {
		// All features share the same span so each lands on its own row.
		prod.Features = append(prod.Features, model.Feature{
			ID:        fmt.Sprintf("%s-f%03d", g.cfg.IDPrefix, i),
			Name:      fmt.Sprintf("Feature %d", i),
			ParentID:  prod.ID,
			StartDate: start.AddDate(0, 0, 7),
			EndDate:   start.AddDate(0, 0, 21),
		})
	}
	theme.Products = []model.Product{prod}
	return model.Snapshot{Themes: []model.Theme{theme}}
}
