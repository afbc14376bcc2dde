// Package store holds the roadmap outside the render pipeline: a plain
// in-memory repository the UI edits, plus persistence collaborators
// (versioned SQLite blob storage, YAML roadmap files, CSV import/export).
// The layout core only ever sees read-only snapshots from here.
package store

import (
	"fmt"
	"sync"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// Repository is the in-memory roadmap state. All mutation goes through
// it; readers take snapshots. It is safe for concurrent use, although the
// TUI runs single-threaded and only the watcher reload races against it.
type Repository struct {
	mu     sync.RWMutex
	themes []model.Theme
}

// NewRepository creates a repository seeded from a snapshot.
func NewRepository(snap model.Snapshot) *Repository {
	return &Repository{themes: cloneThemes(snap.Themes)}
}

// Snapshot returns a deep copy of the current roadmap.
func (r *Repository) Snapshot() model.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.Snapshot{Themes: cloneThemes(r.themes)}
}

// Replace swaps the whole roadmap, used by file-watch reloads.
func (r *Repository) Replace(snap model.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = cloneThemes(snap.Themes)
}

// AddTheme appends a theme.
func (r *Repository) AddTheme(t model.Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes = append(r.themes, t)
	return nil
}

// AddProduct appends a product under the named theme.
func (r *Repository) AddProduct(themeID string, p model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.themes {
		if r.themes[i].ID == themeID {
			p.ParentID = themeID
			r.themes[i].Products = append(r.themes[i].Products, p)
			return nil
		}
	}
	return fmt.Errorf("theme not found: %s", themeID)
}

// AddFeature appends a feature under the named product.
func (r *Repository) AddFeature(productID string, f model.Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.themes {
		for j := range r.themes[i].Products {
			if r.themes[i].Products[j].ID == productID {
				f.ParentID = productID
				r.themes[i].Products[j].Features = append(r.themes[i].Products[j].Features, f)
				return nil
			}
		}
	}
	return fmt.Errorf("product not found: %s", productID)
}

// UpdateFeature replaces the feature with the same id.
func (r *Repository) UpdateFeature(f model.Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.themes {
		for j := range r.themes[i].Products {
			for k := range r.themes[i].Products[j].Features {
				if r.themes[i].Products[j].Features[k].ID == f.ID {
					f.ParentID = r.themes[i].Products[j].ID
					r.themes[i].Products[j].Features[k] = f
					return nil
				}
			}
		}
	}
	return fmt.Errorf("feature not found: %s", f.ID)
}

// Delete removes the item with the given id at whatever level it lives,
// along with its subtree.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.themes {
		if r.themes[i].ID == id {
			r.themes = append(r.themes[:i], r.themes[i+1:]...)
			return nil
		}
		for j := range r.themes[i].Products {
			ps := r.themes[i].Products
			if ps[j].ID == id {
				r.themes[i].Products = append(ps[:j], ps[j+1:]...)
				return nil
			}
			for k := range ps[j].Features {
				fs := ps[j].Features
				if fs[k].ID == id {
					ps[j].Features = append(fs[:k], fs[k+1:]...)
					return nil
				}
			}
		}
	}
	return fmt.Errorf("item not found: %s", id)
}

// Find returns the kind and names of an item by id, for status lines.
func (r *Repository) Find(id string) (model.ItemKind, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.themes {
		if t.ID == id {
			return model.KindTheme, t.Name, true
		}
		for _, p := range t.Products {
			if p.ID == id {
				return model.KindProduct, p.Name, true
			}
			for _, f := range p.Features {
				if f.ID == id {
					return model.KindFeature, f.Name, true
				}
			}
		}
	}
	return 0, "", false
}

func cloneThemes(themes []model.Theme) []model.Theme {
	out := make([]model.Theme, len(themes))
	for i, t := range themes {
		out[i] = t
		if t.StartDate != nil {
			s := *t.StartDate
			out[i].StartDate = &s
		}
		if t.EndDate != nil {
			e := *t.EndDate
			out[i].EndDate = &e
		}
		out[i].Products = make([]model.Product, len(t.Products))
		for j, p := range t.Products {
			out[i].Products[j] = p
			out[i].Products[j].Features = make([]model.Feature, len(p.Features))
			for k, f := range p.Features {
				out[i].Products[j].Features[k] = f
				if f.Progress != nil {
					pr := *f.Progress
					out[i].Products[j].Features[k].Progress = &pr
				}
			}
		}
	}
	return out
}
