package testutil

import (
	"testing"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

func TestSnapshotIsValidAndDeterministic(t *testing.T) {
	a := New(GeneratorConfig{Seed: 7}).Snapshot()
	b := New(GeneratorConfig{Seed: 7}).Snapshot()

	AssertValid(t, a)
	seen := make(map[string]bool)
	for _, th := range a.Themes {
		checkID(t, seen, th.ID)
		for _, p := range th.Products {
			checkID(t, seen, p.ID)
			for _, f := range p.Features {
				checkID(t, seen, f.ID)
			}
		}
	}

	if len(a.Themes) != len(b.Themes) {
		t.Fatalf("theme counts differ: %d vs %d", len(a.Themes), len(b.Themes))
	}
	fa, fb := a.Themes[0].Products[0].Features, b.Themes[0].Products[0].Features
	for i := range fa {
		if !fa[i].StartDate.Equal(fb[i].StartDate) || !fa[i].EndDate.Equal(fb[i].EndDate) {
			t.Errorf("feature %d differs between identical seeds", i)
		}
	}
}

func checkID(t *testing.T, seen map[string]bool, id string) {
	t.Helper()
	if seen[id] {
		t.Errorf("duplicate id %s", id)
	}
	seen[id] = true
}

func TestSnapshotShape(t *testing.T) {
	cfg := GeneratorConfig{Seed: 1, Themes: 3, ProductsPerTheme: 2, FeaturesPerProduct: 4}
	snap := New(cfg).Snapshot()

	if len(snap.Themes) != 3 {
		t.Fatalf("themes = %d", len(snap.Themes))
	}
	for _, th := range snap.Themes {
		if len(th.Products) != 2 {
			t.Errorf("theme %s products = %d", th.ID, len(th.Products))
		}
		for _, p := range th.Products {
			if len(p.Features) != 4 {
				t.Errorf("product %s features = %d", p.ID, len(p.Features))
			}
			for _, f := range p.Features {
				if f.ParentID != p.ID {
					t.Errorf("feature %s parent = %s", f.ID, f.ParentID)
				}
				if f.EndDate.Before(f.StartDate) {
					t.Errorf("feature %s ends before it starts", f.ID)
				}
			}
		}
	}
}

func TestUndatedThemes(t *testing.T) {
	snap := New(GeneratorConfig{Seed: 2, Themes: 4, UndatedThemes: true}).Snapshot()
	for i, th := range snap.Themes {
		dated := th.StartDate != nil && th.EndDate != nil
		if i%2 == 0 && !dated {
			t.Errorf("theme %d should be dated", i)
		}
		if i%2 == 1 && dated {
			t.Errorf("theme %d should be undated", i)
		}
	}
}

func TestWithProgress(t *testing.T) {
	snap := New(GeneratorConfig{Seed: 3, WithProgress: true}).Snapshot()
	feats := snap.Themes[0].Products[0].Features
	if feats[0].Progress == nil {
		t.Error("feature 0 missing progress")
	}
	if feats[1].Progress != nil {
		t.Error("feature 1 unexpectedly has progress")
	}
	if p := feats[0].Progress; p.PercentComplete < 0 || p.PercentComplete > 100 {
		t.Errorf("percent = %d", p.PercentComplete)
	}
}

func TestFlatFeatures(t *testing.T) {
	snap := New(GeneratorConfig{Seed: 4}).FlatFeatures(25)
	AssertValid(t, snap)

	feats := snap.Themes[0].Products[0].Features
	if len(feats) != 25 {
		t.Fatalf("features = %d", len(feats))
	}
	// All features share a span so every one of them packs onto its own row.
	for _, f := range feats[1:] {
		if !f.StartDate.Equal(feats[0].StartDate) || !f.EndDate.Equal(feats[0].EndDate) {
			t.Errorf("feature %s span differs", f.ID)
		}
	}
}

func TestBaseDateDrivesThemeLayout(t *testing.T) {
	base := time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC)
	snap := New(GeneratorConfig{Seed: 5, BaseDate: base, Themes: 2}).Snapshot()

	if got := *snap.Themes[0].StartDate; !got.Equal(base) {
		t.Errorf("theme 0 start = %v", got)
	}
	if got := *snap.Themes[1].StartDate; !got.Equal(base.AddDate(0, 3, 0)) {
		t.Errorf("theme 1 start = %v", got)
	}
	// Consecutive themes tile without overlap.
	if model.Overlaps(*snap.Themes[0].StartDate, *snap.Themes[0].EndDate,
		*snap.Themes[1].StartDate, *snap.Themes[1].EndDate) {
		t.Error("quarterly themes overlap")
	}
}
