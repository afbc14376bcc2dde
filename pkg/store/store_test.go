package store

import (
	"testing"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/testutil"
)

func fixture() model.Snapshot {
	return testutil.New(testutil.GeneratorConfig{Seed: 3, WithProgress: true}).Snapshot()
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	repo := NewRepository(fixture())
	snap := repo.Snapshot()
	snap.Themes[0].Name = "mutated"
	snap.Themes[0].Products[0].Features[0].Name = "mutated"

	fresh := repo.Snapshot()
	if fresh.Themes[0].Name == "mutated" {
		t.Error("mutating a snapshot leaked into the repository")
	}
	if fresh.Themes[0].Products[0].Features[0].Name == "mutated" {
		t.Error("mutating a nested feature leaked into the repository")
	}
}

func TestReplaceSwapsContents(t *testing.T) {
	repo := NewRepository(fixture())
	repo.Replace(model.Snapshot{})
	if got := len(repo.Snapshot().Themes); got != 0 {
		t.Errorf("after Replace with empty snapshot, %d themes remain", got)
	}
}

func TestAddProductUnknownTheme(t *testing.T) {
	repo := NewRepository(fixture())
	err := repo.AddProduct("nope", model.Product{
		ID: "p-x", Name: "X",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestUpdateFeature(t *testing.T) {
	snap := fixture()
	repo := NewRepository(snap)
	f := snap.Themes[0].Products[0].Features[0]
	f.Name = "renamed"
	f.Progress = &model.Progress{Status: model.ProgressDone, PercentComplete: 100}

	if err := repo.UpdateFeature(f); err != nil {
		t.Fatalf("UpdateFeature: %v", err)
	}

	got := repo.Snapshot().Themes[0].Products[0].Features[0]
	if got.Name != "renamed" {
		t.Errorf("Name = %q, want renamed", got.Name)
	}
	if got.Progress == nil || got.Progress.PercentComplete != 100 {
		t.Errorf("Progress = %+v, want 100%%", got.Progress)
	}
}

func TestUpdateFeatureUnknownID(t *testing.T) {
	repo := NewRepository(fixture())
	err := repo.UpdateFeature(model.Feature{
		ID: "missing", Name: "X",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Error("expected error for unknown feature id")
	}
}

func TestDeleteSubtree(t *testing.T) {
	snap := fixture()
	repo := NewRepository(snap)

	themeID := snap.Themes[0].ID
	if err := repo.Delete(themeID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, ok := repo.Find(themeID); ok {
		t.Error("deleted theme still findable")
	}
	// Children disappear with the subtree.
	childID := snap.Themes[0].Products[0].Features[0].ID
	if _, _, ok := repo.Find(childID); ok {
		t.Error("feature of deleted theme still findable")
	}
}

func TestFind(t *testing.T) {
	snap := fixture()
	repo := NewRepository(snap)

	f := snap.Themes[0].Products[0].Features[0]
	kind, name, ok := repo.Find(f.ID)
	if !ok {
		t.Fatalf("Find(%s) not found", f.ID)
	}
	if kind != model.KindFeature || name != f.Name {
		t.Errorf("Find = (%v, %q), want (feature, %q)", kind, name, f.Name)
	}

	if _, _, ok := repo.Find("absent"); ok {
		t.Error("Find for absent id reported ok")
	}
}
