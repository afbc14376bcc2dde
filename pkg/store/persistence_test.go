package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/testutil"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func assertSameShape(t *testing.T, got, want model.Snapshot) {
	t.Helper()
	if len(got.Themes) != len(want.Themes) {
		t.Fatalf("theme count = %d, want %d", len(got.Themes), len(want.Themes))
	}
	for i := range want.Themes {
		wt, gt := want.Themes[i], got.Themes[i]
		if gt.ID != wt.ID || gt.Name != wt.Name {
			t.Errorf("theme %d = %s/%s, want %s/%s", i, gt.ID, gt.Name, wt.ID, wt.Name)
		}
		if wt.HasDates() != gt.HasDates() {
			t.Errorf("theme %s dates lost in round trip", wt.ID)
		}
		if wt.HasDates() && !gt.StartDate.Equal(*wt.StartDate) {
			t.Errorf("theme %s start = %v, want %v", wt.ID, gt.StartDate, wt.StartDate)
		}
		if len(gt.Products) != len(wt.Products) {
			t.Fatalf("theme %s product count = %d, want %d", wt.ID, len(gt.Products), len(wt.Products))
		}
		for j := range wt.Products {
			wp, gp := wt.Products[j], gt.Products[j]
			if gp.ID != wp.ID || !gp.StartDate.Equal(wp.StartDate) || !gp.EndDate.Equal(wp.EndDate) {
				t.Errorf("product %s changed in round trip", wp.ID)
			}
			if len(gp.Features) != len(wp.Features) {
				t.Fatalf("product %s feature count = %d, want %d", wp.ID, len(gp.Features), len(wp.Features))
			}
			for k := range wp.Features {
				wf, gf := wp.Features[k], gp.Features[k]
				if gf.ID != wf.ID || !gf.StartDate.Equal(wf.StartDate) || !gf.EndDate.Equal(wf.EndDate) {
					t.Errorf("feature %s changed in round trip", wf.ID)
				}
				if (wf.Progress == nil) != (gf.Progress == nil) {
					t.Errorf("feature %s progress presence changed", wf.ID)
				} else if wf.Progress != nil && *gf.Progress != *wf.Progress {
					t.Errorf("feature %s progress = %+v, want %+v", wf.ID, gf.Progress, wf.Progress)
				}
			}
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	snap := testutil.New(testutil.GeneratorConfig{Seed: 5, WithProgress: true, UndatedThemes: true}).Snapshot()
	path := filepath.Join(t.TempDir(), "roadmap.yaml")

	if err := SaveYAML(path, snap); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	got, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	assertSameShape(t, got, snap)
}

func TestLoadYAMLFillsParentIDs(t *testing.T) {
	const doc = `
themes:
  - id: t1
    name: Platform
    products:
      - id: p1
        name: API
        start_date: 2026-01-01T00:00:00Z
        end_date: 2026-06-30T00:00:00Z
        features:
          - id: f1
            name: Auth
            start_date: 2026-01-01T00:00:00Z
            end_date: 2026-02-01T00:00:00Z
`
	path := filepath.Join(t.TempDir(), "roadmap.yaml")
	if err := writeFile(path, doc); err != nil {
		t.Fatal(err)
	}
	snap, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if snap.Themes[0].Products[0].ParentID != "t1" {
		t.Error("product parent id not filled from nesting")
	}
	if snap.Themes[0].Products[0].Features[0].ParentID != "p1" {
		t.Error("feature parent id not filled from nesting")
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	snap := testutil.New(testutil.GeneratorConfig{Seed: 9, WithProgress: true, UndatedThemes: true}).Snapshot()

	var buf bytes.Buffer
	if err := ExportCSV(&buf, snap); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	got, err := ImportCSV(&buf)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	assertSameShape(t, got, snap)
}

func TestImportCSVReorderedColumns(t *testing.T) {
	const doc = `name,id,kind,parent_id,start_date,end_date
Platform,t1,theme,,,
API,p1,product,t1,2026-01-01,2026-06-30
Auth,f1,feature,p1,2026-01-01,2026-02-01
`
	snap, err := ImportCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(snap.Themes) != 1 || snap.Themes[0].Products[0].Features[0].ID != "f1" {
		t.Errorf("reordered columns misparsed: %+v", snap)
	}
}

func TestImportCSVChildBeforeParent(t *testing.T) {
	const doc = `kind,id,parent_id,name,start_date,end_date
feature,f1,p1,Auth,2026-01-01,2026-02-01
`
	if _, err := ImportCSV(strings.NewReader(doc)); err == nil {
		t.Error("expected error for feature before its product")
	}
}

func TestImportCSVUnknownKind(t *testing.T) {
	const doc = `kind,id,parent_id,name
milestone,m1,,M1
`
	if _, err := ImportCSV(strings.NewReader(doc)); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBlobStoreSaveLoadVersioning(t *testing.T) {
	snap := testutil.NewDefault().Snapshot()
	path := filepath.Join(t.TempDir(), "roadmap.db")

	bs, err := OpenBlobStore(path)
	if err != nil {
		t.Fatalf("OpenBlobStore: %v", err)
	}
	defer bs.Close()

	v1, err := bs.Save(DefaultBlobKey, snap)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v1 != 1 {
		t.Errorf("first save version = %d, want 1", v1)
	}

	v2, err := bs.Save(DefaultBlobKey, snap)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if v2 != 2 {
		t.Errorf("second save version = %d, want 2", v2)
	}

	got, version, err := bs.Load(DefaultBlobKey)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if version != v2 {
		t.Errorf("loaded version = %d, want %d", version, v2)
	}
	assertSameShape(t, got, snap)
}

func TestBlobStoreLoadMissingKey(t *testing.T) {
	bs, err := OpenBlobStore(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("OpenBlobStore: %v", err)
	}
	defer bs.Close()

	if _, _, err := bs.Load("nothing"); err == nil {
		t.Error("expected error for missing key")
	}
}
