package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// csvHeader is the canonical column order. Import matches columns
// case-insensitively by name, so reordered files still load.
var csvHeader = []string{"kind", "id", "parent_id", "name", "start_date", "end_date", "percent_complete", "status"}

const csvDateLayout = "2006-01-02"

// ExportCSV writes the snapshot as flat rows, themes first, each theme's
// products and features following in document order.
func ExportCSV(w io.Writer, snap model.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	writeRow := func(kind, id, parent, name, start, end, pct, status string) error {
		return cw.Write([]string{kind, id, parent, name, start, end, pct, status})
	}

	for _, t := range snap.Themes {
		start, end := "", ""
		if t.HasDates() {
			start = t.StartDate.Format(csvDateLayout)
			end = t.EndDate.Format(csvDateLayout)
		}
		if err := writeRow("theme", t.ID, "", t.Name, start, end, "", ""); err != nil {
			return err
		}
		for _, p := range t.Products {
			if err := writeRow("product", p.ID, t.ID, p.Name,
				p.StartDate.Format(csvDateLayout), p.EndDate.Format(csvDateLayout), "", ""); err != nil {
				return err
			}
			for _, f := range p.Features {
				pct, status := "", ""
				if f.Progress != nil {
					pct = strconv.Itoa(f.Progress.PercentComplete)
					status = string(f.Progress.Status)
				}
				if err := writeRow("feature", f.ID, p.ID, f.Name,
					f.StartDate.Format(csvDateLayout), f.EndDate.Format(csvDateLayout), pct, status); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportCSV rebuilds a snapshot from rows written by ExportCSV (or edited
// by hand). Rows must list a parent before its children.
func ImportCSV(r io.Reader) (model.Snapshot, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, want := range []string{"kind", "id", "name"} {
		if _, ok := col[want]; !ok {
			return model.Snapshot{}, fmt.Errorf("csv is missing required column %q", want)
		}
	}

	get := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	parseDate := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		return time.Parse(csvDateLayout, s)
	}

	var snap model.Snapshot
	themeIdx := make(map[string]int)
	productLoc := make(map[string][2]int) // product id -> (theme idx, product idx)

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("read csv: %w", err)
		}
		line++

		kind := strings.ToLower(get(record, "kind"))
		id := get(record, "id")
		parent := get(record, "parent_id")
		name := get(record, "name")
		start, err := parseDate(get(record, "start_date"))
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("line %d: bad start_date: %w", line, err)
		}
		end, err := parseDate(get(record, "end_date"))
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("line %d: bad end_date: %w", line, err)
		}

		switch kind {
		case "theme":
			t := model.Theme{ID: id, Name: name}
			if !start.IsZero() && !end.IsZero() {
				t.StartDate, t.EndDate = &start, &end
			}
			themeIdx[id] = len(snap.Themes)
			snap.Themes = append(snap.Themes, t)

		case "product":
			ti, ok := themeIdx[parent]
			if !ok {
				return model.Snapshot{}, fmt.Errorf("line %d: product %s references unknown theme %s", line, id, parent)
			}
			p := model.Product{ID: id, Name: name, ParentID: parent, StartDate: start, EndDate: end}
			productLoc[id] = [2]int{ti, len(snap.Themes[ti].Products)}
			snap.Themes[ti].Products = append(snap.Themes[ti].Products, p)

		case "feature":
			loc, ok := productLoc[parent]
			if !ok {
				return model.Snapshot{}, fmt.Errorf("line %d: feature %s references unknown product %s", line, id, parent)
			}
			f := model.Feature{ID: id, Name: name, ParentID: parent, StartDate: start, EndDate: end}
			if pctStr := get(record, "percent_complete"); pctStr != "" {
				pct, err := strconv.Atoi(pctStr)
				if err != nil {
					return model.Snapshot{}, fmt.Errorf("line %d: bad percent_complete: %w", line, err)
				}
				f.Progress = &model.Progress{
					Status:          model.ProgressStatus(get(record, "status")),
					PercentComplete: pct,
				}
			}
			p := &snap.Themes[loc[0]].Products[loc[1]]
			p.Features = append(p.Features, f)

		case "":
			// blank row, skip

		default:
			return model.Snapshot{}, fmt.Errorf("line %d: unknown kind %q", line, kind)
		}
	}

	if err := snap.Validate(); err != nil {
		return model.Snapshot{}, fmt.Errorf("imported roadmap invalid: %w", err)
	}
	return snap, nil
}
