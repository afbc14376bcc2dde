package timeline

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// Segment is one labeled cell of a calendar header row: a quarter, a
// month, or an ISO week. Start is inclusive, End exclusive (first day of
// the next segment), so adjacent cells tile the range exactly.
type Segment struct {
	Start time.Time
	End   time.Time
	Label string
}

// Quarters returns the quarter segments covering [from, to].
func Quarters(from, to time.Time) []Segment {
	from, to = model.Day(from), model.Day(to)
	var segs []Segment
	cur := quarterStart(from)
	for !cur.After(to) {
		next := cur.AddDate(0, 3, 0)
		q := (int(cur.Month())-1)/3 + 1
		segs = append(segs, Segment{
			Start: cur,
			End:   next,
			Label: fmt.Sprintf("Q%d %d", q, cur.Year()),
		})
		cur = next
	}
	return segs
}

// Months returns the month segments covering [from, to].
func Months(from, to time.Time) []Segment {
	from, to = model.Day(from), model.Day(to)
	var segs []Segment
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(to) {
		next := cur.AddDate(0, 1, 0)
		segs = append(segs, Segment{
			Start: cur,
			End:   next,
			Label: cur.Format("Jan"),
		})
		cur = next
	}
	return segs
}

// Weeks returns the ISO week segments covering [from, to]. Each label is
// the ISO week number; weeks start on Monday.
func Weeks(from, to time.Time) []Segment {
	from, to = model.Day(from), model.Day(to)
	var segs []Segment
	cur := weekStart(from)
	for !cur.After(to) {
		next := cur.AddDate(0, 0, 7)
		_, wk := cur.ISOWeek()
		segs = append(segs, Segment{
			Start: cur,
			End:   next,
			Label: fmt.Sprintf("%d", wk),
		})
		cur = next
	}
	return segs
}

// IsQuarterBoundary reports whether the date is the first day of a
// quarter. Quarter boundaries get a heavier separator than plain months.
func IsQuarterBoundary(d time.Time) bool {
	d = model.Day(d)
	if d.Day() != 1 {
		return false
	}
	switch d.Month() {
	case time.January, time.April, time.July, time.October:
		return true
	}
	return false
}

func quarterStart(d time.Time) time.Time {
	qm := time.Month(((int(d.Month())-1)/3)*3 + 1)
	return time.Date(d.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
}

func weekStart(d time.Time) time.Time {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
