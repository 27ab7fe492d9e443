package analyser

import (
	"sort"
	"time"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// ExtractDay picks the rows of one calendar day from every summary,
// whatever their year. Each row remembers the first date of the table it
// came from, which identifies when that snapshot was taken.
func ExtractDay(tables []model.MonthlySummary, month time.Month, day int) []model.DaySliceRow {
	var out []model.DaySliceRow
	for _, t := range tables {
		if len(t.Rows) == 0 {
			continue
		}
		reference := t.Rows[0].Date
		for _, r := range t.Rows {
			if r.Date.Month == month && r.Date.Day == day {
				out = append(out, model.DaySliceRow{SnapshotReferenceDate: reference, DailySummaryRow: r})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func validateDay(month, day int) error {
	if month < 1 || month > 12 {
		return model.ErrInvalidMonth
	}
	// 2000 is a leap year, so Feb 29 stays addressable
	last := time.Date(2000, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return model.ErrInvalidDay
	}
	return nil
}
