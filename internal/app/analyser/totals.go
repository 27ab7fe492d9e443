package analyser

import (
	"cloud.google.com/go/civil"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// DailyTotals counts all rows and available rows per date, ascending by date.
func DailyTotals(rows []model.JoinedRow) []model.DailyTotal {
	dates, groups := groupBy(rows, func(r model.JoinedRow) civil.Date { return r.Date })
	sortDates(dates)

	out := make([]model.DailyTotal, 0, len(dates))
	for _, d := range dates {
		t := model.DailyTotal{Date: d, Total: len(groups[d])}
		for _, r := range groups[d] {
			if r.Available {
				t.Available++
			}
		}
		out = append(out, t)
	}
	return out
}
