package analyser

import (
	"cloud.google.com/go/civil"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// BuildSummary left-merges price statistics onto the daily totals. Dates
// without statistics keep empty price fields.
func BuildSummary(totals []model.DailyTotal, prices map[civil.Date]model.PriceStats) []model.DailySummaryRow {
	out := make([]model.DailySummaryRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, model.DailySummaryRow{
			Date:           t.Date,
			Available:      t.Available,
			Total:          t.Total,
			AvailableRatio: t.Ratio(),
			PriceStats:     prices[t.Date],
			Booked:         t.Total - t.Available,
		})
	}
	return out
}

// Summarize runs the whole pipeline for one snapshot month.
func Summarize(listings []model.ListingRecord, calendar []model.CalendarRecord) ([]model.DailySummaryRow, error) {
	qualifying, err := Qualify(listings)
	if err != nil {
		return nil, err
	}
	joined, err := Join(calendar, qualifying)
	if err != nil {
		return nil, err
	}
	_, pass2 := TwoPass(joined)
	return BuildSummary(DailyTotals(joined), pass2), nil
}
