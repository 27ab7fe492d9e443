package model

import "cloud.google.com/go/civil"

type DailyTotal struct {
	Date      civil.Date
	Available int
	Total     int
}

// Ratio is 0 for an empty total so no NaN reaches the summary table.
func (t DailyTotal) Ratio() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Available) / float64(t.Total)
}

// PriceStats is one date's price aggregate. Nil fields are undefined values,
// e.g. the deviation of a single sample.
type PriceStats struct {
	MinPrice          *float64
	MaxPrice          *float64
	MeanPrice         *float64
	StdPrice          *float64
	TotalAccommodates *int
}

type DailySummaryRow struct {
	Date           civil.Date
	Available      int
	Total          int
	AvailableRatio float64
	PriceStats
	Booked int
}

type DaySliceRow struct {
	SnapshotReferenceDate civil.Date
	DailySummaryRow
}

// MonthlySummary is the persisted table of one snapshot batch.
type MonthlySummary struct {
	Key  SnapshotKey
	Rows []DailySummaryRow
}

// VintageColumn holds the booked totals one snapshot file reports for each
// historical month it covers.
type VintageColumn struct {
	Label  string
	Booked map[YearMonth]int
}

type VintageTable struct {
	Months  []YearMonth
	Columns []VintageColumn
}

func (t VintageTable) Cell(month YearMonth, col int) (int, bool) {
	v, ok := t.Columns[col].Booked[month]
	return v, ok
}
