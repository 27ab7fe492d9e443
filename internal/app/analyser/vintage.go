package analyser

import (
	"sort"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

type monthTotals struct {
	available int
	booked    int
	total     int
}

// resampleMonthly sums a summary's rows per calendar month, in order of
// first appearance.
func resampleMonthly(rows []model.DailySummaryRow) ([]model.YearMonth, map[model.YearMonth]monthTotals) {
	months, groups := groupBy(rows, func(r model.DailySummaryRow) model.YearMonth { return model.YearMonthOf(r.Date) })
	out := make(map[model.YearMonth]monthTotals, len(months))
	for _, m := range months {
		var t monthTotals
		for _, r := range groups[m] {
			t.available += r.Available
			t.booked += r.Booked
			t.total += r.Total
		}
		out[m] = t
	}
	return months, out
}

// VintageColumnOf reduces one summary to its booked totals per historical
// month, labelled by the month of its first row.
func VintageColumnOf(summary model.MonthlySummary) model.VintageColumn {
	months, totals := resampleMonthly(summary.Rows)

	label := summary.Key.YearMonth.String()
	if len(months) > 0 {
		label = months[0].String()
	}

	col := model.VintageColumn{Label: label, Booked: make(map[model.YearMonth]int, len(months))}
	for _, m := range months {
		col.Booked[m] = totals[m].booked
	}
	return col
}

// PivotVintages outer-joins one column per summary on the historical month.
// Columns keep the order of tables; months ascend.
func PivotVintages(tables []model.MonthlySummary) model.VintageTable {
	var table model.VintageTable
	seen := make(map[model.YearMonth]struct{})
	for _, t := range tables {
		col := VintageColumnOf(t)
		for m := range col.Booked {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				table.Months = append(table.Months, m)
			}
		}
		table.Columns = append(table.Columns, col)
	}
	sort.Slice(table.Months, func(i, j int) bool { return table.Months[i].Before(table.Months[j]) })
	return table
}
