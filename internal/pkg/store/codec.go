package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

var monthlyHeader = []string{
	"date", "available", "total", "available_ratio",
	"min_price", "max_price", "mean_price", "std_price",
	"total_accommodates", "booked",
}

func encodeMonthly(w io.Writer, rows []model.DailySummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(monthlyHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(monthlyRecord(r)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeDaySlice writes a day slice with the monthly columns followed by
// the snapshot reference date.
func EncodeDaySlice(w io.Writer, rows []model.DaySliceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, monthlyHeader...), "snapshot_reference_date")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(append(monthlyRecord(r.DailySummaryRow), r.SnapshotReferenceDate.String())); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func monthlyRecord(r model.DailySummaryRow) []string {
	return []string{
		r.Date.String(),
		strconv.Itoa(r.Available),
		strconv.Itoa(r.Total),
		formatFloat(r.AvailableRatio),
		formatOptionalFloat(r.MinPrice),
		formatOptionalFloat(r.MaxPrice),
		formatOptionalFloat(r.MeanPrice),
		formatOptionalFloat(r.StdPrice),
		formatOptionalInt(r.TotalAccommodates),
		strconv.Itoa(r.Booked),
	}
}

func decodeMonthly(r io.Reader) ([]model.DailySummaryRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty summary table")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range monthlyHeader {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("column '%s' missing in summary table", name)
		}
	}

	var rows []model.DailySummaryRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		cell := func(name string) string { return strings.TrimSpace(record[index[name]]) }

		var row model.DailySummaryRow
		if row.Date, err = civil.ParseDate(cell("date")); err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if row.Available, err = parseInt(cell("available")); err != nil {
			return nil, fmt.Errorf("available on %s: %w", row.Date, err)
		}
		if row.Total, err = parseInt(cell("total")); err != nil {
			return nil, fmt.Errorf("total on %s: %w", row.Date, err)
		}
		if row.Booked, err = parseInt(cell("booked")); err != nil {
			return nil, fmt.Errorf("booked on %s: %w", row.Date, err)
		}
		if row.AvailableRatio, err = strconv.ParseFloat(cell("available_ratio"), 64); err != nil {
			return nil, fmt.Errorf("available_ratio on %s: %w", row.Date, err)
		}
		for name, dst := range map[string]**float64{
			"min_price":  &row.MinPrice,
			"max_price":  &row.MaxPrice,
			"mean_price": &row.MeanPrice,
			"std_price":  &row.StdPrice,
		} {
			if *dst, err = parseOptionalFloat(cell(name)); err != nil {
				return nil, fmt.Errorf("%s on %s: %w", name, row.Date, err)
			}
		}
		if v := cell("total_accommodates"); v != "" {
			n, err := parseInt(v)
			if err != nil {
				return nil, fmt.Errorf("total_accommodates on %s: %w", row.Date, err)
			}
			row.TotalAccommodates = &n
		}
		rows = append(rows, row)
	}
}

// formatFloat always keeps a decimal point so float columns stay floats
// for readers that infer column types.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// parseInt also accepts integral floats like "3.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("'%s' is not an integer", s)
	}
	return int(f), nil
}
