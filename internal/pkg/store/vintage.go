package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

func (s *Store) WriteVintage(city string, table model.VintageTable) error {
	path := s.paths.Vintage(city)
	err := writeFileAtomic(path, func(w io.Writer) error {
		return encodeVintage(w, table)
	})
	if err != nil {
		return fmt.Errorf("failed to write vintage table for %s: %w", city, err)
	}
	s.logger.Info("wrote vintage table", zap.String("city", city), zap.String("path", path),
		zap.Int("months", len(table.Months)), zap.Int("vintages", len(table.Columns)))
	return nil
}

func encodeVintage(w io.Writer, table model.VintageTable) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, "year-month")
	for _, c := range table.Columns {
		header = append(header, c.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, month := range table.Months {
		record := make([]string, 0, len(header))
		record = append(record, month.String())
		for i := range table.Columns {
			if v, ok := table.Cell(month, i); ok {
				record = append(record, strconv.Itoa(v))
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
