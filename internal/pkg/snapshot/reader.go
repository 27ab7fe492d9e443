package snapshot

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

type Reader struct {
	paths          config.Paths
	listingFields  []string
	calendarFields []string
	logger         *zap.Logger
}

func NewReader(paths config.Paths, listingFields, calendarFields []string, logger *zap.Logger) *Reader {
	return &Reader{
		paths:          paths,
		listingFields:  listingFields,
		calendarFields: calendarFields,
		logger:         logger,
	}
}

// Exists reports whether the raw snapshot of one source is on disk. A bad
// month or source is an error rather than a missing file.
func (r *Reader) Exists(city string, ym model.YearMonth, source string) (bool, error) {
	path, err := r.path(city, ym, source)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat '%s': %w", path, err)
	}
	return true, nil
}

func (r *Reader) Listings(city string, ym model.YearMonth) ([]model.ListingRecord, error) {
	var out []model.ListingRecord
	err := r.read(city, ym, string(model.SourceListings), r.listingFields, func(row rowFunc) error {
		accommodates, err := parseCount("accommodates", row("accommodates"))
		if err != nil {
			return err
		}
		out = append(out, model.ListingRecord{
			ID:                 row("id"),
			Accommodates:       accommodates,
			HostResponseRate:   model.Cell(row("host_response_rate")),
			ReviewScoresRating: model.Cell(row("review_scores_rating")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("read listings", zap.String("city", city), zap.Stringer("month", ym), zap.Int("rows", len(out)))
	return out, nil
}

func (r *Reader) Calendar(city string, ym model.YearMonth) ([]model.CalendarRecord, error) {
	var out []model.CalendarRecord
	err := r.read(city, ym, string(model.SourceCalendar), r.calendarFields, func(row rowFunc) error {
		date, err := civil.ParseDate(strings.TrimSpace(row("date")))
		if err != nil {
			return fmt.Errorf("failed to parse calendar date: %w", err)
		}
		out = append(out, model.CalendarRecord{
			ListingID: row("listing_id"),
			Date:      date,
			Available: strings.TrimSpace(row("available")) == "t",
			Price:     model.Cell(row("price")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Debug("read calendar", zap.String("city", city), zap.Stringer("month", ym), zap.Int("rows", len(out)))
	return out, nil
}

type rowFunc func(field string) string

func (r *Reader) path(city string, ym model.YearMonth, source string) (string, error) {
	if err := ym.Validate(); err != nil {
		return "", err
	}
	src, err := model.ParseSource(source)
	if err != nil {
		return "", err
	}
	return r.paths.Snapshot(city, ym, src), nil
}

func (r *Reader) read(city string, ym model.YearMonth, source string, fields []string, fn func(rowFunc) error) error {
	path, err := r.path(city, ym, source)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", model.ErrSnapshotNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream of '%s': %w", path, err)
	}
	defer gz.Close()

	cr := csv.NewReader(gz)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of '%s': %w", path, err)
	}
	index := make(map[string]int, len(fields))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, field := range fields {
		if _, ok := index[field]; !ok {
			return fmt.Errorf("field '%s' missing in '%s'", field, path)
		}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read '%s': %w", path, err)
		}
		row := func(field string) string {
			i, ok := index[field]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

// parseCount reads an integer column that may carry thousands separators.
func parseCount(field, s string) (*int, error) {
	if model.IsNA(s) {
		return nil, nil
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil, &model.ParseError{Field: field, Value: s, Err: err}
		}
		n = int(f)
	}
	return &n, nil
}
