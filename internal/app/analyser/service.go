package analyser

import (
	"errors"
	"fmt"
	"time"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

type SnapshotSource interface {
	Months(city string) ([]model.YearMonth, error)
	Exists(city string, ym model.YearMonth, source string) (bool, error)
	Listings(city string, ym model.YearMonth) ([]model.ListingRecord, error)
	Calendar(city string, ym model.YearMonth) ([]model.CalendarRecord, error)
}

type SummaryStore interface {
	WriteMonthly(summary model.MonthlySummary) error
	ReadMonthly(key model.SnapshotKey) (model.MonthlySummary, error)
	MonthlyKeys(city string) ([]model.SnapshotKey, error)
	WriteVintage(city string, table model.VintageTable) error
}

type Service struct {
	snapshots SnapshotSource
	store     SummaryStore
	logger    *zap.Logger
}

func NewService(snapshots SnapshotSource, store SummaryStore, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		store:     store,
		logger:    logger,
	}
}

// ProcessMonth builds the summary of one snapshot month from its raw files
// and replaces whatever summary was stored for it.
func (s Service) ProcessMonth(city string, year, month int) (model.MonthlySummary, error) {
	ym, err := model.NewYearMonth(year, month)
	if err != nil {
		return model.MonthlySummary{}, err
	}
	key := model.SnapshotKey{City: city, YearMonth: ym}

	listings, err := s.snapshots.Listings(city, ym)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to read listings of %s: %w", key, err)
	}
	calendar, err := s.snapshots.Calendar(city, ym)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to read calendar of %s: %w", key, err)
	}

	rows, err := Summarize(listings, calendar)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to summarize %s: %w", key, err)
	}

	summary := model.MonthlySummary{Key: key, Rows: rows}
	if err := s.store.WriteMonthly(summary); err != nil {
		return model.MonthlySummary{}, err
	}
	s.logger.Info("processed month", zap.Stringer("key", key),
		zap.Int("listings", len(listings)), zap.Int("calendarRows", len(calendar)), zap.Int("days", len(rows)))
	return summary, nil
}

// MonthlySummary returns the stored summary when reuse is set and one
// exists. Whether a stored table is stale is up to the caller.
func (s Service) MonthlySummary(key model.SnapshotKey, reuse bool) (model.MonthlySummary, error) {
	if reuse {
		summary, err := s.store.ReadMonthly(key)
		if err == nil {
			return summary, nil
		}
		if !errors.Is(err, model.ErrSummaryNotFound) {
			return model.MonthlySummary{}, err
		}
	}
	return s.ProcessMonth(key.City, key.YearMonth.Year, int(key.YearMonth.Month))
}

// ProcessAllMonths rebuilds every month that has raw snapshots. Months
// missing one of their two files are skipped.
func (s Service) ProcessAllMonths(city string) ([]model.MonthlySummary, error) {
	months, err := s.snapshots.Months(city)
	if err != nil {
		return nil, fmt.Errorf("failed to discover snapshots of %s: %w", city, err)
	}
	s.logger.Info("processing all months", zap.String("city", city), zap.Int("months", len(months)))

	summaries := make([]model.MonthlySummary, 0, len(months))
	for _, ym := range months {
		complete, err := s.complete(city, ym)
		if err != nil {
			return nil, err
		}
		if !complete {
			s.logger.Warn("skipping incomplete snapshot", zap.String("city", city), zap.Stringer("month", ym))
			continue
		}
		summary, err := s.ProcessMonth(city, ym.Year, int(ym.Month))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// complete reports whether both raw files of a snapshot month are on disk.
func (s Service) complete(city string, ym model.YearMonth) (bool, error) {
	for _, source := range []model.Source{model.SourceListings, model.SourceCalendar} {
		ok, err := s.snapshots.Exists(city, ym, string(source))
		if err != nil {
			return false, fmt.Errorf("failed to check %s of %s/%s: %w", source, city, ym, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// SpecificDay returns one calendar day across all years of a city's
// summaries. Without reuse, or when nothing is stored yet, every summary is
// rebuilt from the raw snapshots first.
func (s Service) SpecificDay(city string, month, day int, reuse bool) ([]model.DaySliceRow, error) {
	if err := validateDay(month, day); err != nil {
		return nil, fmt.Errorf("%w: month %d day %d", err, month, day)
	}

	tables, err := s.summaries(city, reuse)
	if err != nil {
		return nil, err
	}

	rows := ExtractDay(tables, time.Month(month), day)
	s.logger.Info("extracted day slice", zap.String("city", city), zap.Int("month", month), zap.Int("day", day),
		zap.Int("summaries", len(tables)), zap.Int("rows", len(rows)))
	return rows, nil
}

// Vintage pivots the booked totals of every stored summary into one column
// per snapshot and persists the table.
func (s Service) Vintage(city string) (model.VintageTable, error) {
	tables, err := s.summaries(city, true)
	if err != nil {
		return model.VintageTable{}, err
	}
	if len(tables) == 0 {
		return model.VintageTable{}, fmt.Errorf("no monthly summaries for %s: %w", city, model.ErrSnapshotNotFound)
	}

	table := PivotVintages(tables)
	if err := s.store.WriteVintage(city, table); err != nil {
		return model.VintageTable{}, err
	}
	return table, nil
}

func (s Service) summaries(city string, reuse bool) ([]model.MonthlySummary, error) {
	keys, err := s.store.MonthlyKeys(city)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly summaries of %s: %w", city, err)
	}
	if !reuse || len(keys) == 0 {
		return s.ProcessAllMonths(city)
	}

	tables := make([]model.MonthlySummary, 0, len(keys))
	for _, k := range keys {
		summary, err := s.store.ReadMonthly(k)
		if err != nil {
			return nil, err
		}
		tables = append(tables, summary)
	}
	return tables, nil
}
