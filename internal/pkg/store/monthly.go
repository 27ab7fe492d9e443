package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

var monthlyFileRegex = regexp.MustCompile(`^(\d{4}-\d{2})-processed\.csv$`)

// Store keeps monthly summaries as one CSV table per (city, year, month).
// Writes always replace the whole table.
type Store struct {
	paths  config.Paths
	cache  *lru.Cache
	logger *zap.Logger
}

type cachedSummary struct {
	modTime time.Time
	size    int64
	rows    []model.DailySummaryRow
}

func New(paths config.Paths, cacheSize int, logger *zap.Logger) (*Store, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}
	return &Store{paths: paths, cache: cache, logger: logger}, nil
}

func (s *Store) WriteMonthly(summary model.MonthlySummary) error {
	path := s.paths.Monthly(summary.Key.City, summary.Key.YearMonth)
	err := writeFileAtomic(path, func(w io.Writer) error {
		return encodeMonthly(w, summary.Rows)
	})
	s.cache.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to write monthly summary %s: %w", summary.Key, err)
	}
	s.logger.Info("wrote monthly summary", zap.Stringer("key", summary.Key), zap.String("path", path), zap.Int("rows", len(summary.Rows)))
	return nil
}

func (s *Store) ReadMonthly(key model.SnapshotKey) (model.MonthlySummary, error) {
	path := s.paths.Monthly(key.City, key.YearMonth)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.MonthlySummary{}, fmt.Errorf("%w: %s", model.ErrSummaryNotFound, key)
	}
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to stat '%s': %w", path, err)
	}

	if v, ok := s.cache.Get(path); ok {
		c := v.(cachedSummary)
		if c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
			return model.MonthlySummary{Key: key, Rows: cloneRows(c.rows)}, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	rows, err := decodeMonthly(f)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to decode '%s': %w", path, err)
	}
	s.cache.Add(path, cachedSummary{modTime: info.ModTime(), size: info.Size(), rows: rows})
	return model.MonthlySummary{Key: key, Rows: cloneRows(rows)}, nil
}

// MonthlyKeys lists the persisted summaries of a city in ascending month order.
func (s *Store) MonthlyKeys(city string) ([]model.SnapshotKey, error) {
	dir := s.paths.MonthlyDir(city)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", dir, err)
	}

	var keys []model.SnapshotKey
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := monthlyFileRegex.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		ym, err := model.ParseYearMonth(m[1])
		if err != nil {
			s.logger.Warn("skipping summary with unexpected name", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		keys = append(keys, model.SnapshotKey{City: city, YearMonth: ym})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].YearMonth.Before(keys[j].YearMonth) })
	return keys, nil
}

func cloneRows(rows []model.DailySummaryRow) []model.DailySummaryRow {
	out := make([]model.DailySummaryRow, len(rows))
	copy(out, rows)
	return out
}
