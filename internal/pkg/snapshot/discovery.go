package snapshot

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

var snapshotFileRegex = regexp.MustCompile(`^(\d{4})-(\d{2})-[a-z]+\.csv\.gz$`)

// Months lists every snapshot month with at least one raw file for the city,
// ascending and without duplicates.
func (r *Reader) Months(city string) ([]model.YearMonth, error) {
	dir := r.paths.DownloadsDir(city)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", dir, err)
	}

	seen := make(map[model.YearMonth]struct{})
	var months []model.YearMonth
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := snapshotFileRegex.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		ym, err := model.NewYearMonth(year, month)
		if err != nil {
			return nil, fmt.Errorf("snapshot '%s': %w", e.Name(), err)
		}
		if _, ok := seen[ym]; ok {
			continue
		}
		seen[ym] = struct{}{}
		months = append(months, ym)
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months, nil
}
