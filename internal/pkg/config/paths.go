package config

import (
	"fmt"
	"path/filepath"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

// Paths lays out raw snapshots, indexes and results under one data root.
//
//	<root>/cities/<city>.json (or <index>/<city>.json)
//	<root>/downloads/<city>/<YYYY-MM>-<source>.csv.gz
//	<root>/result/<city>/monthly/<YYYY-MM>-processed.csv
//	<root>/result/<city>/vintage/<city>-vintage-all.csv
type Paths struct {
	Root  string
	// Index, when set, replaces <root>/cities.
	Index string
}

func (p Paths) CitiesDir() string {
	if p.Index != "" {
		return p.Index
	}
	return filepath.Join(p.Root, "cities")
}

func (p Paths) CityIndex(city string) string {
	return filepath.Join(p.CitiesDir(), city+".json")
}

func (p Paths) DownloadsDir(city string) string {
	return filepath.Join(p.Root, "downloads", city)
}

func (p Paths) Snapshot(city string, ym model.YearMonth, source model.Source) string {
	return filepath.Join(p.DownloadsDir(city), fmt.Sprintf("%s-%s.csv.gz", ym, source))
}

func (p Paths) MonthlyDir(city string) string {
	return filepath.Join(p.Root, "result", city, "monthly")
}

func (p Paths) Monthly(city string, ym model.YearMonth) string {
	return filepath.Join(p.MonthlyDir(city), ym.String()+"-processed.csv")
}

func (p Paths) Vintage(city string) string {
	return filepath.Join(p.Root, "result", city, "vintage", city+"-vintage-all.csv")
}
