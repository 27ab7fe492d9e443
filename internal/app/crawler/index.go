package crawler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

var _ Store = &IndexStore{}

// IndexStore keeps the crawled snapshot links of each city as a JSON file.
type IndexStore struct {
	paths config.Paths
}

func NewIndexStore(paths config.Paths) *IndexStore {
	return &IndexStore{paths: paths}
}

func (s IndexStore) SaveCityIndex(city string, links []model.SnapshotLink) error {
	if err := os.MkdirAll(s.paths.CitiesDir(), 0755); err != nil {
		return fmt.Errorf("failed to create cities dir: %w", err)
	}
	data, err := json.MarshalIndent(links, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal index of %s: %w", city, err)
	}
	if err := os.WriteFile(s.paths.CityIndex(city), data, 0644); err != nil {
		return fmt.Errorf("failed to write index of %s: %w", city, err)
	}
	return nil
}

func (s IndexStore) LoadCityIndex(city string) ([]model.SnapshotLink, error) {
	data, err := os.ReadFile(s.paths.CityIndex(city))
	if err != nil {
		return nil, fmt.Errorf("failed to read index of %s: %w", city, err)
	}
	var links []model.SnapshotLink
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index of %s: %w", city, err)
	}
	return links, nil
}

// Cities lists the cities with a stored index, sorted by name.
func (s IndexStore) Cities() ([]string, error) {
	entries, err := os.ReadDir(s.paths.CitiesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	var cities []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		cities = append(cities, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(cities)
	return cities, nil
}
