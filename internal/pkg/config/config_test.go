package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, DefaultListingFields, cfg.ListingFields)
	assert.Equal(t, DefaultCalendarFields, cfg.CalendarFields)
	assert.Equal(t, 64, cfg.SummaryCacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Crawler.Workers)
	assert.Equal(t, 5*time.Minute, cfg.Crawler.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AIRBNB_DATA_DIR", "/srv/airbnb")
	t.Setenv("AIRBNB_INDEX_DIR", "/srv/index")
	t.Setenv("AIRBNB_LISTING_FIELDS", "id,name,accommodates,host_response_rate,review_scores_rating")
	t.Setenv("AIRBNB_LOG_LEVEL", "debug")
	t.Setenv("AIRBNB_CRAWLER_WORKERS", "3")
	t.Setenv("AIRBNB_CRAWLER_REQUESTS_PER_SECOND", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/airbnb", cfg.Paths().Root)
	assert.Equal(t, filepath.Join("/srv/index", "lisbon.json"), cfg.Paths().CityIndex("lisbon"))
	assert.Contains(t, cfg.ListingFields, "name")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Crawler.Workers)
	assert.Equal(t, 0.5, cfg.Crawler.RequestsPerSecond)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := map[string]struct {
		key, value string
	}{
		"listing field dropped":  {"AIRBNB_LISTING_FIELDS", "id,accommodates"},
		"calendar field dropped": {"AIRBNB_CALENDAR_FIELDS", "listing_id,date,price"},
		"cache size":             {"AIRBNB_SUMMARY_CACHE_SIZE", "0"},
		"workers":                {"AIRBNB_CRAWLER_WORKERS", "-1"},
		"not a number":           {"AIRBNB_CRAWLER_WORKERS", "many"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPaths(t *testing.T) {
	p := Paths{Root: "data"}
	ym := model.YearMonth{Year: 2021, Month: time.March}

	assert.Equal(t, filepath.Join("data", "cities", "lisbon.json"), p.CityIndex("lisbon"))
	assert.Equal(t, filepath.Join("data", "downloads", "lisbon", "2021-03-calendar.csv.gz"), p.Snapshot("lisbon", ym, model.SourceCalendar))
	assert.Equal(t, filepath.Join("data", "result", "lisbon", "monthly", "2021-03-processed.csv"), p.Monthly("lisbon", ym))
	assert.Equal(t, filepath.Join("data", "result", "lisbon", "vintage", "lisbon-vintage-all.csv"), p.Vintage("lisbon"))

	p.Index = filepath.Join("repo", "data", "cities")
	assert.Equal(t, filepath.Join("repo", "data", "cities", "lisbon.json"), p.CityIndex("lisbon"))
	assert.Equal(t, filepath.Join("data", "downloads", "lisbon"), p.DownloadsDir("lisbon"))
}
