package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "AIRBNB"

var (
	DefaultListingFields  = []string{"id", "accommodates", "host_response_rate", "review_scores_rating"}
	DefaultCalendarFields = []string{"listing_id", "date", "available", "price"}
)

type Config struct {
	DataDir          string   `envconfig:"DATA_DIR" default:"data"`
	IndexDir         string   `envconfig:"INDEX_DIR"`
	ListingFields    []string `envconfig:"LISTING_FIELDS" default:"id,accommodates,host_response_rate,review_scores_rating"`
	CalendarFields   []string `envconfig:"CALENDAR_FIELDS" default:"listing_id,date,available,price"`
	SummaryCacheSize int      `envconfig:"SUMMARY_CACHE_SIZE" default:"64"`
	PostgresURL      string   `envconfig:"POSTGRES_URL"`

	Log     LogConfig     `envconfig:"LOG"`
	Crawler CrawlerConfig `envconfig:"CRAWLER"`
}

type LogConfig struct {
	Level       string `envconfig:"LEVEL" default:"info"`
	Development bool   `envconfig:"DEVELOPMENT" default:"false"`
}

type CrawlerConfig struct {
	IndexURL          string        `envconfig:"INDEX_URL" default:"http://insideairbnb.com/get-the-data.html"`
	Workers           int           `envconfig:"WORKERS" default:"12"`
	RequestsPerSecond float64       `envconfig:"REQUESTS_PER_SECOND" default:"4"`
	Timeout           time.Duration `envconfig:"TIMEOUT" default:"5m"`
}

// Load reads AIRBNB_* environment variables on top of the defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Paths() Paths {
	return Paths{Root: c.DataDir, Index: c.IndexDir}
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	if err := requireFields(c.ListingFields, DefaultListingFields); err != nil {
		return fmt.Errorf("listing fields: %w", err)
	}
	if err := requireFields(c.CalendarFields, DefaultCalendarFields); err != nil {
		return fmt.Errorf("calendar fields: %w", err)
	}
	if c.SummaryCacheSize <= 0 {
		return fmt.Errorf("summary cache size must be positive, got %d", c.SummaryCacheSize)
	}
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler workers must be positive, got %d", c.Crawler.Workers)
	}
	if c.Crawler.RequestsPerSecond <= 0 {
		return fmt.Errorf("crawler requests per second must be positive, got %v", c.Crawler.RequestsPerSecond)
	}
	return nil
}

// requireFields checks that a configured field list is a superset of required.
func requireFields(configured, required []string) error {
	have := make(map[string]struct{}, len(configured))
	for _, f := range configured {
		have[f] = struct{}{}
	}
	for _, f := range required {
		if _, ok := have[f]; !ok {
			return fmt.Errorf("missing required field '%s'", f)
		}
	}
	return nil
}
