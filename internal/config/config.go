package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Feed      FeedConfig
	Watchlist WatchlistConfig
}

type AppConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	CORSOrigins     string        `envconfig:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"./albion_watch.db"`
}

type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH" default:"./data/items.json"`
}

type FeedConfig struct {
	BaseURL string `envconfig:"FEED_BASE_URL" default:"https://europe.albion-online-data.com"`
	// Locations is the comma-separated city list sent to the feed. The
	// neutral hub (Black Market) is excluded client-side regardless.
	Locations       string        `envconfig:"FEED_LOCATIONS" default:"Thetford,Martlock,Lymhurst,Caerleon,Bridgewatch,FortSterling"`
	RequestTimeout  time.Duration `envconfig:"FEED_REQUEST_TIMEOUT" default:"10s"`
	RequestsPerSec  float64       `envconfig:"FEED_REQUESTS_PER_SEC" default:"5"`
	FetchWorkers    int           `envconfig:"FEED_FETCH_WORKERS" default:"4"`
	RefreshInterval time.Duration `envconfig:"FEED_REFRESH_INTERVAL" default:"5m"`
}

type WatchlistConfig struct {
	// AllowDuplicates keeps the historical behavior of permitting the same
	// item to be tracked more than once.
	AllowDuplicates bool `envconfig:"WATCHLIST_ALLOW_DUPLICATES" default:"true"`
}

func (c FeedConfig) LocationList() []string {
	parts := strings.Split(c.Locations, ",")
	locations := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			locations = append(locations, p)
		}
	}
	return locations
}

func (c AppConfig) CORSOriginList() []string {
	if c.CORSOrigins == "" {
		return []string{"http://localhost:5173", "http://localhost:3000"}
	}
	return strings.Split(c.CORSOrigins, ",")
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
