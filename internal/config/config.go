package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration for every component of the
// pipeline (date generator, fetcher, download worker, requeuer). A single
// struct is shared across cmd/ entrypoints; each binary reads only the
// fields it needs.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	CatalogBaseURL  string `yaml:"catalog_base_url"`
	InthubBaseURL   string `yaml:"inthub_base_url"`
	UseInthub2      bool   `yaml:"use_inthub2"`
	ScihubUsername  string `yaml:"scihub_username"`
	ScihubPassword  string `yaml:"scihub_password"`
	Inthub2Username string `yaml:"inthub2_username"`
	Inthub2Password string `yaml:"inthub2_password"`

	EnableDownloading      bool   `yaml:"enable_downloading"`
	UploadBucket           string `yaml:"upload_bucket"`
	MaxDownloadRetries     int    `yaml:"max_download_retries"`
	DownloadWorkerCount    int    `yaml:"download_worker_count"`
	FetchConcurrency       int    `yaml:"fetch_concurrency"`
	AcceptedTileIDsFile    string `yaml:"accepted_tile_ids_filename"`
	SubscriptionRecencyDays int   `yaml:"subscription_recency_days"`

	SubscriptionUsername string `yaml:"subscription_username"`
	SubscriptionPassword string `yaml:"subscription_password"`
	SubscriptionPort      int   `yaml:"subscription_port"`

	LookbackDays int      `yaml:"lookback_days"`
	Platforms    []string `yaml:"platforms"`
}

// Load reads a YAML config file and applies environment variable overrides
// on top of it: YAML provides defaults, env vars override anything
// operational.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxDownloadRetries == 0 {
		cfg.MaxDownloadRetries = 10
	}
	if cfg.DownloadWorkerCount == 0 {
		cfg.DownloadWorkerCount = 15
	}
	if cfg.FetchConcurrency == 0 {
		cfg.FetchConcurrency = 3
	}
	if cfg.SubscriptionRecencyDays == 0 {
		cfg.SubscriptionRecencyDays = 30
	}
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = 5
	}
	if cfg.AcceptedTileIDsFile == "" {
		cfg.AcceptedTileIDsFile = "tiles.txt"
	}
	if cfg.CatalogBaseURL == "" {
		cfg.CatalogBaseURL = "https://catalogue.dataspace.copernicus.eu/odata/v1"
	}
	if cfg.SubscriptionPort == 0 {
		cfg.SubscriptionPort = 8080
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("CATALOG_BASE_URL"); v != "" {
		cfg.CatalogBaseURL = v
	}
	if v := os.Getenv("INTHUB_BASE_URL"); v != "" {
		cfg.InthubBaseURL = v
	}
	if v := os.Getenv("SCIHUB_USERNAME"); v != "" {
		cfg.ScihubUsername = v
	}
	if v := os.Getenv("SCIHUB_PASSWORD"); v != "" {
		cfg.ScihubPassword = v
	}
	if v := os.Getenv("INTHUB2_USERNAME"); v != "" {
		cfg.Inthub2Username = v
	}
	if v := os.Getenv("INTHUB2_PASSWORD"); v != "" {
		cfg.Inthub2Password = v
	}
	if v := os.Getenv("UPLOAD_BUCKET"); v != "" {
		cfg.UploadBucket = v
	}
	if v := os.Getenv("ACCEPTED_TILE_IDS_FILENAME"); v != "" {
		cfg.AcceptedTileIDsFile = v
	}
	if v := os.Getenv("SUBSCRIPTION_USERNAME"); v != "" {
		cfg.SubscriptionUsername = v
	}
	if v := os.Getenv("SUBSCRIPTION_PASSWORD"); v != "" {
		cfg.SubscriptionPassword = v
	}

	cfg.UseInthub2 = getEnvBool("USE_INTHUB2", cfg.UseInthub2)
	cfg.EnableDownloading = getEnvBool("ENABLE_DOWNLOADING", cfg.EnableDownloading)
	cfg.MaxDownloadRetries = getEnvInt("MAX_DOWNLOAD_RETRIES", cfg.MaxDownloadRetries)
	cfg.DownloadWorkerCount = getEnvInt("DOWNLOAD_WORKER_COUNT", cfg.DownloadWorkerCount)
	cfg.FetchConcurrency = getEnvInt("FETCH_CONCURRENCY", cfg.FetchConcurrency)
	cfg.SubscriptionRecencyDays = getEnvInt("SUBSCRIPTION_RECENCY_DAYS", cfg.SubscriptionRecencyDays)
	cfg.SubscriptionPort = getEnvInt("SUBSCRIPTION_PORT", cfg.SubscriptionPort)
	cfg.LookbackDays = getEnvInt("LOOKBACK_DAYS", cfg.LookbackDays)
}

func getEnvInt(key string, defaultVal int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			return val
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			return val
		}
	}
	return defaultVal
}
