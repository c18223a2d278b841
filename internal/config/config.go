package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	DBPath          string           `json:"db_path"`
	Port            int              `json:"port"`
	LogConfig       logger.LogConfig `json:"log_config"`
	Fetch           FetchConfig      `json:"fetch"`
	CORSAllowlist   []string         `json:"cors_allowlist"`
	Cleanup         CleanupConfig    `json:"cleanup"`
	OriginCacheSize int              `json:"origin_cache_size"`
}

type FetchConfig struct {
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	MaxBodyKB      int    `json:"max_body_kb"`
}

type CleanupConfig struct {
	JobMaxAgeHours int    `json:"job_max_age_hours"`
	Cron           string `json:"cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Fetch.TimeoutSeconds <= 0 {
		cfg.Fetch.TimeoutSeconds = 20
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "readlater/1.0"
	}
	if cfg.Cleanup.JobMaxAgeHours <= 0 {
		cfg.Cleanup.JobMaxAgeHours = 168
	}
	if cfg.Cleanup.Cron == "" {
		cfg.Cleanup.Cron = "0 3 * * *"
	}
	return &cfg, nil
}
