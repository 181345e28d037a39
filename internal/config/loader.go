package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "creditboard.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "CREDITBOARD_PORT")
	setString(&cfg.Server.CORSOrigin, "CREDITBOARD_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimitBytes, "CREDITBOARD_BODY_LIMIT_BYTES")
	setDuration(&cfg.Server.ShutdownTimeout, "CREDITBOARD_SHUTDOWN_TIMEOUT")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "CREDITBOARD_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "CREDITBOARD_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "CREDITBOARD_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "CREDITBOARD_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "CREDITBOARD_PG_HEALTH_CHECK")
	setString(&cfg.Logging.Level, "CREDITBOARD_LOG_LEVEL")
	setString(&cfg.Logging.Service, "CREDITBOARD_LOG_SERVICE")
	setInt64(&cfg.Cache.MaxSizeMB, "CREDITBOARD_CACHE_SIZE_MB")
	setDuration(&cfg.Board.ArchiveAfter, "CREDITBOARD_ARCHIVE_AFTER")
	setInt(&cfg.Board.ReminderCap, "CREDITBOARD_REMINDER_CAP")
	setDuration(&cfg.Ledger.PollInterval, "CREDITBOARD_LEDGER_POLL_INTERVAL")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Server.BodyLimitBytes < 1 {
		return errors.New("server.body_limit_bytes must be >= 1")
	}
	if cfg.Board.ArchiveAfter < time.Hour {
		return errors.New("board.archive_after must be >= 1h")
	}
	if cfg.Board.ReminderCap < 1 {
		return errors.New("board.reminder_cap must be >= 1")
	}
	if cfg.Ledger.PollInterval < time.Second {
		return errors.New("ledger.poll_interval must be >= 1s")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
