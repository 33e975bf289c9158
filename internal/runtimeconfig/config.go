package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageDialectInvalid = errors.New("richtext config: storage dialect is invalid")
var ErrStorageDSNRequired = errors.New("richtext config: storage dsn is required")
var ErrMigrationBatchSizeInvalid = errors.New("richtext config: migration batch size must be positive")
var ErrMigrationWorkersInvalid = errors.New("richtext config: migration workers must be zero or positive")
var ErrMigrationTargetUnknown = errors.New("richtext config: migration target is unknown")
var ErrMigrationTargetsRequired = errors.New("richtext config: at least one migration target is required")
var ErrLoggingProviderRequired = errors.New("richtext config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("richtext config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("richtext config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("richtext config: logging format is invalid")

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Migration targets name the tables holding legacy content.
const (
	TargetPages            = "pages"
	TargetPageTranslations = "page_translations"
)

// DefaultBatchSize matches the batch size of the original data migration.
const DefaultBatchSize = 2000

// Config aggregates storage, migration and logging settings.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Migration MigrationConfig `yaml:"migration"`
	Logging   LoggingConfig   `yaml:"logging"`
	Features  Features        `yaml:"features"`
}

// StorageConfig selects the bun dialect and connection string.
type StorageConfig struct {
	Dialect      string `yaml:"dialect"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	CreateTables bool   `yaml:"create_tables"`
}

// MigrationConfig controls the batch conversion run.
type MigrationConfig struct {
	Targets        []string      `yaml:"targets"`
	BatchSize      int           `yaml:"batch_size"`
	Workers        int           `yaml:"workers"`
	DryRun         bool          `yaml:"dry_run"`
	StopOnError    bool          `yaml:"stop_on_error"`
	ValidateOutput bool          `yaml:"validate_output"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig converts both tables of a local sqlite database.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Dialect:      DialectSQLite,
			DSN:          "file:richtext.db?cache=shared",
			MaxOpenConns: 1,
		},
		Migration: MigrationConfig{
			Targets:   []string{TargetPages, TargetPageTranslations},
			BatchSize: DefaultBatchSize,
			Workers:   0,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Dialect) {
	case DialectSQLite, DialectPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrStorageDialectInvalid, cfg.Storage.Dialect)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Migration.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrMigrationBatchSizeInvalid, cfg.Migration.BatchSize)
	}
	if cfg.Migration.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrMigrationWorkersInvalid, cfg.Migration.Workers)
	}
	if len(cfg.Migration.Targets) == 0 {
		return ErrMigrationTargetsRequired
	}
	for _, target := range cfg.Migration.Targets {
		if !IsKnownTarget(target) {
			return fmt.Errorf("%w: %s", ErrMigrationTargetUnknown, target)
		}
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// IsKnownTarget reports whether target names a table the runner can migrate.
func IsKnownTarget(target string) bool {
	switch normalize(target) {
	case TargetPages, TargetPageTranslations:
		return true
	default:
		return false
	}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
