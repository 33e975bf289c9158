package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-richtext/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown dialect",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Dialect = "mysql" },
			want:   runtimeconfig.ErrStorageDialectInvalid,
		},
		{
			name:   "missing dsn",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.DSN = " " },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name:   "zero batch size",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Migration.BatchSize = 0 },
			want:   runtimeconfig.ErrMigrationBatchSizeInvalid,
		},
		{
			name:   "negative workers",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Migration.Workers = -1 },
			want:   runtimeconfig.ErrMigrationWorkersInvalid,
		},
		{
			name:   "no targets",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Migration.Targets = nil },
			want:   runtimeconfig.ErrMigrationTargetsRequired,
		},
		{
			name:   "unknown target",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Migration.Targets = []string{"products"} },
			want:   runtimeconfig.ErrMigrationTargetUnknown,
		},
		{
			name: "logger without provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Parse([]byte(`
storage:
  dialect: postgres
  dsn: postgres://localhost/shop?sslmode=disable
migration:
  targets: [pages]
  workers: 4
  timeout: 90s
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Storage.Dialect != runtimeconfig.DialectPostgres {
		t.Fatalf("expected postgres dialect, got %q", cfg.Storage.Dialect)
	}
	if cfg.Migration.BatchSize != runtimeconfig.DefaultBatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.Migration.BatchSize)
	}
	if len(cfg.Migration.Targets) != 1 || cfg.Migration.Targets[0] != runtimeconfig.TargetPages {
		t.Fatalf("expected pages target, got %v", cfg.Migration.Targets)
	}
	if cfg.Migration.Workers != 4 || cfg.Migration.Timeout != 90*time.Second {
		t.Fatalf("unexpected migration config %+v", cfg.Migration)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	_, err := runtimeconfig.Parse([]byte("migration:\n  batch_size: -5\n"))
	if !errors.Is(err, runtimeconfig.ErrMigrationBatchSizeInvalid) {
		t.Fatalf("expected ErrMigrationBatchSizeInvalid, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, err := runtimeconfig.Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, runtimeconfig.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	path := filepath.Join(dir, "richtext.yaml")
	if err := os.WriteFile(path, []byte("migration:\n  dry_run: true\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Migration.DryRun {
		t.Fatal("expected dry run to be enabled")
	}
}
