package richtext

import "github.com/goliatone/go-richtext/internal/runtimeconfig"

var (
	ErrStorageDialectInvalid     = runtimeconfig.ErrStorageDialectInvalid
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrMigrationBatchSizeInvalid = runtimeconfig.ErrMigrationBatchSizeInvalid
	ErrMigrationWorkersInvalid   = runtimeconfig.ErrMigrationWorkersInvalid
	ErrMigrationTargetUnknown    = runtimeconfig.ErrMigrationTargetUnknown
	ErrMigrationTargetsRequired  = runtimeconfig.ErrMigrationTargetsRequired
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigNotFound            = runtimeconfig.ErrConfigNotFound
)

type (
	Config          = runtimeconfig.Config
	StorageConfig   = runtimeconfig.StorageConfig
	MigrationConfig = runtimeconfig.MigrationConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
