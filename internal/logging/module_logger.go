package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	rootModule      = "richtext"
	convertModule   = "richtext.convert"
	migrationModule = "richtext.migration"
	storageModule   = "richtext.storage"
)

const (
	fieldTable  = "table"
	fieldRecord = "record_id"
	fieldBatch  = "batch"
)

// ModuleLogger returns the provider's logger for module, tagged with a
// "module" field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// ConvertLogger returns the logger used around single document conversion.
func ConvertLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, convertModule)
}

// MigrationLogger returns the logger used by the batch runner.
func MigrationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, migrationModule)
}

// StorageLogger returns the logger used when opening databases.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithRecordContext adds table, record and batch fields. Empty values are
// skipped; a negative batch is treated as unknown.
func WithRecordContext(logger interfaces.Logger, table, recordID string, batch int) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(table); trimmed != "" {
		fields[fieldTable] = trimmed
	}
	if trimmed := strings.TrimSpace(recordID); trimmed != "" {
		fields[fieldRecord] = trimmed
	}
	if batch >= 0 {
		fields[fieldBatch] = batch
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
