// Package richtext converts legacy Draft.js content into Editor.js documents
// and migrates stored pages in place.
package richtext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-richtext/internal/commands"
	migrationcmd "github.com/goliatone/go-richtext/internal/commands/migration"
	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/draftjs"
	"github.com/goliatone/go-richtext/internal/editorjs"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/logging/console"
	"github.com/goliatone/go-richtext/internal/logging/gologger"
	"github.com/goliatone/go-richtext/internal/markup"
	"github.com/goliatone/go-richtext/internal/migration"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/goliatone/go-richtext/internal/storage"
	"github.com/goliatone/go-richtext/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Conversion errors, usable with errors.Is.
var (
	ErrUnknownStyle       = markup.ErrUnknownStyle
	ErrMissingEntity      = markup.ErrMissingEntity
	ErrInvalidRange       = markup.ErrInvalidRange
	ErrUnknownHeaderLevel = convert.ErrUnknownHeaderLevel
	ErrMalformedBlock     = draftjs.ErrMalformedBlock
	ErrDocumentInvalid    = editorjs.ErrDocumentInvalid
)

// Migration result types.
type (
	Summary        = migration.Summary
	Report         = migration.Report
	DocumentResult = migration.DocumentResult
	Status         = migration.Status
)

// Convert returns the Editor.js form of a decoded legacy document. Documents
// without blocks or not in the legacy shape are returned unchanged.
func Convert(doc map[string]any) (map[string]any, error) {
	out, _, err := convert.Convert(doc)
	return out, err
}

// ConvertJSON is Convert over encoded JSON. Numbers are kept as written, so
// documents returned unchanged round-trip without loss.
func ConvertJSON(data []byte) ([]byte, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	out, err := Convert(doc)
	if err != nil {
		return nil, err
	}
	return EncodeDocument(out)
}

// DecodeDocument decodes a JSON object, keeping numbers as json.Number.
func DecodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("richtext: decode document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("richtext: decode document: trailing data")
	}
	return doc, nil
}

// EncodeDocument encodes doc without escaping the inline markup.
func EncodeDocument(doc map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("richtext: encode document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Option customises New.
type Option func(*Module)

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithDB reuses an open database instead of opening Config.Storage.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// Module wires storage, migration commands and logging from a Config.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	db        *bun.DB
	ownsDB    bool
	converter *convert.Converter
	handlers  *migrationcmd.HandlerSet

	mu      sync.Mutex
	summary Summary
}

// New validates cfg and opens storage unless WithDB is supplied.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.provider == nil {
		provider, err := NewLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if m.db == nil {
		db, err := storage.Open(ctx, cfg.Storage, storage.WithLogger(logging.StorageLogger(m.provider)))
		if err != nil {
			return nil, err
		}
		m.db = db
		m.ownsDB = true
	} else if cfg.Storage.CreateTables {
		if err := storage.EnsureTables(ctx, m.db); err != nil {
			return nil, err
		}
	}

	m.converter = convert.NewConverter(convert.WithSchemaValidation(cfg.Migration.ValidateOutput))

	handlers, err := migrationcmd.RegisterMigrationCommands(nil, m.Repositories(), m.provider,
		migrationcmd.WithSummaryHook(m.recordSummary),
		migrationcmd.WithContentHandlerOptions(
			commands.WithTimeout[migrationcmd.MigrateContentCommand](cfg.Migration.Timeout),
		),
	)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	m.handlers = handlers
	return m, nil
}

// NewLoggerProvider selects the provider named by cfg.Logging. A disabled
// logger feature yields nil, which every module logger treats as no-op.
func NewLoggerProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "console", "":
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Logging.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
}

// Config returns the validated configuration.
func (m *Module) Config() Config { return m.cfg }

// DB exposes the underlying database.
func (m *Module) DB() *bun.DB { return m.db }

// LoggerProvider returns the provider selected for this module. It is nil
// when logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider { return m.provider }

// Convert runs a single document through the configured converter.
func (m *Module) Convert(doc map[string]any) (map[string]any, error) {
	out, outcome, err := m.converter.Convert(doc)
	if err != nil {
		logging.ConvertLogger(m.provider).Warn("convert.document.failed", "error", err)
		return nil, err
	}
	logging.ConvertLogger(m.provider).Debug("convert.document.completed", "outcome", string(outcome))
	return out, nil
}

// Repositories returns the bun repositories keyed by migration target.
func (m *Module) Repositories() migrationcmd.Repositories {
	return migrationcmd.Repositories{
		runtimeconfig.TargetPages:            migration.NewBunPageRepository(m.db),
		runtimeconfig.TargetPageTranslations: migration.NewBunPageTranslationRepository(m.db),
	}
}

// Commands exposes the migration command handlers.
func (m *Module) Commands() *migrationcmd.HandlerSet { return m.handlers }

// MigrateCommand builds the content migration message from Config.Migration.
func (m *Module) MigrateCommand() migrationcmd.MigrateContentCommand {
	mc := m.cfg.Migration
	return migrationcmd.MigrateContentCommand{
		Targets:        mc.Targets,
		BatchSize:      mc.BatchSize,
		Workers:        mc.Workers,
		DryRun:         mc.DryRun,
		StopOnError:    mc.StopOnError,
		ValidateOutput: mc.ValidateOutput,
	}
}

// Migrate converts every configured target and returns the run summary.
// The summary is returned even when the run fails part way.
func (m *Module) Migrate(ctx context.Context) (Summary, error) {
	err := m.handlers.MigrateContent.Execute(ctx, m.MigrateCommand())
	return m.LastSummary(), err
}

// LastSummary returns the summary of the most recent content migration.
func (m *Module) LastSummary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

func (m *Module) recordSummary(_ context.Context, _ migrationcmd.MigrateContentCommand, summary migration.Summary) {
	m.mu.Lock()
	m.summary = summary
	m.mu.Unlock()
}

// Close releases the database when New opened it.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}
