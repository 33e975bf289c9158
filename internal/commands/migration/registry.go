package migrationcmd

import (
	"errors"

	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the migration command handlers produced by RegisterMigrationCommands.
type HandlerSet struct {
	MigrateContent *MigrateContentHandler
	MigrateRecord  *MigrateRecordHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	summaryHook SummaryHook
	contentOpts []commands.HandlerOption[MigrateContentCommand]
	recordOpts  []commands.HandlerOption[MigrateRecordCommand]
}

// WithSummaryHook receives each content migration summary.
func WithSummaryHook(hook SummaryHook) Option {
	return func(cfg *options) {
		cfg.summaryHook = hook
	}
}

// WithContentHandlerOptions forwards options to the MigrateContentHandler constructor.
func WithContentHandlerOptions(opts ...commands.HandlerOption[MigrateContentCommand]) Option {
	return func(cfg *options) {
		cfg.contentOpts = append(cfg.contentOpts, opts...)
	}
}

// WithRecordHandlerOptions forwards options to the MigrateRecordHandler constructor.
func WithRecordHandlerOptions(opts ...commands.HandlerOption[MigrateRecordCommand]) Option {
	return func(cfg *options) {
		cfg.recordOpts = append(cfg.recordOpts, opts...)
	}
}

// RegisterMigrationCommands builds the migration handlers and registers them with reg when
// it is not nil.
func RegisterMigrationCommands(reg CommandRegistry, repos Repositories, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if len(repos) == 0 {
		return nil, errors.New("migration command registration: no repositories")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "migration")

	contentHandler := NewMigrateContentHandler(repos, logger, cfg.summaryHook, cfg.contentOpts...)
	recordHandler := NewMigrateRecordHandler(repos, logger, cfg.recordOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(contentHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(recordHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		MigrateContent: contentHandler,
		MigrateRecord:  recordHandler,
	}, nil
}
