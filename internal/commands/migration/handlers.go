package migrationcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-richtext/internal/commands"
	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/internal/migration"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

const (
	migrateContentOperation = "migration.migrate_content"
	migrateRecordOperation  = "migration.migrate_record"
)

// ErrTargetNotRegistered is returned when a command names a target without a repository.
var ErrTargetNotRegistered = errors.New("migration command: target has no repository")

var (
	_ command.Commander[MigrateContentCommand] = (*MigrateContentHandler)(nil)
	_ command.Commander[MigrateRecordCommand]  = (*MigrateRecordHandler)(nil)
)

// Repositories maps migration targets to their repository.
type Repositories map[string]migration.Repository

func (r Repositories) resolve(targets []string) ([]migration.Repository, error) {
	out := make([]migration.Repository, 0, len(targets))
	for _, target := range targets {
		repo, ok := r[strings.TrimSpace(target)]
		if !ok || repo == nil {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotRegistered, target)
		}
		out = append(out, repo)
	}
	return out, nil
}

// SummaryHook receives the summary of every completed content migration,
// including runs that ended with an error.
type SummaryHook func(ctx context.Context, msg MigrateContentCommand, summary migration.Summary)

// MigrateContentHandler runs the batch migration via the shared command handler foundation.
type MigrateContentHandler struct {
	inner *commands.Handler[MigrateContentCommand]
}

// NewMigrateContentHandler creates a handler bound to repos.
func NewMigrateContentHandler(repos Repositories, logger interfaces.Logger, hook SummaryHook, opts ...commands.HandlerOption[MigrateContentCommand]) *MigrateContentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MigrateContentCommand) error {
		targets, err := repos.resolve(msg.Targets)
		if err != nil {
			return err
		}

		runner := migration.NewRunner(targets,
			migration.WithLogger(baseLogger),
			migration.WithBatchSize(msg.BatchSize),
			migration.WithWorkers(msg.Workers),
			migration.WithDryRun(msg.DryRun),
			migration.WithStopOnError(msg.StopOnError),
			migration.WithConverter(convert.NewConverter(convert.WithSchemaValidation(msg.ValidateOutput))),
		)
		summary, err := runner.Run(ctx)
		if hook != nil {
			hook(ctx, msg, summary)
		}
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"converted_count":  summary.Count(migration.StatusConverted),
			"unchanged_count":  summary.Count(migration.StatusUnchanged),
			"not_legacy_count": summary.Count(migration.StatusNotLegacy),
			"empty_count":      summary.Count(migration.StatusEmpty),
			"failed_count":     summary.Count(migration.StatusFailed),
			"dry_run":          msg.DryRun,
		}).Info("migration.command.migrate_content.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[MigrateContentCommand]{
		commands.WithLogger[MigrateContentCommand](baseLogger),
		commands.WithOperation[MigrateContentCommand](migrateContentOperation),
		commands.WithTimeout[MigrateContentCommand](0),
		commands.WithMessageFields(func(msg MigrateContentCommand) map[string]any {
			fields := map[string]any{
				"targets": strings.Join(msg.Targets, ","),
			}
			if msg.BatchSize > 0 {
				fields["batch_size"] = msg.BatchSize
			}
			if msg.Workers > 0 {
				fields["workers"] = msg.Workers
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.StopOnError {
				fields["stop_on_error"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[MigrateContentCommand].
func (h *MigrateContentHandler) Execute(ctx context.Context, msg MigrateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MigrateRecordHandler converts one record on demand.
type MigrateRecordHandler struct {
	inner *commands.Handler[MigrateRecordCommand]
}

// NewMigrateRecordHandler creates a handler bound to repos.
func NewMigrateRecordHandler(repos Repositories, logger interfaces.Logger, opts ...commands.HandlerOption[MigrateRecordCommand]) *MigrateRecordHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MigrateRecordCommand) error {
		targets, err := repos.resolve([]string{msg.Target})
		if err != nil {
			return err
		}
		runner := migration.NewRunner(targets, migration.WithLogger(baseLogger), migration.WithDryRun(msg.DryRun))
		result, err := runner.MigrateRecord(ctx, targets[0], msg.RecordID)
		if err != nil {
			return err
		}
		logging.WithRecordContext(baseLogger, msg.Target, msg.RecordID.String(), -1).
			Info("migration.command.migrate_record.completed", "status", string(result.Status), "dry_run", msg.DryRun)
		return nil
	}

	handlerOpts := []commands.HandlerOption[MigrateRecordCommand]{
		commands.WithLogger[MigrateRecordCommand](baseLogger),
		commands.WithOperation[MigrateRecordCommand](migrateRecordOperation),
		commands.WithMessageFields(func(msg MigrateRecordCommand) map[string]any {
			return map[string]any{
				"target":    msg.Target,
				"record_id": msg.RecordID.String(),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateRecordCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MigrateRecordHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[MigrateRecordCommand].
func (h *MigrateRecordHandler) Execute(ctx context.Context, msg MigrateRecordCommand) error {
	return h.inner.Execute(ctx, msg)
}
