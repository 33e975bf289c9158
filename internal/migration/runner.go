package migration

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/pkg/interfaces"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of records read per page.
const DefaultBatchSize = 2000

// ErrNoRepositories is returned by Run when the runner has nothing to migrate.
var ErrNoRepositories = errors.New("migration: no repositories configured")

// DocumentConverter converts one stored document. *convert.Converter
// satisfies it.
type DocumentConverter interface {
	Convert(raw map[string]any) (map[string]any, convert.Outcome, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBatchSize sets how many records are read per batch. Non-positive
// values keep the default.
func WithBatchSize(size int) Option {
	return func(r *Runner) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

// WithWorkers bounds how many documents of a batch convert concurrently.
// Zero uses GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(r *Runner) {
		if workers >= 0 {
			r.workers = workers
		}
	}
}

// WithDryRun converts and reports without writing anything back.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// WithStopOnError aborts the run at the first document that fails to
// convert. The batch holding it is not written.
func WithStopOnError(enabled bool) Option {
	return func(r *Runner) {
		r.stopOnError = enabled
	}
}

// WithConverter replaces the document converter.
func WithConverter(converter DocumentConverter) Option {
	return func(r *Runner) {
		if converter != nil {
			r.converter = converter
		}
	}
}

// Runner walks repositories in primary key order and rewrites legacy
// documents batch by batch.
type Runner struct {
	repos       []Repository
	converter   DocumentConverter
	logger      interfaces.Logger
	batchSize   int
	workers     int
	dryRun      bool
	stopOnError bool
}

// NewRunner builds a runner over repos, migrated in the given order.
func NewRunner(repos []Repository, opts ...Option) *Runner {
	r := &Runner{
		repos:     repos,
		converter: convert.NewConverter(),
		logger:    logging.NoOp(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run migrates every repository in order. The summary holds the reports of
// the tables processed so far even when an error is returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	if len(r.repos) == 0 {
		return summary, ErrNoRepositories
	}

	ctx = logging.ContextWithFields(ctx, map[string]any{"run_id": uuid.NewString()})
	started := time.Now()
	for _, repo := range r.repos {
		report, err := r.RunTarget(ctx, repo)
		summary.Reports = append(summary.Reports, report)
		if err != nil {
			return summary, err
		}
	}

	r.logger.WithContext(ctx).Info("migration.run.completed",
		"tables", len(summary.Reports),
		"converted", summary.Count(StatusConverted),
		"failed", summary.Count(StatusFailed),
		"dry_run", r.dryRun,
		"elapsed", time.Since(started),
	)
	return summary, nil
}

// RunTarget migrates a single repository.
func (r *Runner) RunTarget(ctx context.Context, repo Repository) (Report, error) {
	table := repo.Table()
	report := Report{Table: table, DryRun: r.dryRun}
	base := r.logger.WithContext(ctx)
	logger := logging.WithRecordContext(base, table, "", -1)
	logger.Info("migration.table.started", "batch_size", r.batchSize, "workers", r.workerLimit())

	after := uuid.Nil
	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		records, err := repo.ListAfter(ctx, after, r.batchSize)
		if err != nil {
			return report, fmt.Errorf("migration: list %s after %s: %w", table, after, err)
		}
		if len(records) == 0 {
			break
		}
		report.Batches++

		results, err := r.convertBatch(ctx, table, batch, records)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, results...)

		pending := make([]Record, 0, len(records))
		for i, result := range results {
			switch result.Status {
			case StatusConverted:
				pending = append(pending, records[i])
			case StatusFailed:
				logging.WithRecordContext(base, table, result.RecordID.String(), batch).
					Warn("migration.document.failed", "error", result.Err)
				if r.stopOnError {
					return report, fmt.Errorf("migration: %s %s: %w", table, result.RecordID, result.Err)
				}
			}
		}

		if !r.dryRun && len(pending) > 0 {
			if err := repo.UpdateContent(ctx, pending); err != nil {
				return report, fmt.Errorf("migration: write %s batch %d: %w", table, batch, err)
			}
			report.Written += len(pending)
		}

		logging.WithRecordContext(base, table, "", batch).Info("migration.batch.completed",
			"records", len(records),
			"converted", len(pending),
			"written", !r.dryRun && len(pending) > 0,
		)

		after = records[len(records)-1].RecordID()
		if len(records) < r.batchSize {
			break
		}
	}

	logger.Info("migration.table.completed",
		"batches", report.Batches,
		"written", report.Written,
		"failed", report.Count(StatusFailed),
	)
	return report, nil
}

// MigrateRecord converts and stores a single record.
func (r *Runner) MigrateRecord(ctx context.Context, repo Repository, id uuid.UUID) (DocumentResult, error) {
	record, err := repo.Get(ctx, id)
	if err != nil {
		return DocumentResult{Table: repo.Table(), RecordID: id, Status: StatusFailed, Err: err}, err
	}
	result := r.convertRecord(repo.Table(), 0, record)
	if result.Status == StatusFailed {
		return result, result.Err
	}
	if result.Status == StatusConverted && !r.dryRun {
		if err := repo.UpdateContent(ctx, []Record{record}); err != nil {
			return result, fmt.Errorf("migration: write %s %s: %w", repo.Table(), id, err)
		}
	}
	return result, nil
}

func (r *Runner) convertBatch(ctx context.Context, table string, batch int, records []Record) ([]DocumentResult, error) {
	results := make([]DocumentResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workerLimit())
	for i, record := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.convertRecord(table, batch, record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// convertRecord updates record in place when its document was converted.
func (r *Runner) convertRecord(table string, batch int, record Record) DocumentResult {
	result := DocumentResult{Table: table, RecordID: record.RecordID(), Batch: batch}

	content := record.Content()
	if len(content) == 0 {
		result.Status = StatusEmpty
		return result
	}

	out, outcome, err := r.converter.Convert(content)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	switch outcome {
	case convert.OutcomeConverted:
		record.SetContent(out)
		result.Status = StatusConverted
	case convert.OutcomeNotLegacy:
		result.Status = StatusNotLegacy
	default:
		result.Status = StatusUnchanged
	}
	return result
}

func (r *Runner) workerLimit() int {
	if r.workers > 0 {
		return r.workers
	}
	return runtime.GOMAXPROCS(0)
}
