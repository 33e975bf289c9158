package migration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/migration"
	"github.com/google/uuid"
)

func seedPages() *migration.MemoryRepository {
	return migration.NewMemoryRepository("pages",
		&migration.Page{ID: seqID(1), ContentJSON: legacyDoc("one")},
		&migration.Page{ID: seqID(2), ContentJSON: nil},
		&migration.Page{ID: seqID(3), ContentJSON: editorDoc("already")},
		&migration.Page{ID: seqID(4), ContentJSON: brokenDoc()},
		&migration.Page{ID: seqID(5), ContentJSON: legacyDoc("five")},
	)
}

func statusByID(report migration.Report) map[uuid.UUID]migration.Status {
	out := make(map[uuid.UUID]migration.Status, len(report.Results))
	for _, result := range report.Results {
		out[result.RecordID] = result.Status
	}
	return out
}

func TestRunnerConvertsInBatches(t *testing.T) {
	repo := seedPages()
	runner := migration.NewRunner([]migration.Repository{repo},
		migration.WithBatchSize(2),
		migration.WithWorkers(2),
	)

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(summary.Reports) != 1 {
		t.Fatalf("expected one report, got %d", len(summary.Reports))
	}
	report := summary.Reports[0]
	if report.Batches != 3 {
		t.Fatalf("expected 3 batches, got %d", report.Batches)
	}
	if report.Written != 2 {
		t.Fatalf("expected 2 written records, got %d", report.Written)
	}

	want := map[uuid.UUID]migration.Status{
		seqID(1): migration.StatusConverted,
		seqID(2): migration.StatusEmpty,
		seqID(3): migration.StatusNotLegacy,
		seqID(4): migration.StatusFailed,
		seqID(5): migration.StatusConverted,
	}
	got := statusByID(report)
	for id, status := range want {
		if got[id] != status {
			t.Fatalf("record %s: expected %s, got %s", id, status, got[id])
		}
	}

	failures := report.Failures()
	if len(failures) != 1 || !errors.Is(failures[0].Err, convert.ErrUnknownHeaderLevel) {
		t.Fatalf("expected header level failure, got %+v", failures)
	}

	converted, _ := repo.Content(seqID(5))
	if firstText(converted) != "five" {
		t.Fatalf("expected converted paragraph, got %v", converted)
	}
	broken, _ := repo.Content(seqID(4))
	if _, ok := broken["entityMap"]; !ok {
		t.Fatal("failed document must not be rewritten")
	}
}

func TestRunnerIsIdempotent(t *testing.T) {
	repo := seedPages()
	runner := migration.NewRunner([]migration.Repository{repo})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := repo.Content(seqID(1))

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Count(migration.StatusConverted) != 0 {
		t.Fatalf("expected nothing to convert on rerun, got %d", summary.Count(migration.StatusConverted))
	}
	second, _ := repo.Content(seqID(1))
	if firstText(first) != firstText(second) {
		t.Fatalf("rerun changed content: %v vs %v", first, second)
	}
}

func TestRunnerDryRunDoesNotWrite(t *testing.T) {
	repo := seedPages()
	runner := migration.NewRunner([]migration.Repository{repo}, migration.WithDryRun(true))

	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Count(migration.StatusConverted) != 2 {
		t.Fatalf("expected 2 convertible records, got %d", summary.Count(migration.StatusConverted))
	}
	if !summary.Reports[0].DryRun || summary.Reports[0].Written != 0 {
		t.Fatalf("unexpected dry run report %+v", summary.Reports[0])
	}
	if repo.Updates() != 0 {
		t.Fatalf("dry run wrote %d batches", repo.Updates())
	}
}

func TestRunnerStopOnError(t *testing.T) {
	repo := seedPages()
	runner := migration.NewRunner([]migration.Repository{repo},
		migration.WithBatchSize(5),
		migration.WithStopOnError(true),
	)

	_, err := runner.Run(context.Background())
	if !errors.Is(err, convert.ErrUnknownHeaderLevel) {
		t.Fatalf("expected ErrUnknownHeaderLevel, got %v", err)
	}
	if repo.Updates() != 0 {
		t.Fatal("batch holding the failure must not be written")
	}
}

func TestRunnerMigratesTargetsInOrder(t *testing.T) {
	pages := migration.NewMemoryRepository("pages", &migration.Page{ID: seqID(1), ContentJSON: legacyDoc("page")})
	translations := migration.NewMemoryRepository("page_translations", &migration.Page{ID: seqID(1), ContentJSON: legacyDoc("seite")})

	summary, err := migration.NewRunner([]migration.Repository{pages, translations}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(summary.Reports) != 2 || summary.Reports[0].Table != "pages" || summary.Reports[1].Table != "page_translations" {
		t.Fatalf("unexpected reports %+v", summary.Reports)
	}
	translated, _ := translations.Content(seqID(1))
	if firstText(translated) != "seite" {
		t.Fatalf("expected translated content, got %v", translated)
	}
}

func TestRunnerWithoutRepositories(t *testing.T) {
	if _, err := migration.NewRunner(nil).Run(context.Background()); !errors.Is(err, migration.ErrNoRepositories) {
		t.Fatalf("expected ErrNoRepositories, got %v", err)
	}
}

func TestRunnerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := seedPages()
	if _, err := migration.NewRunner([]migration.Repository{repo}).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.Updates() != 0 {
		t.Fatal("cancelled run must not write")
	}
}

func TestRunnerValidatingConverter(t *testing.T) {
	repo := migration.NewMemoryRepository("pages", &migration.Page{ID: seqID(1), ContentJSON: legacyDoc("checked")})
	runner := migration.NewRunner([]migration.Repository{repo},
		migration.WithConverter(convert.NewConverter(convert.WithSchemaValidation(true))),
	)
	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Count(migration.StatusConverted) != 1 {
		t.Fatalf("expected one validated conversion, got %+v", summary)
	}
}

func TestMigrateRecord(t *testing.T) {
	repo := seedPages()
	runner := migration.NewRunner(nil)
	ctx := context.Background()

	result, err := runner.MigrateRecord(ctx, repo, seqID(5))
	if err != nil {
		t.Fatalf("migrate record: %v", err)
	}
	if result.Status != migration.StatusConverted {
		t.Fatalf("expected converted, got %s", result.Status)
	}
	stored, _ := repo.Content(seqID(5))
	if firstText(stored) != "five" {
		t.Fatalf("expected stored conversion, got %v", stored)
	}

	if _, err := runner.MigrateRecord(ctx, repo, seqID(4)); !errors.Is(err, convert.ErrUnknownHeaderLevel) {
		t.Fatalf("expected ErrUnknownHeaderLevel, got %v", err)
	}

	var notFound *migration.NotFoundError
	if _, err := runner.MigrateRecord(ctx, repo, seqID(42)); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
