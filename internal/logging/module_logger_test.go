package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-richtext/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "richtext.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerTagsModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = MigrationLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != migrationModule {
		t.Fatalf("expected module %s, got %v", migrationModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != migrationModule {
		t.Fatalf("expected module field %s, got %v", migrationModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, " ")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithRecordContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithRecordContext(rec, "pages", "", -1)
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0][fieldRecord]; ok {
		t.Fatalf("expected empty record id to be skipped, got %v", rec.fields[0])
	}
	if _, ok := rec.fields[0][fieldBatch]; ok {
		t.Fatalf("expected negative batch to be skipped, got %v", rec.fields[0])
	}
	if rec.fields[0][fieldTable] != "pages" {
		t.Fatalf("expected table field, got %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"run_id": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"batch": 2})

	fields := ContextFields(ctx)
	if fields["run_id"] != "a" || fields["batch"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["run_id"] = "mutated"
	if ContextFields(ctx)["run_id"] != "a" {
		t.Fatal("expected ContextFields to return a copy")
	}
}
