package migrationcmd

import (
	"testing"

	"github.com/google/uuid"
)

func TestMigrateContentCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     MigrateContentCommand
		wantErr bool
	}{
		{name: "valid", cmd: MigrateContentCommand{Targets: []string{"pages", "page_translations"}}},
		{name: "missing targets", cmd: MigrateContentCommand{}, wantErr: true},
		{name: "unknown target", cmd: MigrateContentCommand{Targets: []string{"products"}}, wantErr: true},
		{name: "negative batch size", cmd: MigrateContentCommand{Targets: []string{"pages"}, BatchSize: -1}, wantErr: true},
		{name: "negative workers", cmd: MigrateContentCommand{Targets: []string{"pages"}, Workers: -2}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestMigrateRecordCommandValidate(t *testing.T) {
	if err := (MigrateRecordCommand{Target: "pages", RecordID: uuid.New()}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (MigrateRecordCommand{Target: "pages"}).Validate(); err == nil {
		t.Fatal("expected error for missing record id")
	}
	if err := (MigrateRecordCommand{Target: "menus", RecordID: uuid.New()}).Validate(); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestMessageTypes(t *testing.T) {
	if got := (MigrateContentCommand{}).Type(); got != "richtext.migration.migrate_content" {
		t.Fatalf("unexpected type %q", got)
	}
	if got := (MigrateRecordCommand{}).Type(); got != "richtext.migration.migrate_record" {
		t.Fatalf("unexpected type %q", got)
	}
}
