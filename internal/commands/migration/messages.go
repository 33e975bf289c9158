package migrationcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-richtext/internal/runtimeconfig"
	"github.com/google/uuid"
)

const (
	migrateContentMessageType = "richtext.migration.migrate_content"
	migrateRecordMessageType  = "richtext.migration.migrate_record"
)

// MigrateContentCommand converts every stored legacy document of the listed
// targets, table by table.
type MigrateContentCommand struct {
	// Targets lists the tables to migrate, in order.
	Targets []string `json:"targets"`
	// BatchSize overrides the number of records read per batch when positive.
	BatchSize int `json:"batch_size,omitempty"`
	// Workers bounds concurrent conversions inside a batch. Zero uses GOMAXPROCS.
	Workers int `json:"workers,omitempty"`
	// DryRun converts and reports without writing.
	DryRun bool `json:"dry_run,omitempty"`
	// StopOnError aborts at the first failed document.
	StopOnError bool `json:"stop_on_error,omitempty"`
	// ValidateOutput checks converted documents against the editor schema.
	ValidateOutput bool `json:"validate_output,omitempty"`
}

// Type implements command.Message.
func (MigrateContentCommand) Type() string { return migrateContentMessageType }

// Validate ensures targets are known and numeric knobs are not negative.
func (cmd MigrateContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Targets, validation.Required, validation.Each(validation.By(knownTarget))),
		validation.Field(&cmd.BatchSize, validation.Min(0)),
		validation.Field(&cmd.Workers, validation.Min(0)),
	)
}

// MigrateRecordCommand converts a single stored record.
type MigrateRecordCommand struct {
	Target   string    `json:"target"`
	RecordID uuid.UUID `json:"record_id"`
	DryRun   bool      `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (MigrateRecordCommand) Type() string { return migrateRecordMessageType }

// Validate ensures the target is known and a record is selected.
func (cmd MigrateRecordCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Target, validation.Required, validation.By(knownTarget)),
		validation.Field(&cmd.RecordID, validation.By(func(value any) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("richtext.migration.migrate_record.record_id_required", "record id is required")
			}
			return nil
		})),
	)
}

func knownTarget(value any) error {
	target, _ := value.(string)
	if !runtimeconfig.IsKnownTarget(strings.TrimSpace(target)) {
		return validation.NewError("richtext.migration.target_unknown", "unknown migration target")
	}
	return nil
}
