package migration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Repository enumerates and rewrites the records of one table.
type Repository interface {
	// Table names the backing table, used for reporting.
	Table() string
	// ListAfter returns up to limit records with an ID greater than after,
	// ordered by ID.
	ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]Record, error)
	// Get loads a single record.
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	// UpdateContent persists the content of every record atomically.
	UpdateContent(ctx context.Context, records []Record) error
}

// NotFoundError is returned when a record cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
