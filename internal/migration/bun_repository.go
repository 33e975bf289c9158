package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// contentRecord is satisfied by the bun models carrying content_json.
type contentRecord interface {
	Record
	setID(uuid.UUID)
	touch(time.Time)
}

func (p *Page) setID(id uuid.UUID)             { p.ID = id }
func (p *Page) touch(now time.Time)            { p.UpdatedAt = now }
func (t *PageTranslation) setID(id uuid.UUID)  { t.ID = id }
func (t *PageTranslation) touch(now time.Time) { t.UpdatedAt = now }

// BunRepository reads content through go-repository-bun and writes it back
// in a single bun transaction per batch.
type BunRepository[T contentRecord] struct {
	db    *bun.DB
	repo  repository.Repository[T]
	table string
	clock func() time.Time
}

// NewBunPageRepository binds the pages table.
func NewBunPageRepository(db *bun.DB) *BunRepository[*Page] {
	return newBunRepository(db, "pages", func() *Page { return &Page{} })
}

// NewBunPageTranslationRepository binds the page_translations table.
func NewBunPageTranslationRepository(db *bun.DB) *BunRepository[*PageTranslation] {
	return newBunRepository(db, "page_translations", func() *PageTranslation { return &PageTranslation{} })
}

func newBunRepository[T contentRecord](db *bun.DB, table string, newRecord func() T) *BunRepository[T] {
	return &BunRepository[T]{
		db:    db,
		table: table,
		clock: time.Now,
		repo: repository.MustNewRepository(db, repository.ModelHandlers[T]{
			NewRecord:          newRecord,
			GetID:              func(record T) uuid.UUID { return record.RecordID() },
			SetID:              func(record T, id uuid.UUID) { record.setID(id) },
			GetIdentifier:      func() string { return "id" },
			GetIdentifierValue: func(record T) string { return record.RecordID().String() },
		}),
	}
}

var (
	_ Repository = (*BunRepository[*Page])(nil)
	_ Repository = (*BunRepository[*PageTranslation])(nil)
)

func (r *BunRepository[T]) Table() string { return r.table }

func (r *BunRepository[T]) ListAfter(ctx context.Context, after uuid.UUID, limit int) ([]Record, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id > ?", after).OrderExpr("?TableAlias.id ASC")
		}),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, r.table, after.String())
	}
	out := make([]Record, len(records))
	for i, record := range records {
		out[i] = record
	}
	return out, nil
}

func (r *BunRepository[T]) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, r.table, id.String())
	}
	return record, nil
}

func (r *BunRepository[T]) UpdateContent(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	now := r.clock().UTC()
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, record := range records {
			model, ok := record.(T)
			if !ok {
				return fmt.Errorf("%s repository: unexpected record type %T", r.table, record)
			}
			model.touch(now)
			res, err := tx.NewUpdate().
				Model(model).
				Column("content_json", "updated_at").
				WherePK().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("%s repository: update %s: %w", r.table, model.RecordID(), err)
			}
			if affected, err := res.RowsAffected(); err == nil && affected == 0 {
				return &NotFoundError{Resource: r.table, Key: model.RecordID().String()}
			}
		}
		return nil
	})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
