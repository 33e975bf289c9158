package migration

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository builds an in-memory repository seeded with records.
// Stored content is deep-copied so callers cannot mutate it.
func NewMemoryRepository(table string, records ...Record) *MemoryRepository {
	repo := &MemoryRepository{
		table:   table,
		content: make(map[uuid.UUID]map[string]any, len(records)),
	}
	for _, record := range records {
		repo.content[record.RecordID()] = cloneContent(record.Content())
	}
	return repo
}

// MemoryRepository keeps content by record ID. Records it returns are Pages.
type MemoryRepository struct {
	mu      sync.RWMutex
	table   string
	content map[uuid.UUID]map[string]any
	updates int
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Table() string { return m.table }

func (m *MemoryRepository) ListAfter(_ context.Context, after uuid.UUID, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(m.content))
	for id := range m.content {
		if bytes.Compare(id[:], after[:]) > 0 {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Page{ID: id, ContentJSON: cloneContent(m.content[id])})
	}
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, id uuid.UUID) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.content[id]
	if !ok {
		return nil, &NotFoundError{Resource: m.table, Key: id.String()}
	}
	return &Page{ID: id, ContentJSON: cloneContent(content)}, nil
}

func (m *MemoryRepository) UpdateContent(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range records {
		if _, ok := m.content[record.RecordID()]; !ok {
			return &NotFoundError{Resource: m.table, Key: record.RecordID().String()}
		}
	}
	for _, record := range records {
		m.content[record.RecordID()] = cloneContent(record.Content())
	}
	m.updates++
	return nil
}

// Content returns a copy of the stored document for id.
func (m *MemoryRepository) Content(id uuid.UUID) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.content[id]
	return cloneContent(content), ok
}

// Updates counts successful UpdateContent calls.
func (m *MemoryRepository) Updates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}

func cloneContent(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneContent(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(typed)
	default:
		return value
	}
}
