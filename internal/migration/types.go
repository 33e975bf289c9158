// Package migration rewrites stored legacy rich-text content in primary key
// batches, converting each document independently.
package migration

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is a stored row carrying a rich-text document.
type Record interface {
	RecordID() uuid.UUID
	Content() map[string]any
	SetContent(map[string]any)
}

// Page is a CMS page with rich-text content.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Title       string         `bun:"title" json:"title"`
	ContentJSON map[string]any `bun:"content_json,type:jsonb" json:"content_json,omitempty"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (p *Page) RecordID() uuid.UUID           { return p.ID }
func (p *Page) Content() map[string]any       { return p.ContentJSON }
func (p *Page) SetContent(doc map[string]any) { p.ContentJSON = doc }

// PageTranslation holds localized content for a page.
type PageTranslation struct {
	bun.BaseModel `bun:"table:page_translations,alias:pt"`

	ID           uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	PageID       uuid.UUID      `bun:"page_id,type:uuid" json:"page_id"`
	LanguageCode string         `bun:"language_code" json:"language_code"`
	ContentJSON  map[string]any `bun:"content_json,type:jsonb" json:"content_json,omitempty"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (t *PageTranslation) RecordID() uuid.UUID           { return t.ID }
func (t *PageTranslation) Content() map[string]any       { return t.ContentJSON }
func (t *PageTranslation) SetContent(doc map[string]any) { t.ContentJSON = doc }

// Status is the per-document result of a run.
type Status string

const (
	StatusConverted Status = "converted"
	// StatusEmpty marks records without content; they are never rewritten.
	StatusEmpty     Status = "empty"
	StatusUnchanged Status = "unchanged"
	StatusNotLegacy Status = "not_legacy"
	StatusFailed    Status = "failed"
)

// DocumentResult reports what happened to one record.
type DocumentResult struct {
	Table    string
	RecordID uuid.UUID
	Batch    int
	Status   Status
	Err      error
}

// Report summarises one table.
type Report struct {
	Table   string
	Batches int
	Written int
	DryRun  bool
	Results []DocumentResult
}

// Count returns how many documents ended with status.
func (r Report) Count(status Status) int {
	n := 0
	for _, result := range r.Results {
		if result.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed documents.
func (r Report) Failures() []DocumentResult {
	var out []DocumentResult
	for _, result := range r.Results {
		if result.Status == StatusFailed {
			out = append(out, result)
		}
	}
	return out
}

// Summary collects the reports of a run in target order.
type Summary struct {
	Reports []Report
}

// Count sums Report.Count over every table.
func (s Summary) Count(status Status) int {
	n := 0
	for _, report := range s.Reports {
		n += report.Count(status)
	}
	return n
}
