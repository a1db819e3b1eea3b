package port

import (
	"context"

	"github.com/CORAZONPERFECTO/hecho-docs/internal/domain/entity"
)

// EvidenceRepository reads evidence records from the relational store.
// Renderers always re-fetch through this interface immediately before
// layout so stale in-memory descriptions are never rendered.
type EvidenceRepository interface {
	// ListByIDs returns the records for the given IDs ordered by
	// created_at ascending. Unknown IDs are silently omitted.
	ListByIDs(ctx context.Context, ids []int64) ([]entity.EvidenceRecord, error)
	// ListByTicket returns every record for a ticket ordered by
	// created_at ascending; an empty ticket number returns all records.
	ListByTicket(ctx context.Context, ticketNumber string) ([]entity.EvidenceRecord, error)
}

// SettingsRepository reads the single company letterhead row
type SettingsRepository interface {
	GetCompanyInfo(ctx context.Context) (entity.CompanyInfo, error)
}

// ExportRepository records metadata for persisted artifacts
type ExportRepository interface {
	Create(ctx context.Context, rec *entity.ExportRecord) error
	List(ctx context.Context, limit, offset int) ([]entity.ExportRecord, error)
}
