package audit

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository is the append-only store for audit entries.
// Entries are never updated or deleted.
type Repository interface {
	// Create appends one entry
	Create(ctx context.Context, entry *Entry) error

	// CreateBatch appends several entries
	CreateBatch(ctx context.Context, entries []*Entry) error

	// FindByEntity lists entries for one entity, newest first
	FindByEntity(ctx context.Context, tenantID uuid.UUID, entityType string, entityID uuid.UUID, filter shared.Filter) ([]Entry, int64, error)

	// FindByActor lists entries written by one user, newest first
	FindByActor(ctx context.Context, tenantID, actorID uuid.UUID, filter shared.Filter) ([]Entry, int64, error)
}
