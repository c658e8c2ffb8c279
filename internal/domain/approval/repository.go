package approval

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/google/uuid"
)

// RequestRepository defines the interface for approval request persistence
type RequestRepository interface {
	// FindByIDForTenant finds a request by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Request, error)

	// FindLatestForDocument returns the most recent request for a document, or shared.ErrNotFound
	FindLatestForDocument(ctx context.Context, tenantID uuid.UUID, kind policy.DocumentKind, referenceID uuid.UUID) (*Request, error)

	// Create inserts a new request
	Create(ctx context.Context, req *Request, meta audit.Meta) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, req *Request, meta audit.Meta) error
}
