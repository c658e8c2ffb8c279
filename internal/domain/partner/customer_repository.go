package partner

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence.
// Every write is mirrored into the audit log within the same transaction.
type CustomerRepository interface {
	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate loads a customer and holds a row lock until the
	// surrounding transaction ends. Credit usage checks and updates go through this.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)

	// FindAllForTenant finds all customers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// CountForTenant counts customers for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a customer code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer, meta audit.Meta) error

	// SaveWithLock saves a customer with optimistic locking (version check).
	// Returns shared.ErrOptimisticLock if the stored version moved on.
	SaveWithLock(ctx context.Context, customer *Customer, meta audit.Meta) error

	// DeleteForTenant soft-deletes a customer
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID, meta audit.Meta) error
}
