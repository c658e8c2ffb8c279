package identity

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
// Role assignments are stored in the user_roles join table.
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	Create(ctx context.Context, user *User, meta audit.Meta) error
	SaveWithLock(ctx context.Context, user *User, meta audit.Meta) error
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Role, error)
	Create(ctx context.Context, role *Role, meta audit.Meta) error
}
