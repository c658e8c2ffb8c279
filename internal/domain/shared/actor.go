package shared

import (
	"slices"

	"github.com/google/uuid"
)

// Actor identifies who performs an operation and on behalf of which tenant.
// It is passed explicitly to services, guards and the audit trail.
type Actor struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Roles     []string
	IPAddress string
	UserAgent string
}

// NewActor creates an actor for a user acting within a tenant
func NewActor(tenantID, userID uuid.UUID, roles ...string) Actor {
	return Actor{
		TenantID: tenantID,
		UserID:   userID,
		Roles:    roles,
	}
}

// SystemActor returns an actor for background work with no user attached
func SystemActor(tenantID uuid.UUID) Actor {
	return Actor{TenantID: tenantID}
}

// HasRole reports whether the actor holds the role code
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// IsSystem reports whether no user is attached
func (a Actor) IsSystem() bool {
	return a.UserID == uuid.Nil
}

// UserRef returns the user id as a pointer, nil for system actors
func (a Actor) UserRef() *uuid.UUID {
	if a.IsSystem() {
		return nil
	}
	id := a.UserID
	return &id
}

// Validate checks that the actor is scoped to a tenant
func (a Actor) Validate() error {
	if a.TenantID == uuid.Nil {
		return NewDomainError("INVALID_ACTOR", "Tenant is required")
	}
	return nil
}
