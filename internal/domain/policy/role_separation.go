package policy

import (
	"slices"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// Violated rule names carried by RoleSeparationViolation
const (
	RuleSelfApproval                = "self_approval"
	RuleBookingCannotCollectPayment = "booking_cannot_collect_payment"
	RuleCashierCannotModify         = "cashier_cannot_modify"
	RuleMutuallyExclusiveRoles      = "mutually_exclusive_roles"
)

// SelfApproval is raised when the creator of a document tries to approve it
func SelfApproval() *shared.RoleSeparationViolation {
	return shared.NewRoleSeparationViolation(RuleSelfApproval,
		"You cannot approve a document you created")
}

// ApproverCannotApply is raised when the approver of a change tries to carry
// it out
func ApproverCannotApply() *shared.RoleSeparationViolation {
	return shared.NewRoleSeparationViolation(RuleSelfApproval,
		"You cannot apply a change you approved")
}

// BookingCannotCollectPayment is raised when the booking user tries to collect payment
func BookingCannotCollectPayment() *shared.RoleSeparationViolation {
	return shared.NewRoleSeparationViolation(RuleBookingCannotCollectPayment,
		"The user who booked this order cannot collect its payment")
}

// CashierCannotModify is raised when a cashier tries to change an order
func CashierCannotModify() *shared.RoleSeparationViolation {
	return shared.NewRoleSeparationViolation(RuleCashierCannotModify,
		"Cashiers cannot modify orders")
}

// ExclusiveRoles is raised when two mutually exclusive roles would be combined
func ExclusiveRoles(role, conflicting string) *shared.RoleSeparationViolation {
	return shared.NewRoleSeparationViolation(RuleMutuallyExclusiveRoles,
		"Role "+role+" cannot be combined with role "+conflicting)
}

// Capacity is the part a user plays on a single transaction
type Capacity string

const (
	CapacityBooking    Capacity = "booking"
	CapacityApproval   Capacity = "approval"
	CapacityCollection Capacity = "collection"
)

// Role returns the role code that acts in this capacity
func (c Capacity) Role() string {
	switch c {
	case CapacityBooking:
		return identity.RoleCodeBookingOfficer
	case CapacityApproval:
		return identity.RoleCodeApprover
	case CapacityCollection:
		return identity.RoleCodeCashier
	}
	return ""
}

// RoleSeparationGuard enforces segregation of duties
type RoleSeparationGuard struct {
	exclusions map[string][]string
}

// NewRoleSeparationGuard creates a guard over a role-exclusion map.
// The map is treated as symmetric.
func NewRoleSeparationGuard(exclusions map[string][]string) *RoleSeparationGuard {
	return &RoleSeparationGuard{exclusions: exclusions}
}

// Excludes reports whether roles a and b may not be held or exercised together
func (g *RoleSeparationGuard) Excludes(a, b string) bool {
	if a == b {
		return false
	}
	return slices.Contains(g.exclusions[a], b) || slices.Contains(g.exclusions[b], a)
}

// CheckApproval fails when the actor created the document
func (g *RoleSeparationGuard) CheckApproval(actor shared.Actor, createdBy *uuid.UUID) error {
	return g.CheckCapacities(actor, CapacityApproval, map[Capacity]*uuid.UUID{
		CapacityBooking: createdBy,
	})
}

// CheckPaymentCollection fails when the actor already acted on the order in
// a capacity that excludes collecting payment, or holds a role excluded with
// the cashier role
func (g *RoleSeparationGuard) CheckPaymentCollection(actor shared.Actor, createdBy, approvedBy *uuid.UUID) error {
	if err := g.CheckCapacities(actor, CapacityCollection, map[Capacity]*uuid.UUID{
		CapacityBooking:  createdBy,
		CapacityApproval: approvedBy,
	}); err != nil {
		return err
	}
	if actor.IsSystem() {
		return nil
	}
	collector := CapacityCollection.Role()
	for _, held := range actor.Roles {
		if g.Excludes(collector, held) {
			return ExclusiveRoles(collector, held)
		}
	}
	return nil
}

// CheckModification fails when the actor is a cashier
func (g *RoleSeparationGuard) CheckModification(actor shared.Actor) error {
	if actor.HasRole(identity.RoleCodeCashier) {
		return CashierCannotModify()
	}
	return nil
}

// CheckCapacities fails when the actor would act in capacity on a transaction
// where they already acted in an excluded capacity. Approving one's own
// booking is always refused, whatever the exclusion map says.
func (g *RoleSeparationGuard) CheckCapacities(actor shared.Actor, capacity Capacity, exercised map[Capacity]*uuid.UUID) error {
	if actor.IsSystem() {
		return nil
	}
	for _, other := range []Capacity{CapacityBooking, CapacityApproval, CapacityCollection} {
		userID := exercised[other]
		if other == capacity || userID == nil || *userID != actor.UserID {
			continue
		}
		if capacity == CapacityApproval && other == CapacityBooking {
			return SelfApproval()
		}
		if !g.Excludes(capacity.Role(), other.Role()) {
			continue
		}
		if other == CapacityBooking && capacity == CapacityCollection {
			return BookingCannotCollectPayment()
		}
		return ExclusiveRoles(capacity.Role(), other.Role())
	}
	return nil
}

// CheckAssignment fails when newRole is excluded with any role in current
func (g *RoleSeparationGuard) CheckAssignment(current []string, newRole string) error {
	for _, held := range current {
		if g.Excludes(newRole, held) {
			return ExclusiveRoles(newRole, held)
		}
	}
	return nil
}
