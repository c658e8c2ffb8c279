package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
)

// Well-known role codes used by the business rules
const (
	RoleCodeAdmin          = "admin"
	RoleCodeBookingOfficer = "booking_officer"
	RoleCodeCashier        = "cashier"
	RoleCodeApprover       = shared.RoleApprover
)

var (
	roleCodeRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)
	permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Permission is a functional permission in resource:action form, e.g. "sales_order:approve"
type Permission struct {
	Resource string
	Action   string
}

// ParsePermission parses a "resource:action" code
func ParsePermission(code string) (Permission, error) {
	resource, action, ok := strings.Cut(strings.ToLower(strings.TrimSpace(code)), ":")
	if !ok || !permissionPartRegex.MatchString(resource) || !permissionPartRegex.MatchString(action) {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return Permission{Resource: resource, Action: action}, nil
}

// Code returns the permission in resource:action form
func (p Permission) Code() string {
	return p.Resource + ":" + p.Action
}

// Role is a named set of permissions within a tenant
type Role struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	Permissions []Permission
}

// NewRole creates a role with a lowercase snake_case code
func NewRole(actor shared.Actor, code, name string) (*Role, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !roleCodeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_ROLE_CODE", "Role code must be 2-50 lowercase letters, digits or underscores")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}

	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Code:                code,
		Name:                name,
	}, nil
}

// GrantPermission adds a permission if the role does not have it yet
func (r *Role) GrantPermission(code string) error {
	perm, err := ParsePermission(code)
	if err != nil {
		return err
	}
	if r.HasPermission(perm.Code()) {
		return nil
	}
	r.Permissions = append(r.Permissions, perm)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// HasPermission checks for a permission code
func (r *Role) HasPermission(code string) bool {
	return slices.ContainsFunc(r.Permissions, func(p Permission) bool {
		return p.Code() == code
	})
}

// PermissionCodes returns the permission codes of the role
func (r *Role) PermissionCodes() []string {
	codes := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		codes[i] = p.Code()
	}
	return codes
}
