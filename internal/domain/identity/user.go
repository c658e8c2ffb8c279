package identity

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// bcryptCost is a variable so tests can lower it
var bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{2,49}$`)

// RoleAssignment links a user to a role. Users and roles are many-to-many.
type RoleAssignment struct {
	RoleID uuid.UUID
	Code   string
}

// User is the aggregate root for an operator of the system
type User struct {
	shared.TenantAggregateRoot
	Username          string
	Email             string
	DisplayName       string
	PasswordHash      string
	Status            UserStatus
	Roles             []RoleAssignment
	PasswordChangedAt *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(actor shared.Actor, username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRegex.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of letters, digits, '.', '_' or '-'")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(actor),
		Username:            username,
		PasswordHash:        hash,
		Status:              UserStatusActive,
		PasswordChangedAt:   &now,
	}, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.touch(now)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AssignRole assigns a role. Exclusion rules are checked by the caller
// because they are tenant configuration.
func (u *User) AssignRole(role *Role) error {
	if role == nil || role.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROLE_ID", "Role cannot be empty")
	}
	if u.HasRoleID(role.ID) {
		return shared.NewDomainError("ROLE_ALREADY_ASSIGNED", "User already has this role")
	}
	u.Roles = append(u.Roles, RoleAssignment{RoleID: role.ID, Code: role.Code})
	u.touch(time.Now())
	return nil
}

// RemoveRole removes a role assignment
func (u *User) RemoveRole(roleID uuid.UUID) error {
	idx := slices.IndexFunc(u.Roles, func(r RoleAssignment) bool { return r.RoleID == roleID })
	if idx < 0 {
		return shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not have this role")
	}
	u.Roles = slices.Delete(u.Roles, idx, idx+1)
	u.touch(time.Now())
	return nil
}

// HasRoleID checks if user has a specific role
func (u *User) HasRoleID(roleID uuid.UUID) bool {
	return slices.ContainsFunc(u.Roles, func(r RoleAssignment) bool { return r.RoleID == roleID })
}

// RoleCodes returns the codes of all assigned roles
func (u *User) RoleCodes() []string {
	codes := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		codes[i] = r.Code
	}
	return codes
}

// RoleIDs returns the ids of all assigned roles
func (u *User) RoleIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(u.Roles))
	for i, r := range u.Roles {
		ids[i] = r.RoleID
	}
	return ids
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.touch(time.Now())
	return nil
}

// IsActive returns true if the user can act
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) touch(at time.Time) {
	u.UpdatedAt = at
	u.IncrementVersion()
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
