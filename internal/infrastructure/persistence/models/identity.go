package models

import (
	"slices"
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User aggregate root.
// Role links live in user_roles and are loaded into Roles by the repository.
type UserModel struct {
	TenantAggregateModel
	Username          string              `gorm:"type:varchar(50);not null"`
	Email             string              `gorm:"type:varchar(200)"`
	DisplayName       string              `gorm:"type:varchar(200)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	PasswordChangedAt *time.Time
	Roles             []UserRoleModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:          m.Username,
		Email:             m.Email,
		DisplayName:       m.DisplayName,
		PasswordHash:      m.PasswordHash,
		Status:            m.Status,
		PasswordChangedAt: m.PasswordChangedAt,
		Roles:             make([]identity.RoleAssignment, len(m.Roles)),
	}
	for i, r := range m.Roles {
		u.Roles[i] = identity.RoleAssignment{RoleID: r.RoleID, Code: r.RoleCode}
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:          u.Username,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		PasswordHash:      u.PasswordHash,
		Status:            u.Status,
		PasswordChangedAt: u.PasswordChangedAt,
		Roles:             make([]UserRoleModel, len(u.Roles)),
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	for i, r := range u.Roles {
		m.Roles[i] = UserRoleModel{UserID: u.ID, RoleID: r.RoleID, TenantID: u.TenantID, RoleCode: r.Code}
	}
	return m
}

// AuditEntityType implements audit.Subject
func (m *UserModel) AuditEntityType() string { return "user" }

// AuditAttributes implements audit.Subject. Roles are recorded as a sorted
// code list so role assignments show up in the diff.
func (m *UserModel) AuditAttributes() map[string]any {
	codes := make([]string, len(m.Roles))
	for i, r := range m.Roles {
		codes[i] = r.RoleCode
	}
	slices.Sort(codes)

	attrs := m.auditColumns()
	attrs["username"] = m.Username
	attrs["email"] = m.Email
	attrs["display_name"] = m.DisplayName
	attrs["password_hash"] = m.PasswordHash
	attrs["status"] = string(m.Status)
	attrs["password_changed_at"] = timeValue(m.PasswordChangedAt)
	attrs["roles"] = strings.Join(codes, ",")
	return attrs
}

// UserRoleModel links a user to a role
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	RoleCode  string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// RoleModel is the persistence model for the Role aggregate root.
// Permissions are stored as comma-separated resource:action codes.
type RoleModel struct {
	TenantAggregateModel
	Code        string `gorm:"type:varchar(50);not null"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Permissions string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role.
// Malformed permission codes are skipped.
func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	for _, code := range strings.Split(m.Permissions, ",") {
		if perm, err := identity.ParsePermission(code); err == nil {
			r.Permissions = append(r.Permissions, perm)
		}
	}
	return r
}

// RoleModelFromDomain creates a persistence model from a domain Role.
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Permissions: strings.Join(r.PermissionCodes(), ","),
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// AuditEntityType implements audit.Subject
func (m *RoleModel) AuditEntityType() string { return "role" }

// AuditAttributes implements audit.Subject
func (m *RoleModel) AuditAttributes() map[string]any {
	attrs := m.auditColumns()
	attrs["code"] = m.Code
	attrs["name"] = m.Name
	attrs["description"] = m.Description
	attrs["permissions"] = m.Permissions
	return attrs
}
