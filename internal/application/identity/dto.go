package identity

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginRequest carries credentials for one tenant
type LoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Username string    `json:"username" binding:"required,max=50"`
	Password string    `json:"password" binding:"required,max=72"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	Token *auth.Token   `json:"token"`
	User  *UserResponse `json:"user"`
}

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=50"`
	Password    string      `json:"password" binding:"required,min=8,max=72"`
	Email       string      `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string      `json:"display_name" binding:"max=100"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
}

// ChangePasswordRequest changes a password. CurrentPassword is required
// unless an admin resets another user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"max=72"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// AssignRoleRequest assigns one role to a user
type AssignRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      string(u.Status),
		Roles:       u.RoleCodes(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}
