// Package identity holds the user use cases: login, user creation, password
// changes and role assignment under the tenant's role exclusions.
package identity

import (
	"context"

	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// UserService handles user management
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	policies apppolicy.GuardProvider
	rules    apppolicy.RuleRecorder
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, policies apppolicy.GuardProvider) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		policies: policies,
		rules:    apppolicy.NopRuleRecorder(),
	}
}

// SetRuleRecorder sets where rule rejections are counted
func (s *UserService) SetRuleRecorder(recorder apppolicy.RuleRecorder) {
	s.rules = recorder
}

// Create creates a user with its initial roles. The initial role set passes
// the same exclusion check as later assignments.
func (s *UserService) Create(ctx context.Context, actor shared.Actor, req CreateUserRequest) (resp *UserResponse, err error) {
	defer func() { apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, "user.create", err) }()

	exists, err := s.userRepo.ExistsByUsername(ctx, actor.TenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(actor, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	user.Email = req.Email
	user.DisplayName = req.DisplayName

	if len(req.RoleIDs) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, actor.TenantID, req.RoleIDs)
		if err != nil {
			return nil, err
		}
		if len(roles) != len(req.RoleIDs) {
			return nil, shared.NewDomainError("INVALID_ROLE_ID", "One or more roles do not exist")
		}
		guards := s.policies.Guards(ctx, actor.TenantID)
		for i := range roles {
			if err := guards.Roles.CheckAssignment(user.RoleCodes(), roles[i].Code); err != nil {
				return nil, err
			}
			if err := user.AssignRole(&roles[i]); err != nil {
				return nil, err
			}
		}
	}

	if err := s.userRepo.Create(ctx, user, audit.NewMeta(actor)); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword sets a new password. Users change their own password by
// proving the current one; admins may reset anyone's.
func (s *UserService) ChangePassword(ctx context.Context, actor shared.Actor, userID uuid.UUID, req ChangePasswordRequest) error {
	self := actor.UserID == userID
	if !self && !actor.HasRole(identity.RoleCodeAdmin) {
		return shared.NewDomainError("FORBIDDEN", "Only admins can reset another user's password")
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, userID)
	if err != nil {
		return err
	}
	if self && !user.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.SaveWithLock(ctx, user, audit.NewMeta(actor).WithReason("password changed"))
}

// AssignRole adds a role to a user unless the tenant's exclusion map forbids
// combining it with a role the user already holds.
func (s *UserService) AssignRole(ctx context.Context, actor shared.Actor, userID uuid.UUID, req AssignRoleRequest) (resp *UserResponse, err error) {
	defer func() { apppolicy.ObserveRejection(ctx, s.rules, actor.TenantID, "user.assign_role", err) }()

	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByIDForTenant(ctx, actor.TenantID, req.RoleID)
	if err != nil {
		return nil, err
	}

	guards := s.policies.Guards(ctx, actor.TenantID)
	if err := guards.Roles.CheckAssignment(user.RoleCodes(), role.Code); err != nil {
		return nil, err
	}
	if err := user.AssignRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user, audit.NewMeta(actor).WithReason("role assigned").WithReference(role.Code)); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// RemoveRole removes a role from a user
func (s *UserService) RemoveRole(ctx context.Context, actor shared.Actor, userID, roleID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, actor.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if err := user.RemoveRole(roleID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user, audit.NewMeta(actor).WithReason("role removed")); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}
