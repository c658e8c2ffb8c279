package identity

import (
	"context"
	"testing"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTenantID = uuid.New()

func adminActor() shared.Actor {
	return shared.NewActor(testTenantID, uuid.New(), identity.RoleCodeAdmin)
}

func newRole(t *testing.T, code string, permissions ...string) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(adminActor(), code, code)
	require.NoError(t, err)
	for _, p := range permissions {
		require.NoError(t, role.GrantPermission(p))
	}
	return role
}

func newUser(t *testing.T, username string, roles ...*identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(adminActor(), username, "correct-horse")
	require.NoError(t, err)
	for _, r := range roles {
		require.NoError(t, user.AssignRole(r))
	}
	return user
}

func newUserService() (*UserService, *MockUserRepository, *MockRoleRepository) {
	users := new(MockUserRepository)
	roles := new(MockRoleRepository)
	return NewUserService(users, roles, staticPolicies{policy: policy.DefaultTenantPolicy()}), users, roles
}

func TestUserService_AssignRole(t *testing.T) {
	t.Run("booking officer cannot also be cashier", func(t *testing.T) {
		svc, users, roles := newUserService()
		booking := newRole(t, identity.RoleCodeBookingOfficer)
		cashier := newRole(t, identity.RoleCodeCashier)
		user := newUser(t, "bola", booking)
		users.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
		roles.On("FindByIDForTenant", mock.Anything, testTenantID, cashier.ID).Return(cashier, nil)

		_, err := svc.AssignRole(context.Background(), adminActor(), user.ID, AssignRoleRequest{RoleID: cashier.ID})

		var roleErr *shared.RoleSeparationViolation
		require.ErrorAs(t, err, &roleErr)
		assert.Equal(t, policy.RuleMutuallyExclusiveRoles, roleErr.Rule)
		users.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("compatible role is added", func(t *testing.T) {
		svc, users, roles := newUserService()
		booking := newRole(t, identity.RoleCodeBookingOfficer)
		approver := newRole(t, identity.RoleCodeApprover)
		user := newUser(t, "chidi", booking)
		users.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
		roles.On("FindByIDForTenant", mock.Anything, testTenantID, approver.ID).Return(approver, nil)
		users.On("SaveWithLock", mock.Anything, user, mock.Anything).Return(nil)

		resp, err := svc.AssignRole(context.Background(), adminActor(), user.ID, AssignRoleRequest{RoleID: approver.ID})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{identity.RoleCodeBookingOfficer, identity.RoleCodeApprover}, resp.Roles)
	})
}

func TestUserService_Create(t *testing.T) {
	t.Run("initial roles are checked for exclusions", func(t *testing.T) {
		svc, users, roles := newUserService()
		booking := newRole(t, identity.RoleCodeBookingOfficer)
		cashier := newRole(t, identity.RoleCodeCashier)
		ids := []uuid.UUID{booking.ID, cashier.ID}
		users.On("ExistsByUsername", mock.Anything, testTenantID, "dayo").Return(false, nil)
		roles.On("FindByIDs", mock.Anything, testTenantID, ids).Return([]identity.Role{*booking, *cashier}, nil)

		_, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{
			Username: "dayo", Password: "long-enough", RoleIDs: ids,
		})

		var roleErr *shared.RoleSeparationViolation
		require.ErrorAs(t, err, &roleErr)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("taken username", func(t *testing.T) {
		svc, users, _ := newUserService()
		users.On("ExistsByUsername", mock.Anything, testTenantID, "dayo").Return(true, nil)

		_, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{Username: "dayo", Password: "long-enough"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Run("self change needs the current password", func(t *testing.T) {
		svc, users, _ := newUserService()
		user := newUser(t, "efe")
		self := shared.NewActor(testTenantID, user.ID)
		users.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		err := svc.ChangePassword(context.Background(), self, user.ID, ChangePasswordRequest{
			CurrentPassword: "wrong-password", NewPassword: "new-password-1",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
	})

	t.Run("non-admin cannot reset others", func(t *testing.T) {
		svc, _, _ := newUserService()
		other := shared.NewActor(testTenantID, uuid.New(), identity.RoleCodeCashier)

		err := svc.ChangePassword(context.Background(), other, uuid.New(), ChangePasswordRequest{NewPassword: "new-password-1"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})

	t.Run("admin reset", func(t *testing.T) {
		svc, users, _ := newUserService()
		user := newUser(t, "funke")
		users.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
		users.On("SaveWithLock", mock.Anything, user, mock.Anything).Return(nil)

		require.NoError(t, svc.ChangePassword(context.Background(), adminActor(), user.ID, ChangePasswordRequest{NewPassword: "new-password-1"}))
		assert.True(t, user.VerifyPassword("new-password-1"))
	})
}

func TestAuthService_Login(t *testing.T) {
	booking := newRole(t, identity.RoleCodeBookingOfficer, "sales_order:create")
	user := newUser(t, "gbenga", booking)

	t.Run("issues a token with roles and permissions", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		tokens := new(MockTokenIssuer)
		users.On("FindByUsername", mock.Anything, testTenantID, "gbenga").Return(user, nil)
		roles.On("FindByIDs", mock.Anything, user.TenantID, user.RoleIDs()).Return([]identity.Role{*booking}, nil)
		tokens.On("GenerateToken", mock.MatchedBy(func(in auth.GenerateTokenInput) bool {
			return in.UserID == user.ID &&
				assert.ObjectsAreEqual([]string{identity.RoleCodeBookingOfficer}, in.Roles) &&
				assert.ObjectsAreEqual([]string{"sales_order:create"}, in.Permissions)
		})).Return(&auth.Token{AccessToken: "signed", TokenType: "Bearer"}, nil)

		svc := NewAuthService(users, roles, tokens, zap.NewNop())
		resp, err := svc.Login(context.Background(), LoginRequest{TenantID: testTenantID, Username: "gbenga", Password: "correct-horse"})

		require.NoError(t, err)
		assert.Equal(t, "signed", resp.Token.AccessToken)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByUsername", mock.Anything, testTenantID, "gbenga").Return(user, nil)
		users.On("FindByUsername", mock.Anything, testTenantID, "nobody").Return(nil, shared.ErrNotFound)
		svc := NewAuthService(users, new(MockRoleRepository), new(MockTokenIssuer), zap.NewNop())

		_, errBadPassword := svc.Login(context.Background(), LoginRequest{TenantID: testTenantID, Username: "gbenga", Password: "nope-nope"})
		_, errUnknown := svc.Login(context.Background(), LoginRequest{TenantID: testTenantID, Username: "nobody", Password: "nope-nope"})

		assert.Equal(t, errBadPassword, errUnknown)
		var domainErr *shared.DomainError
		require.ErrorAs(t, errUnknown, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}
