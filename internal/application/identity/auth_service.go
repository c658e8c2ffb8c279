package identity

import (
	"context"
	"errors"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(input auth.GenerateTokenInput) (*auth.Token, error)
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates a user and returns an access token carrying the
// user's role codes and the permissions those roles grant.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.TenantID, req.Username)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Info("Login failed: unknown user", zap.String("username", req.Username))
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Info("Login failed: bad password", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	var permissions []string
	if ids := user.RoleIDs(); len(ids) > 0 {
		roles, err := s.roleRepo.FindByIDs(ctx, user.TenantID, ids)
		if err != nil {
			return nil, err
		}
		for _, role := range roles {
			permissions = append(permissions, role.PermissionCodes()...)
		}
	}

	token, err := s.tokens.GenerateToken(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       user.RoleCodes(),
		Permissions: permissions,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("tenant_id", user.TenantID.String()))
	return &LoginResponse{Token: token, User: ToUserResponse(user)}, nil
}
