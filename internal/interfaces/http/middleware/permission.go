package middleware

import (
	"net/http"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission lets the request through when the token carries any of
// the permissions. Holders of the admin role pass every check.
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized, dto.ErrorTypeAuthentication, "Authentication required", c.GetString(RequestIDKey)))
			return
		}

		actor, _ := GetActor(c)
		if actor.HasRole(identity.RoleCodeAdmin) || claims.HasAnyPermission(permissions...) {
			c.Next()
			return
		}

		logger.L(c.Request.Context()).Info("Permission denied",
			zap.Strings("required_any", permissions),
			zap.String("path", c.FullPath()),
		)
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.ErrCodeForbidden, dto.ErrorTypeAuthentication, "Permission denied", c.GetString(RequestIDKey)))
	}
}
