package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/response"
)

// RoleResolver maps a verified email to its stored role. Tokens carry no
// role claim, so authorization always consults the user store.
type RoleResolver interface {
	RoleByEmail(ctx context.Context, email string) (models.UserRole, error)
}

// RequireRoles enforces role-based access control for routes.
func RequireRoles(resolver RoleResolver, allowed ...models.UserRole) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedRoles[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.TokenClaims)
		if !ok || claims.Email == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		role, err := resolver.RoleByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "unable to resolve role"))
			c.Abort()
			return
		}

		if _, ok := allowedRoles[role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
