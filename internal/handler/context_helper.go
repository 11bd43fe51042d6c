package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/middleware"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.TokenClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// currentUser loads the full profile behind the verified token. Tokens carry
// only the email; everything else lives in the user store.
func currentUser(c *gin.Context, users *service.UserService) (*models.User, error) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Email == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return users.GetByEmail(c.Request.Context(), claims.Email)
}
