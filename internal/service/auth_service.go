package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/models"
	appErrors "github.com/Sabbir-Coder/AssetVerse-Server/pkg/errors"
)

// AuthConfig defines how identity-provider tokens are verified.
type AuthConfig struct {
	TokenSecret string
	Issuer      string
}

// AuthService verifies bearer tokens issued by the identity provider. The
// only claim it trusts is the subject email; roles live in the user store.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, logger: logger}
}

// VerifyToken parses and validates an access token returning its claims.
func (s *AuthService) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	if s.config.Issuer != "" {
		if issuer, err := claims.GetIssuer(); err != nil || issuer != s.config.Issuer {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected token issuer")
		}
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no subject email")
	}
	claims.Email = strings.ToLower(email)

	return claims, nil
}
