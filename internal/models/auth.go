package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the payload carried by identity-provider access tokens.
// Only the subject email is trusted; the role is always resolved from the
// user store.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
