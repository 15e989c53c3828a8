package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims is the JWT claims structure issued by the auth provider.
type IdentityClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	FirstName            string `json:"given_name"`
	LastName             string `json:"family_name"`
}

// AuthUser is the authenticated caller derived from verified claims.
type AuthUser struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// User converts verified claims into the caller identity.
func (c *IdentityClaims) User() *AuthUser {
	return &AuthUser{
		ID:        c.Subject,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	}
}
