package auth

import "imagestudio/internal/domain/models"

// JWTVerifier validates bearer tokens from the identity provider.
// An interface so tests can swap in a static verifier.
type JWTVerifier interface {
	// VerifyToken validates a JWT string and returns its identity claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.IdentityClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
