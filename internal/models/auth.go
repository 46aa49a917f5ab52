package models

import "github.com/golang-jwt/jwt/v5"

// TokenRequest is the identity claim exchanged for a bearer token. The
// caller is authenticated upstream (federated sign-in); this service only
// mints the token.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenResponse returns the issued token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// JWTClaims is the access-token payload. Email is the authoritative identity
// for every downstream check; roles are resolved against the user store, not
// carried in the token.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
