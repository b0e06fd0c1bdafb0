package auth

import "github.com/golang-jwt/jwt/v5"

// ScopeAdmin grants every admin operation.
const ScopeAdmin = "kits:admin"

// Claims represents the JWT claims carried by admin bearer tokens.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}
