package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims carries the JWT payload for an authenticated admin session.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
