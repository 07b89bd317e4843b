package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims are the claims carried by the HS256 bearer tokens issued at
// login. Subject holds the user's ObjectID hex.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}
