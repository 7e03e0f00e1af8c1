package jwtx

import "github.com/golang-jwt/jwt/v5"

// Signer turns claims into a compact signed JWT.
type Signer interface {
	Alg() string
	Sign(claims jwt.Claims) (string, error)
}
