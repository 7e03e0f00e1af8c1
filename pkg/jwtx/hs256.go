package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted (256 bits).
const MinSecretLength = 32

// HS256 signs and verifies tokens with a single shared secret. Access and
// refresh tokens each get their own HS256 so a token of one kind never
// verifies as the other.
type HS256 struct {
	secret []byte
	issuer string
	leeway time.Duration
	parser *jwt.Parser
}

var (
	_ Signer   = (*HS256)(nil)
	_ Verifier = (*HS256)(nil)
)

// NewHS256 returns a signer/verifier bound to secret. When issuer is set,
// tokens are stamped with it by callers and verification enforces it.
func NewHS256(secret []byte, issuer string, leeway time.Duration) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &HS256{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		leeway: leeway,
		parser: jwt.NewParser(opts...),
	}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Issuer is the iss value enforced on verification.
func (h *HS256) Issuer() string { return h.issuer }

func (h *HS256) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

// Verify parses token into claims (a pointer). Signature problems are
// reported ahead of expiry.
func (h *HS256) Verify(token string, claims jwt.Claims) error {
	_, err := h.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return h.secret, nil
	})
	return mapParseError(err)
}
