package jwtauth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

// Claims carried by locally issued access tokens.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 access tokens signed with a shared secret. It is the
// offline alternative to Anubis introspection.
type Verifier struct {
	secret    []byte
	adminRole string
	issuer    string
	leeway    time.Duration
}

type Config struct {
	Secret    string
	AdminRole string
	// Issuer, when set, must match the iss claim.
	Issuer string
	Leeway time.Duration
}

func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Verifier{
		secret:    []byte(secret),
		adminRole: strings.TrimSpace(cfg.AdminRole),
		issuer:    strings.TrimSpace(cfg.Issuer),
		leeway:    cfg.Leeway,
	}, nil
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID:  subject,
		Email:   strings.TrimSpace(claims.Email),
		IsAdmin: v.adminRole != "" && slices.Contains(claims.Roles, v.adminRole),
	}, nil
}

// Sign issues a token for the given principal. Used by tests and local tooling.
func (v *Verifier) Sign(principal user.Principal, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: principal.Email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
