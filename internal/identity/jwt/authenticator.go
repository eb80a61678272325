// Package jwt issues and validates HS256 access tokens carrying the caller's
// user ID and role.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config contains JWT authenticator configuration.
type Config struct {
	SecretKey           string
	Issuer              string
	AccessTokenDuration time.Duration
}

// Claims are the custom claims of an access token.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator implements identity.Authenticator using signed JWTs.
type Authenticator struct {
	config Config
	now    func() time.Time
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(config Config) *Authenticator {
	return &Authenticator{config: config, now: time.Now}
}

// IssueToken creates an access token for user.
func (a *Authenticator) IssueToken(_ context.Context, user *domain.User) (*identity.Token, error) {
	now := a.now()
	expiresAt := now.Add(a.config.AccessTokenDuration)

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    a.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &identity.Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses token and returns the identity it asserts.
func (a *Authenticator) ValidateToken(_ context.Context, token string) (domain.Identity, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(a.config.SecretKey), nil
	}, opts...)
	if err != nil {
		return domain.Identity{}, errors.Join(identity.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return domain.Identity{}, identity.ErrInvalidToken
	}

	return domain.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}
