package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(secret string) *Authenticator {
	return NewAuthenticator(Config{
		SecretKey:           secret,
		Issuer:              "lecture-rating",
		AccessTokenDuration: time.Hour,
	})
}

func TestAuthenticator_RoundTrip(t *testing.T) {
	auth := newTestAuthenticator("secret")
	user := &domain.User{ID: "c0ffee00-0000-0000-0000-000000000001", Role: domain.RoleLecturer}

	token, err := auth.IssueToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	got, err := auth.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: user.ID, Role: domain.RoleLecturer}, got)
}

func TestAuthenticator_ValidateToken_Rejects(t *testing.T) {
	user := &domain.User{ID: "u-1", Role: domain.RoleStudent}

	issued, err := newTestAuthenticator("secret").IssueToken(context.Background(), user)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := newTestAuthenticator("other").ValidateToken(context.Background(), issued.AccessToken)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		auth := newTestAuthenticator("secret")
		auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := auth.ValidateToken(context.Background(), issued.AccessToken)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		auth := NewAuthenticator(Config{SecretKey: "secret", Issuer: "someone-else", AccessTokenDuration: time.Hour})
		_, err := auth.ValidateToken(context.Background(), issued.AccessToken)
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newTestAuthenticator("secret").ValidateToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})
}
