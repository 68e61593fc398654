package token

import (
	"context"
	"testing"
	"time"

	"github.com/btlam02/gis-app/internal/config"
	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  168 * time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewIssuer(cfg, NewMemoryBlacklist())
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t)
	userID := uuid.New()

	pair, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(168*3600), pair.AccessExpires)
	assert.Equal(t, int64(24*3600), pair.RefreshExpires)

	claims, err := issuer.Verify(context.Background(), pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = issuer.Verify(context.Background(), pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), pair.AccessToken+"x", TypeAccess)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	_, err = issuer.Verify(context.Background(), "not-a-token", TypeAccess)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: -time.Minute,
	}
	issuer := NewIssuer(cfg, NewMemoryBlacklist())

	pair, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestRevokeBlocksRefresh(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	pair, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	require.NoError(t, issuer.Revoke(ctx, pair.RefreshToken))

	_, err = issuer.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrRevokedToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()
	userID := uuid.New()

	pair, err := issuer.Issue(userID)
	require.NoError(t, err)

	next, err := issuer.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	claims, err := issuer.Verify(ctx, next.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	// The rotated-out token is blacklisted.
	_, err = issuer.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrRevokedToken)
}

func TestRevokeInvalidToken(t *testing.T) {
	issuer := newTestIssuer(t)
	err := issuer.Revoke(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
