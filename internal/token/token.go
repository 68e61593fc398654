package token

import (
	"context"
	"fmt"
	"time"

	"github.com/btlam02/gis-app/internal/config"
	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims carried by every token: the user identity, whether this is an
// access or refresh token, and a unique jti for revocation.
type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Pair is one issued access/refresh token pair. The *Expires fields are the
// configured lifetimes in seconds, matching the login response contract.
type Pair struct {
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	AccessExpires  int64  `json:"access_expires"`
	RefreshExpires int64  `json:"refresh_expires"`
}

// Issuer mints and verifies HS256-signed token pairs and consults the
// blacklist for revoked refresh tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
}

func NewIssuer(cfg *config.Config, blacklist Blacklist) *Issuer {
	return &Issuer{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		blacklist:  blacklist,
	}
}

// Issue produces a fresh access/refresh pair for the user.
func (i *Issuer) Issue(userID uuid.UUID) (*Pair, error) {
	access, err := i.sign(userID, TypeAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := i.sign(userID, TypeRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:    access,
		RefreshToken:   refresh,
		AccessExpires:  int64(i.accessTTL.Seconds()),
		RefreshExpires: int64(i.refreshTTL.Seconds()),
	}, nil
}

// Verify checks signature, expiry, token type and blacklist membership.
func (i *Issuer) Verify(ctx context.Context, tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.ErrInvalidToken
	}

	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: expected %s token", apperror.ErrInvalidToken, wantType)
	}

	revoked, err := i.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperror.ErrRevokedToken
	}

	return claims, nil
}

// Refresh validates the refresh token and rotates it: the presented token is
// blacklisted for its remaining lifetime and a whole new pair is issued.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string) (*Pair, error) {
	claims, err := i.Verify(ctx, refreshToken, TypeRefresh)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	if err := i.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, err
	}

	return i.Issue(userID)
}

// Revoke blacklists the refresh token's jti. Subsequent refresh attempts with
// the same token fail with ErrRevokedToken.
func (i *Issuer) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := i.Verify(ctx, refreshToken, TypeRefresh)
	if err != nil {
		return err
	}

	return i.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (i *Issuer) sign(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID.String(),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
