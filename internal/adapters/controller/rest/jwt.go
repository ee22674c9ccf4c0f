package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
)

const authCookieName = "token"

// Claims are the JWT claims carried by the auth cookie / bearer token.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenDenylist records revoked token ids until they expire on their own.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Duration)
	IsRevoked(ctx context.Context, tokenID string) bool
}

// JWTManager signs and verifies HS256 tokens. The lifetime matches the
// auth cookie's 7-day expiry. A denylist backed by redis makes logout
// effective before expiry; without one, tokens simply run out.
type JWTManager struct {
	secret   []byte
	lifetime time.Duration
	denylist TokenDenylist
}

func NewJWTManager(secret string, lifetime time.Duration, denylist TokenDenylist) (*JWTManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	return &JWTManager{
		secret:   []byte(secret),
		lifetime: lifetime,
		denylist: denylist,
	}, nil
}

func (m *JWTManager) Lifetime() time.Duration {
	return m.lifetime
}

func (m *JWTManager) Generate(user *entity.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTManager) Parse(ctx context.Context, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if m.denylist != nil && m.denylist.IsRevoked(ctx, claims.ID) {
		return nil, errorz.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke puts the token on the denylist for its remaining lifetime.
func (m *JWTManager) Revoke(ctx context.Context, claims *Claims) {
	if m.denylist == nil || claims.ExpiresAt == nil {
		return
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining > 0 {
		m.denylist.Revoke(ctx, claims.ID, remaining)
	}
}

// authCookie builds the session cookie: httpOnly, sameSite=strict, with
// an expiry matching the JWT lifetime.
func (m *JWTManager) authCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (m *JWTManager) clearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
