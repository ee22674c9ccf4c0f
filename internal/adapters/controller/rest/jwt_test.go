package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeDenylist struct {
	revoked map[string]bool
}

func (d *fakeDenylist) Revoke(_ context.Context, tokenID string, _ time.Duration) {
	if d.revoked == nil {
		d.revoked = make(map[string]bool)
	}
	d.revoked[tokenID] = true
}

func (d *fakeDenylist) IsRevoked(_ context.Context, tokenID string) bool {
	return d.revoked[tokenID]
}

func TestJWTRoundTrip(t *testing.T) {
	manager, err := NewJWTManager(testSecret, time.Hour, nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := manager.Generate(&entity.User{ID: "user-1", Role: entity.RoleOrganizer})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := manager.Parse(context.Background(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != string(entity.RoleOrganizer) {
		t.Fatalf("claims: uid=%s role=%s", claims.UserID, claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("token id missing, revocation would be impossible")
	}
}

func TestJWTRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("too short", time.Hour, nil); err == nil {
		t.Fatal("want error for short secret")
	}
}

func TestJWTRejectsForeignSignature(t *testing.T) {
	issuer, _ := NewJWTManager(testSecret, time.Hour, nil)
	verifier, _ := NewJWTManager("fedcba9876543210fedcba9876543210", time.Hour, nil)

	token, err := issuer.Generate(&entity.User{ID: "user-1", Role: entity.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.Parse(context.Background(), token); err == nil {
		t.Fatal("token signed with a different secret must not verify")
	}
}

func TestJWTRevocation(t *testing.T) {
	denylist := &fakeDenylist{}
	manager, _ := NewJWTManager(testSecret, time.Hour, denylist)

	token, err := manager.Generate(&entity.User{ID: "user-1", Role: entity.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := manager.Parse(context.Background(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	manager.Revoke(context.Background(), claims)

	if _, err := manager.Parse(context.Background(), token); !errors.Is(err, errorz.ErrTokenRevoked) {
		t.Fatalf("got %v, want ErrTokenRevoked", err)
	}
}

func TestAuthCookieAttributes(t *testing.T) {
	manager, _ := NewJWTManager(testSecret, time.Hour, nil)

	cookie := manager.authCookie("tok")
	if !cookie.HttpOnly {
		t.Fatal("auth cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatal("auth cookie must be sameSite=strict")
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("maxAge=%d, want the token lifetime", cookie.MaxAge)
	}

	cleared := manager.clearCookie()
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatal("clear cookie must expire immediately")
	}
}
