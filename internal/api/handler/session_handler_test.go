package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

type stubRevoker struct {
	tokenID string
	ttl     time.Duration
	called  bool
	err     error
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.called = true
	r.tokenID = tokenID
	r.ttl = ttl
	return r.err
}

func logoutContext(t *testing.T, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := taskContext(t, http.MethodPost, "/v1/logout", "", nil)
	if identity != nil {
		c.Set("auth_identity", identity)
	}
	return c, rec
}

func TestSessionHandler_Logout_RevokesToken(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewSessionHandler(revoker)

	exp := time.Now().Add(time.Hour)
	c, rec := logoutContext(t, &domain.Identity{Subject: "sub-1", TokenID: "jti-1", ExpiresAt: exp})

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !revoker.called || revoker.tokenID != "jti-1" {
		t.Fatalf("revoker called=%t tokenID=%q", revoker.called, revoker.tokenID)
	}
	if revoker.ttl <= 0 || revoker.ttl > time.Hour {
		t.Fatalf("ttl = %v, want within the token lifetime", revoker.ttl)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "logged out successfully" {
		t.Fatalf("message = %q", resp["message"])
	}
}

func TestSessionHandler_Logout_NoTokenID(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewSessionHandler(revoker)

	c, rec := logoutContext(t, &domain.Identity{Subject: "sub-1"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoker.called {
		t.Fatal("tokens without an id cannot be revoked individually")
	}
}

func TestSessionHandler_Logout_AlreadyExpired(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewSessionHandler(revoker)

	c, _ := logoutContext(t, &domain.Identity{Subject: "sub-1", TokenID: "jti-1", ExpiresAt: time.Now().Add(-time.Minute)})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoker.called {
		t.Fatal("an already expired token needs no revocation entry")
	}
}

func TestSessionHandler_Logout_NoExpiryUsesDefaultTTL(t *testing.T) {
	revoker := &stubRevoker{}
	h := NewSessionHandler(revoker)

	c, _ := logoutContext(t, &domain.Identity{Subject: "sub-1", TokenID: "jti-1"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !revoker.called || revoker.ttl != defaultRevocationTTL {
		t.Fatalf("ttl = %v, want %v", revoker.ttl, defaultRevocationTTL)
	}
}

func TestSessionHandler_Logout_RevokerFailure(t *testing.T) {
	storeErr := errors.New("redis down")
	h := NewSessionHandler(&stubRevoker{err: storeErr})

	c, _ := logoutContext(t, &domain.Identity{Subject: "sub-1", TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)})
	if err := h.Logout(c); !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the store failure", err)
	}
}

func TestSessionHandler_Logout_NoBoundIdentity(t *testing.T) {
	h := NewSessionHandler(&stubRevoker{})

	c, _ := logoutContext(t, nil)
	err := h.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}
