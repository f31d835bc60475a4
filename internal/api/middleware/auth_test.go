package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// stubVerifier returns a fixed identity or error.
type stubVerifier struct {
	identity *domain.Identity
	err      error
}

func (v *stubVerifier) Verify(_ context.Context, _ string) (*domain.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.identity, nil
}

// stubUserService only implements EnsureUser meaningfully; the guard never
// touches the rest.
type stubUserService struct {
	user      *domain.User
	err       error
	ensured   bool
	lastIdent *domain.Identity
}

func (s *stubUserService) EnsureUser(_ context.Context, identity *domain.Identity) (*domain.User, error) {
	s.ensured = true
	s.lastIdent = identity
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) GetProfile(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) UpdateProfile(context.Context, string, ports.ProfileUpdateInput) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) ListUsers(context.Context, ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) ChangeRole(context.Context, *domain.User, string, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) ToggleStatus(context.Context, *domain.User, string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserService) DeleteUser(context.Context, *domain.User, string) error {
	return errors.New("not implemented")
}

func (s *stubUserService) Stats(context.Context) (*ports.UserStatsResult, error) {
	return nil, errors.New("not implemented")
}

func guardContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGuard_MissingHeader(t *testing.T) {
	c, _ := guardContext(t, "")
	mw := Guard(&stubVerifier{}, &stubUserService{})

	err := mw(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestGuard_BadScheme(t *testing.T) {
	c, _ := guardContext(t, "Token abc")
	mw := Guard(&stubVerifier{}, &stubUserService{})

	err := mw(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestGuard_TokenFailuresPropagate(t *testing.T) {
	for _, want := range []error{domain.ErrTokenExpired, domain.ErrTokenRevoked, domain.ErrTokenInvalid} {
		c, _ := guardContext(t, "Bearer abc")
		users := &stubUserService{}
		mw := Guard(&stubVerifier{err: want}, users)

		err := mw(func(c echo.Context) error {
			t.Fatal("should not reach next")
			return nil
		})(c)

		if !errors.Is(err, want) {
			t.Errorf("err = %v, want %v", err, want)
		}
		if users.ensured {
			t.Error("directory must not be touched when verification fails")
		}
	}
}

func TestGuard_DeactivatedAccount(t *testing.T) {
	c, _ := guardContext(t, "Bearer abc")
	verifier := &stubVerifier{identity: &domain.Identity{Subject: "sub-1"}}
	users := &stubUserService{user: &domain.User{SubjectID: "sub-1", Role: domain.RoleUser, Active: false}}
	mw := Guard(verifier, users)

	err := mw(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("err = %v, want ErrAccountDeactivated", err)
	}
}

func TestGuard_BindsResolvedUser(t *testing.T) {
	c, rec := guardContext(t, "Bearer abc")
	verifier := &stubVerifier{identity: &domain.Identity{Subject: "sub-1", Email: "a@example.com"}}
	resolved := &domain.User{SubjectID: "sub-1", Role: domain.RoleManager, Active: true}
	users := &stubUserService{user: resolved}
	mw := Guard(verifier, users)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		user, err := UserFromContext(c)
		if err != nil {
			t.Fatalf("UserFromContext: %v", err)
		}
		if user.SubjectID != "sub-1" || user.Role != domain.RoleManager {
			t.Errorf("bound user = %+v", user)
		}
		identity, err := IdentityFromContext(c)
		if err != nil {
			t.Fatalf("IdentityFromContext: %v", err)
		}
		if identity.Subject != "sub-1" {
			t.Errorf("bound identity = %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})(c)

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if users.lastIdent == nil || users.lastIdent.Subject != "sub-1" {
		t.Errorf("identity passed to EnsureUser = %+v", users.lastIdent)
	}
}

func TestGuard_EnsureUserFailure(t *testing.T) {
	c, _ := guardContext(t, "Bearer abc")
	verifier := &stubVerifier{identity: &domain.Identity{Subject: "sub-1"}}
	users := &stubUserService{err: errors.New("store down")}
	mw := Guard(verifier, users)

	err := mw(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})(c)

	if err == nil {
		t.Fatal("expected error from failing directory")
	}
}

func TestUserFromContext_Missing(t *testing.T) {
	c, _ := guardContext(t, "")

	_, err := UserFromContext(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}
