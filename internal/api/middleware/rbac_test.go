package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

func boundContext(t *testing.T, user *domain.User) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if user != nil {
		c.Set(userContextKey, user)
	}
	return c
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		allowed []string
		wantErr bool
	}{
		{"admin allowed", domain.RoleAdmin, []string{domain.RoleAdmin}, false},
		{"manager rejected by admin gate", domain.RoleManager, []string{domain.RoleAdmin}, true},
		{"manager allowed by two-role gate", domain.RoleManager, []string{domain.RoleAdmin, domain.RoleManager}, false},
		{"user rejected", domain.RoleUser, []string{domain.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := boundContext(t, &domain.User{SubjectID: "sub-1", Role: tt.role, Active: true})
			called := false
			err := RequireRole(tt.allowed...)(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			if tt.wantErr {
				if !errors.Is(err, domain.ErrForbidden) {
					t.Fatalf("err = %v, want ErrForbidden", err)
				}
				if called {
					t.Fatal("next should not run")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !called {
				t.Fatal("next not called")
			}
		})
	}
}

func TestRequireRole_NoBoundUser(t *testing.T) {
	c := boundContext(t, nil)
	err := RequireRole(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		wantErr    bool
	}{
		{"user can create tasks", domain.RoleUser, domain.PermCreateTasks, false},
		{"user cannot manage users", domain.RoleUser, domain.PermManageUsers, true},
		{"manager cannot delete all tasks", domain.RoleManager, domain.PermDeleteAllTasks, true},
		{"admin can manage users", domain.RoleAdmin, domain.PermManageUsers, false},
		{"unknown role carries nothing", "superuser", domain.PermCreateTasks, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := boundContext(t, &domain.User{SubjectID: "sub-1", Role: tt.role, Active: true})
			err := RequirePermission(tt.permission)(func(c echo.Context) error {
				return nil
			})(c)

			if tt.wantErr && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("err = %v, want ErrForbidden", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
