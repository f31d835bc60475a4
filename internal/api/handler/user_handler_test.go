package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

type stubUserService struct {
	ensureFn func(ctx context.Context, identity *domain.Identity) (*domain.User, error)
	getFn    func(ctx context.Context, subject string) (*domain.User, error)
	updateFn func(ctx context.Context, subject string, input ports.ProfileUpdateInput) (*domain.User, error)
	listFn   func(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error)
	roleFn   func(ctx context.Context, actor *domain.User, target, role string) (*domain.User, error)
	toggleFn func(ctx context.Context, actor *domain.User, target string) (*domain.User, error)
	deleteFn func(ctx context.Context, actor *domain.User, target string) error
	statsFn  func(ctx context.Context) (*ports.UserStatsResult, error)
}

func (s *stubUserService) EnsureUser(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	return s.ensureFn(ctx, identity)
}

func (s *stubUserService) GetProfile(ctx context.Context, subject string) (*domain.User, error) {
	return s.getFn(ctx, subject)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, subject string, input ports.ProfileUpdateInput) (*domain.User, error) {
	return s.updateFn(ctx, subject, input)
}

func (s *stubUserService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserService) ChangeRole(ctx context.Context, actor *domain.User, target, role string) (*domain.User, error) {
	return s.roleFn(ctx, actor, target, role)
}

func (s *stubUserService) ToggleStatus(ctx context.Context, actor *domain.User, target string) (*domain.User, error) {
	return s.toggleFn(ctx, actor, target)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor *domain.User, target string) error {
	return s.deleteFn(ctx, actor, target)
}

func (s *stubUserService) Stats(ctx context.Context) (*ports.UserStatsResult, error) {
	return s.statsFn(ctx)
}

func TestUserHandler_GetProfile(t *testing.T) {
	requester := &domain.User{SubjectID: "sub-1", Role: domain.RoleManager, Active: true}
	stub := &stubUserService{
		getFn: func(_ context.Context, subject string) (*domain.User, error) {
			if subject != "sub-1" {
				t.Fatalf("subject = %q", subject)
			}
			return &domain.User{
				SubjectID: "sub-1", Email: "a@example.com", DisplayName: "Ada",
				Role: domain.RoleManager, Active: true,
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := taskContext(t, http.MethodGet, "/v1/profile", "", requester)
	if err := h.GetProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response: %v", resp)
	}
	if user["displayName"] != "Ada" || user["isActive"] != true {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	perms, ok := user["permissions"].([]any)
	if !ok || len(perms) != 3 {
		t.Fatalf("manager permissions = %v, want 3 derived entries", user["permissions"])
	}
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	requester := &domain.User{SubjectID: "sub-1", Role: domain.RoleUser, Active: true}
	stub := &stubUserService{
		updateFn: func(_ context.Context, subject string, input ports.ProfileUpdateInput) (*domain.User, error) {
			if subject != "sub-1" {
				t.Fatalf("subject = %q", subject)
			}
			if input.DisplayName == nil || *input.DisplayName != "Ada L." {
				t.Fatalf("display name = %v", input.DisplayName)
			}
			if input.Profile == nil || input.Profile.Department != "Research" {
				t.Fatalf("profile = %+v", input.Profile)
			}
			return &domain.User{SubjectID: subject, DisplayName: *input.DisplayName, Role: domain.RoleUser, Active: true}, nil
		},
	}
	h := NewUserHandler(stub)

	body := `{"displayName":"Ada L.","profile":{"department":"Research"}}`
	c, rec := taskContext(t, http.MethodPut, "/v1/profile", body, requester)

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List_ParsesFilters(t *testing.T) {
	stub := &stubUserService{
		listFn: func(_ context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
			if filter.Role != "manager" || filter.Search != "ada" {
				t.Fatalf("unexpected filter: %+v", filter)
			}
			if filter.Active == nil || *filter.Active {
				t.Fatalf("isActive=false should parse to a false pointer: %v", filter.Active)
			}
			return &ports.ListUsersResult{Page: ports.NewPage(1, 10, 0)}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := taskContext(t, http.MethodGet, "/v1/users?role=manager&search=ada&isActive=false", "", nil)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_ChangeRole_PropagatesSelfModification(t *testing.T) {
	requester := &domain.User{SubjectID: "admin", Role: domain.RoleAdmin, Active: true}
	stub := &stubUserService{
		roleFn: func(_ context.Context, _ *domain.User, _, _ string) (*domain.User, error) {
			return nil, domain.ErrSelfModification
		},
	}
	h := NewUserHandler(stub)

	c, _ := taskContext(t, http.MethodPut, "/v1/users/admin/role", `{"role":"user"}`, requester)
	c.SetParamNames("id")
	c.SetParamValues("admin")

	if err := h.ChangeRole(c); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("err = %v, want ErrSelfModification", err)
	}
}

func TestUserHandler_ToggleStatus_Message(t *testing.T) {
	requester := &domain.User{SubjectID: "admin", Role: domain.RoleAdmin, Active: true}
	stub := &stubUserService{
		toggleFn: func(_ context.Context, _ *domain.User, target string) (*domain.User, error) {
			return &domain.User{SubjectID: target, Role: domain.RoleUser, Active: false}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := taskContext(t, http.MethodPut, "/v1/users/target/status", "", requester)
	c.SetParamNames("id")
	c.SetParamValues("target")

	if err := h.ToggleStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "user deactivated successfully" {
		t.Fatalf("message = %v", resp["message"])
	}
}

func TestUserHandler_Stats(t *testing.T) {
	stub := &stubUserService{
		statsFn: func(_ context.Context) (*ports.UserStatsResult, error) {
			return &ports.UserStatsResult{
				Stats:  ports.UserStats{Total: 3, Active: 2, Inactive: 1, Admins: 1, Managers: 1, Users: 1},
				Recent: []*domain.User{{DisplayName: "Ada", Email: "a@example.com", Role: domain.RoleUser}},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := taskContext(t, http.MethodGet, "/v1/users/stats", "", nil)
	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	stats, ok := resp["stats"].(map[string]any)
	if !ok {
		t.Fatalf("expected stats in response: %v", resp)
	}
	if stats["totalUsers"] != float64(3) || stats["inactiveUsers"] != float64(1) {
		t.Fatalf("unexpected stats payload: %+v", stats)
	}
	recent, ok := resp["recentUsers"].([]any)
	if !ok || len(recent) != 1 {
		t.Fatalf("recentUsers = %v", resp["recentUsers"])
	}
}

func TestIntQueryParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"page=3", 3},
		{"page=abc", 0},
		{"page=-2", 0},
		{"", 0},
	}
	for _, tt := range tests {
		c, _ := taskContext(t, http.MethodGet, "/v1/users?"+tt.query, "", nil)
		if got := intQueryParam(c, "page"); got != tt.want {
			t.Errorf("intQueryParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
