package ports

import (
	"context"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// Page describes one page of a paginated result set.
type Page struct {
	CurrentPage int
	TotalPages  int
	Total       int64
	HasNext     bool
	HasPrev     bool
}

// ProfileUpdateInput carries the self-service profile fields. Nil fields are
// left untouched; an input with no fields set is rejected.
type ProfileUpdateInput struct {
	DisplayName *string
	Profile     *domain.Profile
}

// ListUsersResult is returned by ListUsers.
type ListUsersResult struct {
	Users []*domain.User
	Page  Page
}

// UserStatsResult bundles aggregate counts with the most recently created users.
type UserStatsResult struct {
	Stats  UserStats
	Recent []*domain.User
}

// UserService defines use-case operations on the user directory.
//
// EnsureUser backs the authorization guard: it resolves the verified identity
// to a directory record, provisioning one with role "user" on first sight and
// stamping last-login otherwise. The administrative operations take the acting
// user so self-targeting can be rejected.
type UserService interface {
	EnsureUser(ctx context.Context, identity *domain.Identity) (*domain.User, error)
	GetProfile(ctx context.Context, subject string) (*domain.User, error)
	UpdateProfile(ctx context.Context, subject string, input ProfileUpdateInput) (*domain.User, error)
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
	ChangeRole(ctx context.Context, actor *domain.User, targetSubject, role string) (*domain.User, error)
	ToggleStatus(ctx context.Context, actor *domain.User, targetSubject string) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, targetSubject string) error
	Stats(ctx context.Context) (*UserStatsResult, error)
}

// NewPage computes pagination metadata for a 1-based page over total rows.
func NewPage(page, limit int, total int64) Page {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Page{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
