package ports

import (
	"context"
	"time"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// ListUsersFilter carries all query parameters for the admin user listing.
type ListUsersFilter struct {
	Role   string // optional: filter by role
	Active *bool  // optional: filter by active flag
	Search string // optional: case-insensitive match on display name or email
	Page   int    // 1-based
	Limit  int    // rows per page (capped by the service)
}

// UserStats aggregates user counts, computed by the store.
type UserStats struct {
	Total    int64
	Active   int64
	Inactive int64
	Admins   int64
	Managers int64
	Users    int64
}

// UserRepository defines persistence operations for users. All lookups key on
// the identity-provider subject id, not the store's own document id.
type UserRepository interface {
	FindBySubject(ctx context.Context, subject string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, subject string, at time.Time) error
	UpdateProfile(ctx context.Context, subject string, displayName *string, profile *domain.Profile) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	UpdateRole(ctx context.Context, subject, role string) (*domain.User, error)
	SetActive(ctx context.Context, subject string, active bool) (*domain.User, error)
	Delete(ctx context.Context, subject string) error
	Stats(ctx context.Context) (*UserStats, error)
	Recent(ctx context.Context, limit int) ([]*domain.User, error)
}
