package ports

import (
	"context"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
// VisibleTo is always set by the service layer from the access policy.
type ListTasksFilter struct {
	VisibleTo  string // empty = unrestricted (admin/manager); non-empty = scoped to creator-or-assignee
	Status     string // optional: filter by status
	Priority   string // optional: filter by priority
	AssignedTo string // optional: filter by assignee subject
	Search     string // optional: match on title, description, or tags
	SortBy     string // defaults to created_at
	SortOrder  string // "asc" or "desc" (default)
	Page       int    // 1-based
	Limit      int    // rows per page (capped by the service)
}

// TaskStats aggregates task counts, computed by the store. When VisibleTo was
// scoped, the counts only cover the requester's own tasks.
type TaskStats struct {
	Total        int64
	Pending      int64
	InProgress   int64
	Completed    int64
	HighPriority int64
	Overdue      int64
}

// TaskRepository defines persistence operations for tasks. Listings and stats
// exclude archived tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, visibleTo string) (*TaskStats, error)
}
