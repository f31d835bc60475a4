package ports

import (
	"context"
	"time"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task. AssignedTo
// defaults to the requester when empty.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	AssignedTo  string
	Tags        []string
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// untouched. CreatedBy is immutable and has no field here.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	AssignedTo  *string
	Tags        *[]string
	Archived    *bool
}

// ListTasksInput carries the caller-controlled list parameters. The
// visibility scope is derived from the requester, never from the input.
type ListTasksInput struct {
	Status     string
	Priority   string
	AssignedTo string
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// ListTasksResult is returned by List.
type ListTasksResult struct {
	Tasks []*domain.Task
	Page  Page
}

// TaskService defines use-case operations on tasks. Every operation takes the
// resolved requester and enforces the resource access policy before touching
// the store.
type TaskService interface {
	Create(ctx context.Context, requester *domain.User, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, requester *domain.User, id string) (*domain.Task, error)
	List(ctx context.Context, requester *domain.User, input ListTasksInput) (*ListTasksResult, error)
	Update(ctx context.Context, requester *domain.User, id string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, requester *domain.User, id string) error
	Stats(ctx context.Context, requester *domain.User) (*TaskStats, error)
}
