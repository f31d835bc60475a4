package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// TaskService implements ports.TaskService. Every operation enforces the
// resource access policy against the resolved requester before touching the
// store.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, audit ports.AuditRecorder, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, audit: audit, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, requester *domain.User, input ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrInvalidInput)
	}

	status := domain.StatusPending
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
	}
	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, input.Priority)
		}
	}

	assignee := input.AssignedTo
	if assignee == "" {
		assignee = requester.SubjectID
	}
	if err := s.resolveAssignee(ctx, requester, assignee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		CreatedBy:   requester.SubjectID,
		AssignedTo:  assignee,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Str("task_id", created.ID).Str("created_by", requester.SubjectID).Msg("task created")
	s.audit.Record(domain.AuditEntry{
		Actor:  requester.SubjectID,
		Action: domain.AuditTaskCreate,
		Target: created.ID,
		Detail: created.Title,
		At:     now,
	})
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, requester *domain.User, id string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanReadTask(requester.Role, requester.SubjectID, task) {
		return nil, fmt.Errorf("%w: you can only view your own tasks", domain.ErrForbidden)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, requester *domain.User, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	filter := ports.ListTasksFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Search:     input.Search,
		SortBy:     normalizeSortField(input.SortBy),
		SortOrder:  input.SortOrder,
		Page:       page,
		Limit:      limit,
	}
	if !domain.SeesAllTasks(requester.Role) {
		filter.VisibleTo = requester.SubjectID
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ports.ListTasksResult{
		Tasks: tasks,
		Page:  ports.NewPage(page, limit, total),
	}, nil
}

func (s *TaskService) Update(ctx context.Context, requester *domain.User, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanUpdateTask(requester.Role, requester.SubjectID, task) {
		return nil, fmt.Errorf("%w: you can only update tasks you created", domain.ErrForbidden)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", domain.ErrInvalidInput)
		}
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *input.Status)
		}
		task.Status = status
	}
	if input.Priority != nil {
		priority := domain.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrInvalidInput, *input.Priority)
		}
		task.Priority = priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}
	if input.Archived != nil {
		task.Archived = *input.Archived
	}
	if input.AssignedTo != nil && *input.AssignedTo != task.AssignedTo {
		if err := s.resolveAssignee(ctx, requester, *input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = *input.AssignedTo
	}
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.audit.Record(domain.AuditEntry{
		Actor:  requester.SubjectID,
		Action: domain.AuditTaskUpdate,
		Target: updated.ID,
		At:     task.UpdatedAt,
	})
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, requester *domain.User, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteTask(requester.Role, requester.SubjectID, task) {
		return fmt.Errorf("%w: only admins or task creators can delete tasks", domain.ErrForbidden)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.audit.Record(domain.AuditEntry{
		Actor:  requester.SubjectID,
		Action: domain.AuditTaskDelete,
		Target: id,
		Detail: task.Title,
		At:     time.Now().UTC(),
	})
	return nil
}

func (s *TaskService) Stats(ctx context.Context, requester *domain.User) (*ports.TaskStats, error) {
	visibleTo := ""
	if !domain.SeesAllTasks(requester.Role) {
		visibleTo = requester.SubjectID
	}
	stats, err := s.tasks.Stats(ctx, visibleTo)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return stats, nil
}

// resolveAssignee verifies that a non-self assignee exists in the user
// directory. Self-assignment needs no lookup: the requester was resolved by
// the guard on this very request.
func (s *TaskService) resolveAssignee(ctx context.Context, requester *domain.User, assignee string) error {
	if assignee == requester.SubjectID {
		return nil
	}
	if _, err := s.users.FindBySubject(ctx, assignee); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrAssigneeNotFound
		}
		return fmt.Errorf("resolve assignee: %w", err)
	}
	return nil
}

// normalizeSortField whitelists sortable columns, defaulting to creation time.
func normalizeSortField(field string) string {
	switch field {
	case "created_at", "updated_at", "due_date", "priority", "status", "title":
		return field
	case "createdAt":
		return "created_at"
	case "updatedAt":
		return "updated_at"
	case "dueDate":
		return "due_date"
	default:
		return "created_at"
	}
}
