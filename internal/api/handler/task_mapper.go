package handler

import (
	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

func toCreateTaskInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
	}
}

func toUpdateTaskInput(req updateTaskRequest) ports.UpdateTaskInput {
	return ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
		Archived:    req.IsArchived,
	}
}

func toTaskResponse(t *domain.Task) taskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedBy:   t.CreatedBy,
		AssignedTo:  t.AssignedTo,
		Tags:        tags,
		IsArchived:  t.Archived,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		resp.DueDate = &due
	}
	return resp
}

func toListTasksResponse(r *ports.ListTasksResult) listTasksResponse {
	tasks := make([]taskResponse, len(r.Tasks))
	for i, t := range r.Tasks {
		tasks[i] = toTaskResponse(t)
	}
	return listTasksResponse{
		Tasks:      tasks,
		Pagination: toPaginationResponse(r.Page),
	}
}

func toTaskStatsResponse(s *ports.TaskStats) taskStatsResponse {
	return taskStatsResponse{Stats: taskStatsPayload{
		Total:        s.Total,
		Pending:      s.Pending,
		InProgress:   s.InProgress,
		Completed:    s.Completed,
		HighPriority: s.HighPriority,
		Overdue:      s.Overdue,
	}}
}
