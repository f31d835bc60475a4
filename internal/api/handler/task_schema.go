package handler

import "time"

// Wire types for the task surface.

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description" validate:"required"`
	Status      string     `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  string     `json:"assignedTo"`
	Tags        []string   `json:"tags"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1"`
	Description *string    `json:"description" validate:"omitempty,min=1"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo"`
	Tags        *[]string  `json:"tags"`
	IsArchived  *bool      `json:"isArchived"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	AssignedTo  string     `json:"assignedTo"`
	Tags        []string   `json:"tags"`
	IsArchived  bool       `json:"isArchived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type taskMutationResponse struct {
	Message string       `json:"message"`
	Task    taskResponse `json:"task"`
}

type getTaskResponse struct {
	Task taskResponse `json:"task"`
}

type listTasksResponse struct {
	Tasks      []taskResponse     `json:"tasks"`
	Pagination paginationResponse `json:"pagination"`
}

type taskStatsPayload struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"inProgress"`
	Completed    int64 `json:"completed"`
	HighPriority int64 `json:"highPriority"`
	Overdue      int64 `json:"overdue"`
}

type taskStatsResponse struct {
	Stats taskStatsPayload `json:"stats"`
}
