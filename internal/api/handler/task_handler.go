package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/api/metrics"
	"github.com/taskhub/task-tracker/internal/api/middleware"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations. Access decisions
// live in the service/policy layer; the handler only shuttles data.
type TaskHandler struct {
	tasks ports.TaskService
}

func NewTaskHandler(tasks ports.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  taskMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.Create(c.Request().Context(), requester, toCreateTaskInput(req))
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return c.JSON(http.StatusCreated, taskMutationResponse{
		Message: "task created successfully",
		Task:    toTaskResponse(task),
	})
}

// List handles GET /v1/tasks. Results are scoped by the requester's
// visibility: plain users only see tasks they created or are assigned to.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Rows per page"
// @Param        status     query     string  false  "Filter by status"
// @Param        priority   query     string  false  "Filter by priority"
// @Param        assignedTo query     string  false  "Filter by assignee subject"
// @Param        search     query     string  false  "Match title, description, or tags"
// @Param        sortBy     query     string  false  "Sort field (default createdAt)"
// @Param        sortOrder  query     string  false  "asc or desc (default desc)"
// @Success      200        {object}  listTasksResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	input := ports.ListTasksInput{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		AssignedTo: c.QueryParam("assignedTo"),
		Search:     c.QueryParam("search"),
		SortBy:     c.QueryParam("sortBy"),
		SortOrder:  c.QueryParam("sortOrder"),
		Page:       intQueryParam(c, "page"),
		Limit:      intQueryParam(c, "limit"),
	}

	result, err := h.tasks.List(c.Request().Context(), requester, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListTasksResponse(result))
}

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200 {object}  getTaskResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(c.Request().Context(), requester, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, getTaskResponse{Task: toTaskResponse(task)})
}

// Update handles PUT /v1/tasks/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  taskMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.Update(c.Request().Context(), requester, c.Param("id"), toUpdateTaskInput(req))
	if err != nil {
		return err
	}

	metrics.TaskMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, taskMutationResponse{
		Message: "task updated successfully",
		Task:    toTaskResponse(task),
	})
}

// Delete handles DELETE /v1/tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task id"
// @Success      200 {object}  messageResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), requester, c.Param("id")); err != nil {
		return err
	}

	metrics.TaskMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "task deleted successfully"})
}

// Stats handles GET /v1/tasks/stats, scoped like List.
//
// @Summary      Task statistics
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskStatsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.tasks.Stats(c.Request().Context(), requester)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskStatsResponse(stats))
}
