package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/api/metrics"
	"github.com/taskhub/task-tracker/internal/api/middleware"
	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// UserHandler handles the profile surface plus the admin-only user directory
// operations.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile handles GET /v1/profile.
//
// @Summary      Get the authenticated user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.Request().Context(), requester.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: toUserResponse(user)})
}

// UpdateProfile handles PUT /v1/profile — self-service display name and
// profile sub-record only; role and active flag are not reachable here.
//
// @Summary      Update the authenticated user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields to update"
// @Success      200   {object}  userMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.ProfileUpdateInput{DisplayName: req.DisplayName}
	if req.Profile != nil {
		input.Profile = &domain.Profile{
			Avatar:      req.Profile.Avatar,
			Department:  req.Profile.Department,
			PhoneNumber: req.Profile.PhoneNumber,
		}
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), requester.SubjectID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userMutationResponse{
		Message: "profile updated successfully",
		User:    toUserResponse(user),
	})
}

// List handles GET /v1/users.
//
// @Summary      List users (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Rows per page"
// @Param        role     query     string  false  "Filter by role"
// @Param        isActive query     string  false  "Filter by active flag (true/false)"
// @Param        search   query     string  false  "Match display name or email"
// @Success      200      {object}  listUsersResponse
// @Failure      401      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := ports.ListUsersFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
		Page:   intQueryParam(c, "page"),
		Limit:  intQueryParam(c, "limit"),
	}
	if raw := c.QueryParam("isActive"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}

	result, err := h.users.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListUsersResponse(result))
}

// Stats handles GET /v1/users/stats.
//
// @Summary      User directory statistics (admin)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userStatsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	result, err := h.users.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserStatsResponse(result))
}

// ChangeRole handles PUT /v1/users/:id/role.
//
// @Summary      Change a user's role (admin, not self)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Target subject id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  userMutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.ChangeRole(c.Request().Context(), requester, c.Param("id"), req.Role)
	if err != nil {
		return err
	}

	metrics.UserAdminActionsTotal.WithLabelValues("role_change").Inc()
	return c.JSON(http.StatusOK, userMutationResponse{
		Message: "user role updated successfully",
		User:    toUserResponse(user),
	})
}

// ToggleStatus handles PUT /v1/users/:id/status.
//
// @Summary      Toggle a user's active flag (admin, not self)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Target subject id"
// @Success      200 {object}  userMutationResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/users/{id}/status [put]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.users.ToggleStatus(c.Request().Context(), requester, c.Param("id"))
	if err != nil {
		return err
	}

	msg := "user deactivated successfully"
	if user.Active {
		msg = "user activated successfully"
	}
	metrics.UserAdminActionsTotal.WithLabelValues("status_toggle").Inc()
	return c.JSON(http.StatusOK, userMutationResponse{
		Message: msg,
		User:    toUserResponse(user),
	})
}

// Delete handles DELETE /v1/users/:id. Tasks referencing the deleted subject
// are kept; only the directory record goes away.
//
// @Summary      Delete a user (admin, not self)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Target subject id"
// @Success      200 {object}  messageResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	requester, err := middleware.UserFromContext(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), requester, c.Param("id")); err != nil {
		return err
	}

	metrics.UserAdminActionsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}

// intQueryParam parses a non-negative integer query parameter, returning 0
// when absent or malformed (services apply their own defaults).
func intQueryParam(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
