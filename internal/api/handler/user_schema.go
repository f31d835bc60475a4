package handler

import "time"

// Wire types for the user surface. JSON field names follow the SPA contract
// (camelCase), intentionally decoupled from internal naming.

type profilePayload struct {
	Avatar      string `json:"avatar,omitempty"`
	Department  string `json:"department,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type userResponse struct {
	ID          string          `json:"id"`
	SubjectID   string          `json:"subjectId"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Role        string          `json:"role"`
	Permissions []string        `json:"permissions"`
	IsActive    bool            `json:"isActive"`
	LastLogin   time.Time       `json:"lastLogin"`
	Profile     *profilePayload `json:"profile,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

type updateProfileRequest struct {
	DisplayName *string         `json:"displayName" validate:"omitempty,min=1,max=50"`
	Profile     *profilePayload `json:"profile"`
}

type userMutationResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user manager admin"`
}

type paginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type listUsersResponse struct {
	Users      []userResponse     `json:"users"`
	Pagination paginationResponse `json:"pagination"`
}

type userStatsPayload struct {
	TotalUsers    int64 `json:"totalUsers"`
	ActiveUsers   int64 `json:"activeUsers"`
	InactiveUsers int64 `json:"inactiveUsers"`
	Admins        int64 `json:"admins"`
	Managers      int64 `json:"managers"`
	Users         int64 `json:"users"`
}

type recentUserPayload struct {
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type userStatsResponse struct {
	Stats       userStatsPayload    `json:"stats"`
	RecentUsers []recentUserPayload `json:"recentUsers"`
}
