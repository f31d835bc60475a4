package handler

import (
	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:          u.ID,
		SubjectID:   u.SubjectID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Permissions: domain.PermissionsFor(u.Role),
		IsActive:    u.Active,
		LastLogin:   u.LastLogin.UTC(),
		CreatedAt:   u.CreatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
	if u.Profile != nil {
		resp.Profile = &profilePayload{
			Avatar:      u.Profile.Avatar,
			Department:  u.Profile.Department,
			PhoneNumber: u.Profile.PhoneNumber,
		}
	}
	return resp
}

func toListUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	users := make([]userResponse, len(r.Users))
	for i, u := range r.Users {
		users[i] = toUserResponse(u)
	}
	return listUsersResponse{
		Users:      users,
		Pagination: toPaginationResponse(r.Page),
	}
}

func toPaginationResponse(p ports.Page) paginationResponse {
	return paginationResponse{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		Total:       p.Total,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

func toUserStatsResponse(r *ports.UserStatsResult) userStatsResponse {
	recent := make([]recentUserPayload, len(r.Recent))
	for i, u := range r.Recent {
		recent[i] = recentUserPayload{
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Role:        u.Role,
			CreatedAt:   u.CreatedAt.UTC(),
		}
	}
	return userStatsResponse{
		Stats: userStatsPayload{
			TotalUsers:    r.Stats.Total,
			ActiveUsers:   r.Stats.Active,
			InactiveUsers: r.Stats.Inactive,
			Admins:        r.Stats.Admins,
			Managers:      r.Stats.Managers,
			Users:         r.Stats.Users,
		},
		RecentUsers: recent,
	}
}
