package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// RequireRole permits the request only when the bound user's role is one of
// allowedRoles. Must run after Guard.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := UserFromContext(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[user.Role]; !ok {
				return fmt.Errorf("%w: requires role %s", domain.ErrForbidden, strings.Join(allowedRoles, " or "))
			}
			return next(c)
		}
	}
}

// RequirePermission permits the request only when the bound user's derived
// permission set contains permission. Must run after Guard.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := UserFromContext(c)
			if err != nil {
				return err
			}
			if !domain.HasPermission(user.Role, permission) {
				return fmt.Errorf("%w: requires permission %s", domain.ErrForbidden, permission)
			}
			return next(c)
		}
	}
}
