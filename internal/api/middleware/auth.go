package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/api/metrics"
	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// userContextKey is where the guard binds the resolved user on the echo
// context. Downstream gates and handlers read it via UserFromContext.
// identityContextKey carries the verified token identity alongside it, for
// operations that act on the credential itself (logout).
const (
	userContextKey     = "auth_user"
	identityContextKey = "auth_identity"
)

// Guard is the authorization guard applied to every protected route:
//
//  1. Extract the bearer credential; missing or malformed → 401.
//  2. Verify it with the identity provider; expired / revoked / invalid
//     failures propagate with their classification.
//  3. Resolve the directory record, provisioning one on first sight.
//  4. Reject deactivated accounts.
//  5. Bind the resolved user to the request context.
//
// Step 3 writes on every authenticated request (create or last-login stamp);
// both are idempotent in effect.
func Guard(verifier ports.IdentityVerifier, users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ctx := c.Request().Context()

			identity, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) ||
					errors.Is(err, domain.ErrTokenRevoked) ||
					errors.Is(err, domain.ErrTokenInvalid) {
					metrics.AuthDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				} else {
					metrics.AuthDecisionsTotal.WithLabelValues("error").Inc()
				}
				return err
			}

			user, err := users.EnsureUser(ctx, identity)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("error").Inc()
				return err
			}

			if !user.Active {
				metrics.AuthDecisionsTotal.WithLabelValues("deactivated").Inc()
				return domain.ErrAccountDeactivated
			}

			metrics.AuthDecisionsTotal.WithLabelValues("ok").Inc()
			c.Set(userContextKey, user)
			c.Set(identityContextKey, identity)

			return next(c)
		}
	}
}

// UserFromContext returns the user bound by Guard. A missing user means the
// gate chain was misconfigured; that is reported as 401, not 500, so a
// misrouted handler never serves data.
func UserFromContext(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(userContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

// IdentityFromContext returns the verified token identity bound by Guard.
func IdentityFromContext(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return identity, nil
}
