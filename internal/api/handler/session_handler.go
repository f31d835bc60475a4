package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-tracker/internal/api/middleware"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

// defaultRevocationTTL bounds the revocation entry when the token carries no
// expiry claim.
const defaultRevocationTTL = 24 * time.Hour

// SessionHandler acts on the presented credential itself rather than on a
// directory resource.
type SessionHandler struct {
	revoker ports.TokenRevoker
}

func NewSessionHandler(revoker ports.TokenRevoker) *SessionHandler {
	return &SessionHandler{revoker: revoker}
}

// Logout handles POST /v1/logout. The presented token is revoked until its
// own expiry, so it can no longer pass the guard. Tokens without an id cannot
// be revoked individually and simply age out.
//
// @Summary      Revoke the presented token
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	identity, err := middleware.IdentityFromContext(c)
	if err != nil {
		return err
	}

	if identity.TokenID != "" {
		ttl := defaultRevocationTTL
		if !identity.ExpiresAt.IsZero() {
			ttl = time.Until(identity.ExpiresAt)
		}
		if ttl > 0 {
			if err := h.revoker.Revoke(c.Request().Context(), identity.TokenID, ttl); err != nil {
				return fmt.Errorf("revoke token: %w", err)
			}
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out successfully"})
}
