package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudalaiyandi2004/cyber-backend/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both values must be
// present (presence proves the middleware ran) and the role must be a known
// one, otherwise the token is structurally valid but operationally unusable.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	role, _ = c.Get("role").(string)
	if userID == "" || !domain.ValidRole(role) {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
