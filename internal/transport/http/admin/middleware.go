package admin

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/brightwealth/summit/internal/presentation/http/response"
	"github.com/brightwealth/summit/internal/service/adminauth"
	"github.com/brightwealth/summit/pkg/errorbank"
)

// sessionContextKey is where the middleware stashes the authenticated
// session for downstream handlers.
const sessionContextKey = "admin.session"

// requireSession rejects requests without a valid bearer token. The
// error detail carries the path that was asked for so the client can
// return to it after signing in.
func (h *Handler) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return response.New(c).WithError(errorbank.Unauthorized("authentication required",
				errorbank.WithDetail("requested_path", c.Request().URL.Path))).Build()
		}

		session, err := h.svc.Authenticate(c.Request().Context(), token)
		if err != nil {
			appErr := errorbank.From(err)
			return response.New(c).WithError(errorbank.Unauthorized(appErr.Message(),
				errorbank.WithDetail("requested_path", c.Request().URL.Path))).Build()
		}

		c.Set(sessionContextKey, session)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func sessionFrom(c echo.Context) *adminauth.Session {
	session, _ := c.Get(sessionContextKey).(*adminauth.Session)
	return session
}
