package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/apperror"
)

// sessionContextKey is the echo.Context key under which the validated
// session is stored for downstream handlers.
const sessionContextKey = "auth.session"

// RequireAuth returns middleware that rejects requests without a valid
// session cookie. On success the session is attached to the request context
// for handlers to read via GetSession.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return apperror.NewUnauthorized("authentication required")
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// GetSession returns the validated session attached by RequireAuth, or nil
// when the request did not pass through it.
func GetSession(c echo.Context) *Session {
	session, _ := c.Get(sessionContextKey).(*Session)
	return session
}

// getSessionToken extracts the session token from the request cookie.
// Returns an empty string if no cookie is present.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
