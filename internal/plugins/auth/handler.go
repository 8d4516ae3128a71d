package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/apperror"
	"github.com/kunospw/b-log/internal/config"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "blog_session"

// Handler handles HTTP requests for authentication (login, logout, me).
// Handlers are thin: they bind the request, call the service, and render the
// response. No business logic lives here.
type Handler struct {
	service AuthService
	cfg     *config.Config
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service AuthService, cfg *config.Config) *Handler {
	return &Handler{service: service, cfg: cfg}
}

// Login authenticates the admin and sets the session cookie (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return apperror.NewBadRequest("email and password are required")
	}

	token, user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, user)
}

// Logout destroys the session and clears the cookie (POST /logout).
// Logging out without a session is not an error.
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		if err := h.service.DestroySession(c.Request().Context(), token); err != nil {
			return err
		}
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the session's account details (GET /me). Guarded by RequireAuth.
func (h *Handler) Me(c echo.Context) error {
	session := GetSession(c)
	if session == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	return c.JSON(http.StatusOK, session)
}

// setSessionCookie attaches the session token as an HttpOnly cookie. The
// Secure flag follows the environment: plain HTTP is fine in development,
// production sits behind TLS.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	})
}
