package app

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/plugins/ai"
	"github.com/kunospw/b-log/internal/plugins/auth"
	"github.com/kunospw/b-log/internal/plugins/media"
	"github.com/kunospw/b-log/internal/plugins/posts"
)

// RegisterRoutes sets up all application routes. It constructs each plugin's
// repository/service/handler chain and delegates to the plugin's route
// registration function.
//
// This is the single place where all routes are aggregated. When a new
// plugin is added, its routes are registered here.
func (a *App) RegisterRoutes(ctx context.Context) error {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Auth Plugin ---
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, a.Redis, a.Config.Auth.SessionTTL)

	// Provision the admin account on first startup if the users table is empty.
	if err := auth.EnsureAdmin(ctx, authService, a.Config.Auth); err != nil {
		return err
	}

	authHandler := auth.NewHandler(authService, a.Config)
	auth.RegisterRoutes(e, authHandler)

	// RequireAuth guards every admin route below.
	requireAuth := auth.RequireAuth(authService)

	// --- Posts Plugin (public reads, authenticated writes) ---
	postRepo := posts.NewPostRepository(a.DB)
	postService := posts.NewPostService(postRepo)
	postHandler := posts.NewHandler(postService)
	posts.RegisterRoutes(e, postHandler, requireAuth)

	// --- Media Plugin (cover image uploads) ---
	uploader, err := media.NewS3Uploader(ctx, a.Config.ImageHost)
	if err != nil {
		return err
	}
	mediaService := media.NewMediaService(uploader, a.Config.ImageHost)
	mediaHandler := media.NewHandler(mediaService)
	media.RegisterRoutes(e, mediaHandler, requireAuth)

	// --- AI Plugin (content generation and summaries) ---
	aiService := ai.NewGeminiService(a.Config.AI)
	aiHandler := ai.NewHandler(aiService)
	ai.RegisterRoutes(e, aiHandler, requireAuth)

	return nil
}
