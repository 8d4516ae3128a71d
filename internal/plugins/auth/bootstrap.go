package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kunospw/b-log/internal/config"
)

// EnsureAdmin provisions the admin account on first startup. When the users
// table is empty and ADMIN_EMAIL/ADMIN_PASSWORD are configured, it creates
// the account; when the table already has a user, it does nothing.
//
// Without configured credentials the server still starts, but every
// authenticated route will reject until an account exists. That is a
// deliberate degradation for local development against a fresh database.
func EnsureAdmin(ctx context.Context, service AuthService, cfg config.AuthConfig) error {
	hasUsers, err := service.HasUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking for existing users: %w", err)
	}
	if hasUsers {
		return nil
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		slog.Warn("no users exist and ADMIN_EMAIL/ADMIN_PASSWORD are unset; authenticated routes will reject all requests")
		return nil
	}

	if _, err := service.CreateAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("provisioning admin account: %w", err)
	}

	return nil
}
