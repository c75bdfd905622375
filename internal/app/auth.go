package app

import (
	"context"
	"fmt"

	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/service/auth"
)

// ExecuteAuthLoginCommand executes the auth login command.
// It opens a browser, waits for the user to grant access, and saves
// the received access token to the configuration file.
func ExecuteAuthLoginCommand(ctx context.Context, cfg *config.Config) error {
	logger.Info(ctx, "Starting authentication process")

	authService, err := auth.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize authentication service: %w", err)
	}

	return login(ctx, authService, cfg)
}

// login obtains a token through the service and persists it.
func login(ctx context.Context, authService auth.Service, cfg *config.Config) error {
	token, err := authService.LoginAndExtractToken(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cfg.AccessToken = token.AccessToken

	if err = config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "Authentication complete! You can now download albums.")
	logger.Info(ctx, "")
	logger.Info(ctx, "Try downloading an album:")
	logger.Info(ctx, "vk-album-grabber https://vk.com/album-1_123456")

	return nil
}
