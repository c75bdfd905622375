package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/vk-album-grabber/internal/app"
	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
)

// newAuthCmd builds the auth command group.
func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication management commands",
		Long: `Manage authentication for VK.

Use 'auth login' to log in via browser and save an access token.`,
	}

	authLoginCmd := &cobra.Command{
		Use:   "login",
		Short: "Login to VK and save an access token",
		Long: `Opens a browser window with the VK authorization dialog.

The login process:
1. Browser opens the VK OAuth page of your application (--app-id or app_id in the config)
2. Log in to VK if needed
3. Allow access to photos
4. The browser closes once VK hands over the access token

The token is saved to the configuration file, after that you can download albums:
vk-album-grabber https://vk.com/album-1_123456`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err = config.ValidateAuthConfig(cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger.SetLevel(cfg.ParsedLogLevel)

			return app.ExecuteAuthLoginCommand(cmd.Context(), cfg)
		},
	}

	authCmd.AddCommand(authLoginCmd)

	return authCmd
}
