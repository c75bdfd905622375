package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/vk-album-grabber/internal/app"
	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
)

const (
	// exitCodeSuccess is returned when the command completes.
	exitCodeSuccess = 0
	// exitCodeFailure is returned on any fatal error.
	exitCodeFailure = 1
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vk-album-grabber [flags] <album-url> [output-dir]",
		Short: "Download every photo of a VK album in the best available quality.",
		Long: `VK Album Grabber downloads all photos of a VK album.

Each photo is saved in its highest available resolution as image_<n>.jpg
into a new folder named after the album, created inside the output directory.
An existing folder is never reused: a timestamp suffix is added instead.

The album is given by its URL, for example:
  vk-album-grabber https://vk.com/album-1_123456 ./photos`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err = bindFlagsToConfig(cmd.Flags(), cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// The positional output directory takes precedence over --output.
			if len(args) > 1 {
				cfg.OutputPath = args[1]
			}

			logger.SetLevel(cfg.ParsedLogLevel)

			return app.ExecuteRootCommand(cmd.Context(), cfg, args[0])
		},
	}

	persistentFlags := rootCmd.PersistentFlags()

	persistentFlags.StringP(
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s' in the current or home directory)",
			config.DefaultConfigFilename))

	persistentFlags.String(
		"log-level",
		"",
		"logging level: debug, info, warn, error.")

	persistentFlags.String(
		"app-id",
		"",
		"VK application ID used to obtain an access token.")

	persistentFlags.String(
		"api-base-url",
		"",
		"base URL of the VK API.")

	persistentFlags.String(
		"oauth-base-url",
		"",
		"base URL of VK OAuth.")

	// Endpoint overrides are meant for testing against a local server.
	_ = persistentFlags.MarkHidden("api-base-url")
	_ = persistentFlags.MarkHidden("oauth-base-url")

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to create the album folder in (the path will be created if it doesn’t exist).")

	rootCmdFlags.StringP(
		"token",
		"t",
		"",
		"VK access token with the photos scope.")

	rootCmdFlags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500 kbps, 1 mbps, 1.5 mbps.")

	rootCmdFlags.Bool(
		"dry-run",
		false,
		"show what would be downloaded without creating folders or files.")

	rootCmdFlags.Bool(
		"no-progress",
		false,
		"hide the per-file progress bar.")

	rootCmd.AddCommand(newAuthCmd(), newVersionCmd())

	return rootCmd
}

// Execute runs the CLI and exits with its status code.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree with the given arguments and returns the exit code.
func run(args []string) int {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer stop()

	defer func() {
		_ = logger.Logger().Sync()
	}()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "%v", err)

		return exitCodeFailure
	}

	return exitCodeSuccess
}

// loadConfig reads the configuration file named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFilename, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	bindCommonFlagsToConfig(cmd.Flags(), cfg)

	return cfg, nil
}

// bindCommonFlagsToConfig applies the flags shared by all commands.
func bindCommonFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) {
	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	if flag := flags.Lookup("api-base-url"); flag != nil && flag.Changed {
		cfg.VKAPIBaseURL, _ = flags.GetString("api-base-url")
	}

	if flag := flags.Lookup("oauth-base-url"); flag != nil && flag.Changed {
		cfg.VKOAuthBaseURL, _ = flags.GetString("oauth-base-url")
	}

	if flag := flags.Lookup("app-id"); flag != nil && flag.Changed {
		cfg.AppID, _ = flags.GetString("app-id")
	}
}

// bindFlagsToConfig applies the download flags and validates the result.
func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	bindCommonFlagsToConfig(flags, cfg)

	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("token"); flag != nil && flag.Changed {
		cfg.AccessToken, _ = flags.GetString("token")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("dry-run"); flag != nil && flag.Changed {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}

	if flag := flags.Lookup("no-progress"); flag != nil && flag.Changed {
		noProgress, _ := flags.GetBool("no-progress")
		cfg.ShowProgressBar = !noProgress
	}

	return config.ValidateConfig(cfg)
}
