package app

import (
	"context"
	"fmt"

	vk_client "github.com/oshokin/vk-album-grabber/internal/client/vk"
	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	vk_service "github.com/oshokin/vk-album-grabber/internal/service/vk"
)

// ExecuteRootCommand downloads the album referenced by albumURL into cfg.OutputPath.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, albumURL string) error {
	vkClient, err := vk_client.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize VK client: %w", err)
	}

	s := vk_service.NewService(cfg, vkClient, nil)

	return runDownload(ctx, s, cfg, albumURL)
}

// runDownload runs the album download and always prints the summary afterwards.
func runDownload(ctx context.Context, s vk_service.Service, cfg *config.Config, albumURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)

			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	result, err := s.DownloadAlbum(ctx, albumURL, cfg.OutputPath)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		logger.Infof(ctx, "Dry run finished. Images would be downloaded to: %s", result.Destination)

		return nil
	}

	logger.Infof(ctx, "All done. Images were downloaded to: %s", result.Destination)

	return nil
}
