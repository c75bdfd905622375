package vk

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/vk-album-grabber/internal/client/vk"
	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// Service downloads VK albums.
type Service interface {
	// DownloadAlbum saves every photo of the album into a fresh folder under outputPath.
	DownloadAlbum(ctx context.Context, source, outputPath string) (*RunResult, error)
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the album download engine.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// vkClient is the client for interacting with VK's API.
	vkClient vk.Client
	// progressReporter receives per-photo notifications.
	progressReporter ProgressReporter
	// stats tracks download statistics for the current run.
	stats *DownloadStatistics
	// statsMutex protects access to statistics.
	statsMutex *sync.Mutex
	// now returns the current time.
	now func() time.Time
}

// NewService creates a download service instance.
// A nil progressReporter is replaced by a LogProgressReporter.
func NewService(cfg *config.Config, vkClient vk.Client, progressReporter ProgressReporter) Service {
	return newService(cfg, vkClient, progressReporter)
}

func newService(cfg *config.Config, vkClient vk.Client, progressReporter ProgressReporter) *ServiceImpl {
	if progressReporter == nil {
		progressReporter = NewLogProgressReporter(cfg.DryRun)
	}

	return &ServiceImpl{
		cfg:              cfg,
		vkClient:         vkClient,
		progressReporter: progressReporter,
		stats:            new(DownloadStatistics),
		statsMutex:       new(sync.Mutex),
		now:              time.Now,
	}
}

// DownloadAlbum resolves the album, allocates its folder and saves the photos one by one.
// A failing photo is recorded and skipped. Setup and page failures abort the run,
// keeping the files that were already saved.
func (s *ServiceImpl) DownloadAlbum(ctx context.Context, source, outputPath string) (*RunResult, error) {
	runID := uuid.NewString()
	ctx = logger.WithKV(ctx, "run_id", runID)

	s.startRun(runID)
	defer s.finishRun()

	ref, err := ParseAlbumReference(source)
	if err != nil {
		return nil, err
	}

	album, err := s.LocateAlbum(ctx, ref)
	if err != nil {
		return nil, err
	}

	destination, err := s.AllocateDestination(ctx, outputPath, album.Title, ref)
	if err != nil {
		return nil, err
	}

	s.setAlbumDetails(album.Title, destination, album.Size)

	result := &RunResult{
		Destination: destination,
		Album:       album,
	}

	err = s.downloadPhotos(ctx, ref, album.Size, destination)

	s.finishRun()
	result.Statistics = s.snapshotStatistics()

	return result, err
}

// downloadPhotos walks the album and saves every photo.
func (s *ServiceImpl) downloadPhotos(ctx context.Context, ref *AlbumReference, total int64, destination string) error {
	logger.Infof(ctx, "Downloading %d photo(s) to %s", total, destination)

	for item, err := range s.EnumeratePhotos(ctx, ref, total) {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if item.Ordinal > 1 && !s.cfg.DryRun && s.cfg.ParsedMaxDownloadPause > 0 {
			if pauseErr := utils.RandomPause(ctx, 0, s.cfg.ParsedMaxDownloadPause); pauseErr != nil {
				return pauseErr
			}
		}

		s.downloadPhoto(ctx, destination, item, total)
	}

	return ctx.Err()
}

// downloadPhoto saves a single photo, recording any failure without stopping the run.
func (s *ServiceImpl) downloadPhoto(ctx context.Context, destination string, item *EnumeratedPhoto, total int64) {
	filename := outputFilename(item.Ordinal)

	errCtx := &ErrorContext{
		Ordinal:  item.Ordinal,
		PhotoID:  item.Photo.ID,
		Filename: filename,
	}

	event := &ProgressEvent{
		Ordinal:  item.Ordinal,
		Total:    total,
		Filename: filename,
		Progress: CalculateProgress(item.Ordinal-1, total),
	}

	variant, err := SelectBestVariant(item.Photo)
	if err != nil {
		errCtx.Phase = phaseSelectingQuality
		s.recordError(errCtx, err)
		s.incrementPhotoSkipped()
		s.progressReporter.ReportSkip(ctx, event, err)

		return
	}

	event.Quality = variant.Quality
	s.progressReporter.ReportStart(ctx, event)

	if s.cfg.DryRun {
		s.incrementPhotoDownloaded(0)

		event.Progress = CalculateProgress(item.Ordinal, total)
		s.progressReporter.ReportComplete(ctx, event)

		return
	}

	bytesWritten, err := s.downloadAndSavePhoto(ctx, variant.URL, filepath.Join(destination, filename))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Infof(ctx, "Download of %s interrupted", filename)

			return
		}

		errCtx.Phase = phaseDownloadingPhoto
		s.recordError(errCtx, err)
		s.incrementPhotoFailed()
		s.progressReporter.ReportFailure(ctx, event, err)

		return
	}

	s.incrementPhotoDownloaded(bytesWritten)

	event.BytesWritten = bytesWritten
	event.Progress = CalculateProgress(item.Ordinal, total)
	s.progressReporter.ReportComplete(ctx, event)
}
