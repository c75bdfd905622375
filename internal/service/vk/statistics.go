package vk

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/vk-album-grabber/internal/logger"
)

const (
	// summarySeparator frames the download summary.
	summarySeparator = "═══════════════════════════════════════════════════════════════"

	// minReportedDuration hides durations too short to be meaningful.
	minReportedDuration = 100 * time.Millisecond
)

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// startRun resets the statistics for a new run.
func (s *ServiceImpl) startRun(runID string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats = &DownloadStatistics{
		RunID:     runID,
		StartTime: s.now(),
		IsDryRun:  s.cfg.DryRun,
	}
}

// finishRun stamps the end time of the run.
func (s *ServiceImpl) finishRun() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EndTime = s.now()
}

// setAlbumDetails stores the album details once they are known.
func (s *ServiceImpl) setAlbumDetails(title, destination string, totalPhotos int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.AlbumTitle = title
	s.stats.Destination = destination
	s.stats.TotalPhotos = totalPhotos
}

// snapshotStatistics returns a copy of the current statistics.
func (s *ServiceImpl) snapshotStatistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	snapshot := *s.stats
	snapshot.Errors = append([]DownloadError(nil), s.stats.Errors...)

	return snapshot
}

// incrementPhotoDownloaded increments the downloaded photos counter and adds bytes.
func (s *ServiceImpl) incrementPhotoDownloaded(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.PhotosDownloaded++
	s.stats.TotalPhotosProcessed++
	s.stats.TotalBytesDownloaded += bytes
}

// incrementPhotoSkipped increments the skipped photos counter.
func (s *ServiceImpl) incrementPhotoSkipped() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.PhotosSkipped++
	s.stats.TotalPhotosProcessed++
}

// incrementPhotoFailed increments the failed photos counter.
func (s *ServiceImpl) incrementPhotoFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.PhotosFailed++
	s.stats.TotalPhotosProcessed++
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats == nil || stats.TotalPhotosProcessed == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted, stats.IsDryRun)
	s.printPhotoStatistics(ctx, stats)
	s.printDataTransferStatistics(ctx, stats)
	logger.Info(ctx, summarySeparator)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted, isDryRun bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)

	switch {
	case isDryRun:
		logger.Info(ctx, "                  DRY-RUN PREVIEW")
	case wasInterrupted:
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	default:
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, summarySeparator)
}

// printPhotoStatistics prints the photo counters.
func (s *ServiceImpl) printPhotoStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.AlbumTitle != "" {
		logger.Infof(ctx, "Album:            %s", stats.AlbumTitle)
	}

	if stats.Destination != "" {
		logger.Infof(ctx, "Folder:           %s", stats.Destination)
	}

	logger.Infof(ctx, "Photos:           %d of %d processed", stats.TotalPhotosProcessed, stats.TotalPhotos)

	if stats.PhotosDownloaded > 0 {
		if stats.IsDryRun {
			logger.Infof(ctx, "  Would Download:  %d", stats.PhotosDownloaded)
		} else {
			logger.Infof(ctx, "  Downloaded:      %d", stats.PhotosDownloaded)
		}
	}

	if stats.PhotosSkipped > 0 {
		logger.Infof(ctx, "  No Variant:      %d", stats.PhotosSkipped)
	}

	if stats.PhotosFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.PhotosFailed)
	}

	if !stats.IsDryRun && stats.TotalPhotosProcessed > 0 {
		successRate := float64(stats.PhotosDownloaded) / float64(stats.TotalPhotosProcessed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.IsDryRun {
		return
	}

	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // TotalBytesDownloaded is never negative.
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded)))
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)
	if duration <= minReportedDuration {
		return
	}

	logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

	if stats.TotalBytesDownloaded > 0 {
		bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
		logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
	}
}

// printErrorDetails prints detailed error information if any errors occurred.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	for i := range stats.Errors {
		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s (photo #%d)", i+1, stats.Errors[i].Filename, stats.Errors[i].Ordinal)
		logger.Errorf(ctx, "      Photo ID: %d", stats.Errors[i].PhotoID)
		logger.Errorf(ctx, "      Phase: %s", stats.Errors[i].Phase)
		logger.Errorf(ctx, "      Error: %s", stats.Errors[i].ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, summarySeparator)
}

// printFinalMessage prints a helpful message based on download results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	if stats.IsDryRun {
		if stats.PhotosDownloaded > 0 {
			logger.Info(ctx, "")
			logger.Info(ctx, "To proceed with actual download, remove the --dry-run flag.")
		}

		return
	}

	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.PhotosDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d photo(s) before interruption.", stats.PhotosDownloaded)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", len(stats.Errors))
	case stats.PhotosDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	}
}
