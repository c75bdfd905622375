package vk

import (
	"context"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/vk-album-grabber/internal/logger"
)

// ProgressEvent describes a photo being processed.
type ProgressEvent struct {
	// Ordinal is the 1-based position of the photo in the album.
	Ordinal int64
	// Total is the album size.
	Total int64
	// Quality is the quality tag of the chosen variant.
	Quality int
	// Filename is the output file name.
	Filename string
	// Progress is the album completion percentage rounded to two decimals.
	Progress float64
	// BytesWritten is set once the photo is saved.
	BytesWritten int64
}

// ProgressReporter receives per-photo progress notifications.
type ProgressReporter interface {
	// ReportStart is called before a photo is downloaded.
	ReportStart(ctx context.Context, event *ProgressEvent)
	// ReportComplete is called after a photo is saved.
	ReportComplete(ctx context.Context, event *ProgressEvent)
	// ReportSkip is called when a photo has nothing to download.
	ReportSkip(ctx context.Context, event *ProgressEvent, err error)
	// ReportFailure is called when a photo could not be saved.
	ReportFailure(ctx context.Context, event *ProgressEvent, err error)
}

// LogProgressReporter writes progress through the application logger.
type LogProgressReporter struct {
	isDryRun bool
}

// NewLogProgressReporter creates a reporter that logs every event.
func NewLogProgressReporter(isDryRun bool) *LogProgressReporter {
	return &LogProgressReporter{isDryRun: isDryRun}
}

// ReportStart logs the intended download.
func (r *LogProgressReporter) ReportStart(ctx context.Context, event *ProgressEvent) {
	if r.isDryRun {
		logger.Infof(ctx, "[DRY-RUN] Would download photo %d/%d with quality %d to %s",
			event.Ordinal, event.Total, event.Quality, event.Filename)

		return
	}

	logger.Infof(ctx, "Downloading photo %d/%d with quality %d [%s%%]",
		event.Ordinal, event.Total, event.Quality, formatProgress(event.Progress))
}

// ReportComplete logs a saved photo.
func (r *LogProgressReporter) ReportComplete(ctx context.Context, event *ProgressEvent) {
	if r.isDryRun {
		return
	}

	//nolint:gosec // BytesWritten is never negative.
	logger.Infof(ctx, "Saved %s (%s) [%s%%]",
		event.Filename, humanize.Bytes(uint64(event.BytesWritten)), formatProgress(event.Progress))
}

// ReportSkip logs a skipped photo.
func (r *LogProgressReporter) ReportSkip(ctx context.Context, event *ProgressEvent, err error) {
	logger.Warnf(ctx, "Skipping photo %d/%d: %v", event.Ordinal, event.Total, err)
}

// ReportFailure logs a failed photo.
func (r *LogProgressReporter) ReportFailure(ctx context.Context, event *ProgressEvent, err error) {
	logger.Errorf(ctx, "Failed to download photo %d/%d to %s: %v", event.Ordinal, event.Total, event.Filename, err)
}

// CalculateProgress returns 100*completed/total rounded to two decimals.
func CalculateProgress(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return math.Round(float64(completed)*100*100/float64(total)) / 100
}

// formatProgress prints the percentage without trailing zeros.
func formatProgress(progress float64) string {
	return strconv.FormatFloat(progress, 'f', -1, 64)
}
