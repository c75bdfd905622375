package vk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/vk-album-grabber/internal/constants"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// downloadAndSavePhoto streams the image at imageURL into destinationPath.
// The bytes go to a unique .part file first, which is renamed on success and removed otherwise.
// An existing destination file is never overwritten.
func (s *ServiceImpl) downloadAndSavePhoto(ctx context.Context, imageURL, destinationPath string) (int64, error) {
	exists, err := utils.IsPathExist(destinationPath)
	if err != nil {
		return 0, fmt.Errorf("failed to check output file: %w", err)
	}

	if exists {
		return 0, fmt.Errorf("%w: %s", ErrOutputFileExists, destinationPath)
	}

	fetchResult, err := s.vkClient.DownloadFromURL(ctx, imageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch photo: %w", err)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	tempFilePath := destinationPath + "." + uuid.NewString() + constants.ExtensionPart

	f, err := os.OpenFile(filepath.Clean(tempFilePath), createNewFileOptions, constants.DefaultFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	// If the download doesn't succeed, the .part file is removed on function exit.
	var downloadSucceeded bool

	defer func() {
		if f != nil {
			_ = f.Close()
		}

		if downloadSucceeded {
			return
		}

		if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v", tempFilePath, removeErr)
		}
	}()

	writer := s.newDownloadWriter(f, fetchResult.TotalBytes, filepath.Base(destinationPath))

	bytesWritten, err := s.copyWithSpeedLimit(ctx, writer, fetchResult.Body)
	if err != nil {
		return bytesWritten, fmt.Errorf("failed to write file: %w", err)
	}

	if fetchResult.TotalBytes >= 0 && bytesWritten != fetchResult.TotalBytes {
		return bytesWritten, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			fetchResult.TotalBytes,
		)
	}

	closeErr := f.Close()
	f = nil

	if closeErr != nil {
		return bytesWritten, fmt.Errorf("failed to close temporary file: %w", closeErr)
	}

	if err = os.Rename(tempFilePath, destinationPath); err != nil {
		return bytesWritten, fmt.Errorf("failed to finalize file: %w", err)
	}

	downloadSucceeded = true

	return bytesWritten, nil
}

// newDownloadWriter adds a byte progress bar to the file writer when output is shown at info level.
func (s *ServiceImpl) newDownloadWriter(f io.Writer, totalBytes int64, description string) io.Writer {
	if !s.cfg.ShowProgressBar || logger.Level() > zap.InfoLevel {
		return f
	}

	bar := progressbar.DefaultBytes(totalBytes, description)

	return io.MultiWriter(f, bar)
}

// copyWithSpeedLimit copies src to dst in fixed-size chunks.
// With a speed limit, at most ParsedDownloadSpeedLimit bytes are copied per second.
func (s *ServiceImpl) copyWithSpeedLimit(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	limit := s.cfg.ParsedDownloadSpeedLimit
	if limit <= 0 {
		buffer := make([]byte, copyChunkSize)

		// Wrapping hides ReaderFrom and WriterTo so the buffer size is honored.
		return io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, buffer)
	}

	var total int64

	for {
		n, err := io.CopyN(dst, src, limit)
		total += n

		if errors.Is(err, io.EOF) {
			return total, nil
		}

		if err != nil {
			return total, err
		}

		if err = utils.Sleep(ctx, time.Second); err != nil {
			return total, err
		}
	}
}
