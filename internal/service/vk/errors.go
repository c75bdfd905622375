package vk

import (
	"context"
	"errors"
)

// Common errors for the service layer.
var (
	// ErrMalformedReference indicates that the album URL cannot be parsed.
	ErrMalformedReference = errors.New("malformed album reference")
	// ErrAlbumNotFound indicates that the album does not exist or is not visible.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrAlbumLookup indicates that album metadata could not be fetched.
	ErrAlbumLookup = errors.New("failed to look up album")
	// ErrDirectoryCreate indicates that the destination folder could not be created.
	ErrDirectoryCreate = errors.New("failed to create destination folder")
	// ErrPageFetch indicates that a page of photos could not be fetched.
	ErrPageFetch = errors.New("failed to fetch photos page")
	// ErrNoVariantAvailable indicates that a photo has no downloadable variant.
	ErrNoVariantAvailable = errors.New("photo has no downloadable variant")
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match expected size.
	ErrIncompleteDownload = errors.New("incomplete download")
	// ErrOutputFileExists indicates that the output file is already present.
	ErrOutputFileExists = errors.New("output file already exists")
)

// ErrorContext provides context information for per-photo errors.
type ErrorContext struct {
	Ordinal  int64
	PhotoID  int64
	Filename string
	Phase    string
}

// recordError records an error in the statistics with proper context.
// Context cancellation errors are ignored as they are expected during graceful shutdown.
func (s *ServiceImpl) recordError(errCtx *ErrorContext, err error) {
	if errCtx == nil || err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, DownloadError{
		Ordinal:      errCtx.Ordinal,
		PhotoID:      errCtx.PhotoID,
		Filename:     errCtx.Filename,
		Phase:        errCtx.Phase,
		ErrorMessage: err.Error(),
	})
}
