package vk

import (
	"os"
	"strconv"
	"time"

	"github.com/oshokin/vk-album-grabber/internal/client/vk"
	"github.com/oshokin/vk-album-grabber/internal/constants"
)

const (
	// outputFilenamePrefix prefixes the ordinal of every saved photo.
	outputFilenamePrefix = "image_"

	// albumReferencePrefix precedes the owner ID in the last URL segment.
	albumReferencePrefix = "album"

	// copyChunkSize is the size of the buffer used to stream a photo to disk.
	copyChunkSize = 1024

	// maxDestinationAttempts bounds the number of folder names tried for one album.
	maxDestinationAttempts = 10

	// Phases recorded with per-photo errors.
	phaseSelectingQuality = "selecting quality"
	phaseDownloadingPhoto = "downloading photo"
)

const (
	// File options for creating a new file (fails if the file already exists).
	createNewFileOptions = os.O_CREATE | os.O_EXCL | os.O_WRONLY

	// defaultFolderPermissions sets the permissions for created folders.
	defaultFolderPermissions = constants.DefaultFolderPermissions
)

// AlbumReference identifies an album by owner and album ID.
type AlbumReference struct {
	// OwnerID is the numeric owner token, negative for communities.
	OwnerID string
	// AlbumID is the numeric album token.
	AlbumID string
	// Source is the original string the reference was parsed from.
	Source string
}

// String returns the canonical "album<owner>_<album>" form.
func (r *AlbumReference) String() string {
	return albumReferencePrefix + r.OwnerID + "_" + r.AlbumID
}

// EnumeratedPhoto is a photo together with its 1-based position in the album.
type EnumeratedPhoto struct {
	Ordinal int64
	Photo   *vk.Photo
}

// PhotoVariant is a single downloadable resolution of a photo.
type PhotoVariant struct {
	// Quality is the resolution marker, higher is better.
	Quality int
	URL     string
}

// RunResult describes a finished or aborted album download.
type RunResult struct {
	// Destination is the folder the photos were written to.
	Destination string
	Album       *vk.Album
	Statistics  DownloadStatistics
}

// DownloadStatistics tracks the outcome of a run.
type DownloadStatistics struct {
	// RunID identifies the run in logs.
	RunID string
	// AlbumTitle is the title of the downloaded album.
	AlbumTitle string
	// Destination is the folder the photos were written to.
	Destination string
	// TotalPhotos is the album size reported by the API.
	TotalPhotos int64
	// TotalPhotosProcessed counts every enumerated photo.
	TotalPhotosProcessed int64
	// PhotosDownloaded counts saved photos (or photos that would be saved in dry-run mode).
	PhotosDownloaded int64
	// PhotosSkipped counts photos without any variant.
	PhotosSkipped int64
	// PhotosFailed counts photos whose download or write failed.
	PhotosFailed int64
	// TotalBytesDownloaded is the number of bytes written to disk.
	TotalBytesDownloaded int64
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
	// IsDryRun indicates whether the run only previewed the download.
	IsDryRun bool
	// Errors lists per-photo failures.
	Errors []DownloadError
}

// DownloadError describes a failed or skipped photo.
type DownloadError struct {
	// Ordinal is the position of the photo in the album.
	Ordinal int64
	// PhotoID is the VK photo ID.
	PhotoID int64
	// Filename is the output file name the photo was assigned.
	Filename string
	// Phase indicates when the error occurred.
	Phase string
	// ErrorMessage is the error text.
	ErrorMessage string
}

// outputFilename returns the file name of the photo with the given ordinal.
func outputFilename(ordinal int64) string {
	return outputFilenamePrefix + strconv.FormatInt(ordinal, 10) + constants.ExtensionJPG
}
