package vk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// AllocateDestination creates a fresh folder for the album under basePath.
// The folder is named after the album title; if that name is taken,
// a timestamp suffix is appended until an unused name is found.
// The returned folder never existed before the call.
// In dry-run mode nothing is created and the first free name is returned.
func (s *ServiceImpl) AllocateDestination(
	ctx context.Context,
	basePath, title string,
	ref *AlbumReference,
) (string, error) {
	if !s.cfg.DryRun {
		err := os.MkdirAll(basePath, defaultFolderPermissions)
		if err != nil {
			return "", fmt.Errorf("%w '%s': %w", ErrDirectoryCreate, basePath, err)
		}
	}

	folderName := s.albumFolderName(title, ref)

	for attempt := range maxDestinationAttempts {
		candidate := filepath.Join(basePath, folderName)
		if attempt > 0 {
			candidate += s.collisionSuffix(attempt)
		}

		exists, err := utils.IsPathExist(candidate)
		if err != nil {
			return "", fmt.Errorf("%w '%s': %w", ErrDirectoryCreate, candidate, err)
		}

		if exists {
			logger.Debugf(ctx, "Folder '%s' already exists, trying another name", candidate)

			continue
		}

		if s.cfg.DryRun {
			logger.Infof(ctx, "[DRY-RUN] Would create folder: %s", candidate)

			return candidate, nil
		}

		err = os.Mkdir(candidate, defaultFolderPermissions)
		if err == nil {
			return candidate, nil
		}

		// Someone else took the name between the check and the creation.
		if os.IsExist(err) {
			continue
		}

		return "", fmt.Errorf("%w '%s': %w", ErrDirectoryCreate, candidate, err)
	}

	return "", fmt.Errorf("%w: no free name for '%s' after %d attempts",
		ErrDirectoryCreate, folderName, maxDestinationAttempts)
}

// albumFolderName turns the album title into a safe folder name.
func (s *ServiceImpl) albumFolderName(title string, ref *AlbumReference) string {
	name := utils.NormalizeFolderName(title, int(s.cfg.MaxFolderNameLength))
	if name == "" || name == "_" {
		return ref.String()
	}

	return name
}

// collisionSuffix returns "-<unix seconds>.<microseconds>", plus the attempt number after the first retry.
func (s *ServiceImpl) collisionSuffix(attempt int) string {
	now := s.now()

	suffix := fmt.Sprintf("-%d.%06d", now.Unix(), now.Nanosecond()/1000)
	if attempt > 1 {
		suffix += "-" + strconv.Itoa(attempt)
	}

	return suffix
}
