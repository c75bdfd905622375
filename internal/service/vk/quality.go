package vk

import (
	"fmt"

	"github.com/oshokin/vk-album-grabber/internal/client/vk"
)

// SelectBestVariant returns the variant with the highest quality tag.
// Variants with an empty URL are ignored.
func SelectBestVariant(photo *vk.Photo) (*PhotoVariant, error) {
	if photo == nil {
		return nil, ErrNoVariantAvailable
	}

	var best *PhotoVariant

	for quality, url := range photo.Variants {
		if url == "" {
			continue
		}

		if best == nil || quality > best.Quality {
			best = &PhotoVariant{
				Quality: quality,
				URL:     url,
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: photo %d", ErrNoVariantAvailable, photo.ID)
	}

	return best, nil
}
