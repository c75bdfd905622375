package vk

import (
	"context"
	"fmt"
	"iter"

	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
)

// EnumeratePhotos lazily walks the album page by page in API order.
// Ordinals are 1-based and continue across page boundaries.
// A page that cannot be fetched yields ErrPageFetch and ends the sequence.
func (s *ServiceImpl) EnumeratePhotos(
	ctx context.Context,
	ref *AlbumReference,
	total int64,
) iter.Seq2[*EnumeratedPhoto, error] {
	return func(yield func(*EnumeratedPhoto, error) bool) {
		if total <= 0 {
			return
		}

		pageSize := s.pageSize()
		pagesCount := (total + pageSize - 1) / pageSize

		var ordinal int64

		for pageIndex := range pagesCount {
			offset := pageIndex * pageSize

			logger.Debugf(ctx, "Fetching page %d/%d (offset %d)", pageIndex+1, pagesCount, offset)

			page, err := s.vkClient.GetPhotos(ctx, ref.OwnerID, ref.AlbumID, offset, pageSize)
			if err != nil {
				yield(nil, fmt.Errorf("%w %d/%d: %w", ErrPageFetch, pageIndex+1, pagesCount, err))

				return
			}

			if page == nil {
				continue
			}

			for _, photo := range page.Items {
				if photo == nil {
					continue
				}

				ordinal++

				if !yield(&EnumeratedPhoto{Ordinal: ordinal, Photo: photo}, nil) {
					return
				}
			}
		}
	}
}

// pageSize returns the configured page size clamped to the API maximum.
func (s *ServiceImpl) pageSize() int64 {
	if s.cfg.PageSize <= 0 || s.cfg.PageSize > config.MaxPageSize {
		return config.MaxPageSize
	}

	return s.cfg.PageSize
}
