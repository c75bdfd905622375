package vk

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/oshokin/vk-album-grabber/internal/client/vk"
	"github.com/oshokin/vk-album-grabber/internal/logger"
)

// ParseAlbumReference extracts owner and album IDs from an album URL
// such as https://vk.com/album-123_456 or from a bare "album<owner>_<album>" token.
func ParseAlbumReference(source string) (*AlbumReference, error) {
	segment := lastPathSegment(strings.TrimSpace(source))

	ownerPart, albumID, found := strings.Cut(segment, "_")
	if !found {
		return nil, fmt.Errorf("%w: '%s' has no underscore", ErrMalformedReference, source)
	}

	ownerID, found := strings.CutPrefix(ownerPart, albumReferencePrefix)
	if !found {
		return nil, fmt.Errorf("%w: '%s' does not start with '%s'", ErrMalformedReference, source, albumReferencePrefix)
	}

	if !isNumericToken(ownerID, true) || !isNumericToken(albumID, false) {
		return nil, fmt.Errorf("%w: '%s' must contain numeric owner and album IDs", ErrMalformedReference, source)
	}

	return &AlbumReference{
		OwnerID: ownerID,
		AlbumID: albumID,
		Source:  source,
	}, nil
}

// LocateAlbum fetches the metadata of the referenced album.
func (s *ServiceImpl) LocateAlbum(ctx context.Context, ref *AlbumReference) (*vk.Album, error) {
	album, err := s.vkClient.GetAlbum(ctx, ref.OwnerID, ref.AlbumID)
	if err != nil {
		if errors.Is(err, vk.ErrAlbumNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, ref)
		}

		return nil, fmt.Errorf("%w %s: %w", ErrAlbumLookup, ref, err)
	}

	if album == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlbumNotFound, ref)
	}

	logger.Debugf(ctx, "Album '%s' (%s) has %d photos", album.Title, ref, album.Size)

	return album, nil
}

// lastPathSegment returns the last path segment with query, fragment and trailing slashes removed.
func lastPathSegment(source string) string {
	rawPath := source

	if parsedURL, err := url.Parse(source); err == nil {
		rawPath = parsedURL.Path
	} else if index := strings.IndexAny(source, "?#"); index >= 0 {
		rawPath = source[:index]
	}

	rawPath = strings.TrimRight(rawPath, "/")
	if rawPath == "" {
		return ""
	}

	return path.Base(rawPath)
}

// isNumericToken reports whether the token is a non-empty decimal number.
// A leading minus sign is accepted only when allowNegative is set.
func isNumericToken(token string, allowNegative bool) bool {
	digits := token
	if allowNegative {
		digits = strings.TrimPrefix(token, "-")
	}

	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return false
	}

	_, err := strconv.ParseInt(token, 10, 64)

	return err == nil
}
