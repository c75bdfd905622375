package vk

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/vk-album-grabber/internal/config"
	http_transport "github.com/oshokin/vk-album-grabber/internal/transport/http"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// Client defines the interface for interacting with the VK API.
type Client interface {
	// DownloadFromURL opens a streamed download of the specified URL.
	DownloadFromURL(ctx context.Context, url string) (*FetchResult, error)
	// GetAlbum retrieves metadata of a single album.
	GetAlbum(ctx context.Context, ownerID, albumID string) (*Album, error)
	// GetPhotos retrieves one page of album photos.
	GetPhotos(ctx context.Context, ownerID, albumID string, offset, count int64) (*PhotosPage, error)
	// GetBaseURL returns the base URL of the VK API.
	GetBaseURL() string
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// baseURL is the base URL for API method calls.
	baseURL string
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
	// albumsCache caches album metadata keyed by "<owner>_<album>".
	albumsCache *lru.Cache[string, *Album]
}

// NewClient creates and returns a new instance of ClientImpl.
func NewClient(cfg *config.Config) (Client, error) {
	baseURL, err := url.Parse(cfg.VKAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			utils.NewSimpleUserAgentProvider(http_transport.DefaultUserAgent)),
		Timeout: timeout,
	}

	albumsCache, err := lru.New[string, *Album](albumsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create albums cache: %w", err)
	}

	return &ClientImpl{
		cfg:         cfg,
		baseURL:     baseURL.String(),
		httpClient:  httpClient,
		albumsCache: albumsCache,
	}, nil
}

// DownloadFromURL opens a streamed download of the specified URL.
// The access token is not sent, photo URLs are pre-signed.
func (c *ClientImpl) DownloadFromURL(ctx context.Context, url string) (*FetchResult, error) {
	return withRetry(c, ctx, "download", func() (*FetchResult, int, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, 0, err
		}

		response, err := c.httpClient.Do(request)
		if err != nil {
			return nil, 0, err
		}

		if response.StatusCode != http.StatusOK {
			response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

			return nil, response.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
		}

		return &FetchResult{
			Body:       response.Body,
			TotalBytes: response.ContentLength,
		}, response.StatusCode, nil
	})
}

// GetAlbum retrieves metadata of a single album.
// Uses an LRU cache to avoid redundant API calls for the same album.
func (c *ClientImpl) GetAlbum(ctx context.Context, ownerID, albumID string) (*Album, error) {
	cacheKey := ownerID + "_" + albumID
	if cached, ok := c.albumsCache.Get(cacheKey); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("owner_id", ownerID)
	params.Set("album_ids", albumID)

	response, err := callMethod[GetAlbumsResponse](c, ctx, vkMethodPhotosGetAlbums, params)
	if err != nil {
		return nil, err
	}

	for _, album := range response.Items {
		if album != nil && strconv.FormatInt(album.ID, 10) == albumID {
			c.albumsCache.Add(cacheKey, album)

			return album, nil
		}
	}

	return nil, fmt.Errorf("%w: owner %s, album %s", ErrAlbumNotFound, ownerID, albumID)
}

// GetPhotos retrieves one page of album photos in album order.
func (c *ClientImpl) GetPhotos(
	ctx context.Context,
	ownerID, albumID string,
	offset, count int64,
) (*PhotosPage, error) {
	params := url.Values{}
	params.Set("owner_id", ownerID)
	params.Set("album_id", albumID)
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("count", strconv.FormatInt(count, 10))
	params.Set("photo_sizes", "1")

	response, err := callMethod[PhotosPage](c, ctx, vkMethodPhotosGet, params)
	if err != nil {
		return nil, err
	}

	return response, nil
}

// GetBaseURL returns the base URL of the VK API.
func (c *ClientImpl) GetBaseURL() string {
	return c.baseURL
}
