package vk

import "io"

// Album represents VK photo album metadata.
type Album struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Size is the number of photos in the album.
	Size    int64 `json:"size"`
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// Photo represents a single photo.
type Photo struct {
	ID      int64
	OwnerID int64
	AlbumID int64
	Date    int64
	Text    string
	// Variants maps a quality tag (the longest side in pixels) to the image URL.
	Variants map[int]string
}

// PhotoSize is an entry of the "sizes" array returned by newer API versions.
type PhotoSize struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Src    string `json:"src"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PhotosPage is a page of photos returned by photos.get.
type PhotosPage struct {
	// Count is the total number of photos in the album, not in the page.
	Count int64    `json:"count"`
	Items []*Photo `json:"items"`
}

// GetAlbumsResponse is the response of photos.getAlbums.
type GetAlbumsResponse struct {
	Count int64    `json:"count"`
	Items []*Album `json:"items"`
}

// FetchResult holds a streamed download.
type FetchResult struct {
	// Body must be closed by the caller.
	Body io.ReadCloser
	// TotalBytes is the content length or -1 when unknown.
	TotalBytes int64
}

// FetchJSONResult represents the result of a JSON fetch operation.
type FetchJSONResult[T any] struct {
	// Data contains the parsed JSON data.
	Data *T
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// apiResponse is the VK response envelope.
type apiResponse[T any] struct {
	Response *T       `json:"response"`
	Error    *APIError `json:"error"`
}
