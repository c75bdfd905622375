package vk

const (
	// vkMethodPhotosGetAlbums returns album metadata.
	vkMethodPhotosGetAlbums = "photos.getAlbums"
	// vkMethodPhotosGet returns one page of album photos.
	vkMethodPhotosGet = "photos.get"
)

const (
	// albumsCacheSize defines the maximum number of album entries to cache.
	albumsCacheSize = 1000
)

// VK API error codes.
const (
	// APIErrorCodeUnknown is returned for unknown server-side failures.
	APIErrorCodeUnknown = 1
	// APIErrorCodeAuthorizationFailed is returned for an invalid or expired access token.
	APIErrorCodeAuthorizationFailed = 5
	// APIErrorCodeTooManyRequests is returned when too many requests per second are made.
	APIErrorCodeTooManyRequests = 6
	// APIErrorCodeFloodControl is returned when the same action is repeated too often.
	APIErrorCodeFloodControl = 9
	// APIErrorCodeInternalServer is returned for internal VK server errors.
	APIErrorCodeInternalServer = 10
	// APIErrorCodeAccessDenied is returned when the content is not accessible.
	APIErrorCodeAccessDenied = 15
	// APIErrorCodeInvalidParameter is returned when a request parameter is invalid.
	APIErrorCodeInvalidParameter = 100
	// APIErrorCodeAlbumAccessDenied is returned when the album is private.
	APIErrorCodeAlbumAccessDenied = 200
)

// sizeTypeQualities maps VK photo size types to the maximum dimension they historically had.
// It is used for old uploads where the API reports zero width and height.
//
//nolint:gochecknoglobals // Immutable lookup table.
var sizeTypeQualities = map[string]int{
	"s": 75,
	"m": 130,
	"x": 604,
	"y": 807,
	"z": 1280,
	"w": 2560,
}
