package vk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEmptyResponse indicates that the API returned neither a response nor an error.
	ErrEmptyResponse = errors.New("empty API response")
	// ErrAlbumNotFound indicates that the API has no album with the requested ID.
	ErrAlbumNotFound = errors.New("album not found")
	// ErrAuthorizationFailed matches API errors caused by an invalid or expired token.
	ErrAuthorizationFailed = errors.New("authorization failed")
	// ErrAccessDenied matches API errors caused by privacy settings.
	ErrAccessDenied = errors.New("access denied")
)

// APIError is the error object VK returns instead of a response.
type APIError struct {
	// Code is the numeric VK error code.
	Code int `json:"error_code"`
	// Message is the human readable description.
	Message string `json:"error_msg"`
	// RequestParams echoes the request parameters.
	RequestParams []*RequestParam `json:"request_params,omitempty"`
}

// RequestParam is a single echoed request parameter.
type RequestParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("VK API error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is match API errors against the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthorizationFailed:
		return e.Code == APIErrorCodeAuthorizationFailed
	case ErrAccessDenied:
		return e.Code == APIErrorCodeAccessDenied || e.Code == APIErrorCodeAlbumAccessDenied
	default:
		return false
	}
}

// IsTransient reports whether repeating the same request may succeed.
func (e *APIError) IsTransient() bool {
	switch e.Code {
	case APIErrorCodeUnknown,
		APIErrorCodeTooManyRequests,
		APIErrorCodeFloodControl,
		APIErrorCodeInternalServer:
		return true
	default:
		return false
	}
}
