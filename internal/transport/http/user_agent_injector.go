package http

import (
	"net/http"

	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// UserAgentInjector is a custom http.RoundTripper that sets the User-Agent header
// on requests that do not carry one.
type UserAgentInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// userAgentProvider provides the User-Agent string to inject.
	userAgentProvider utils.UserAgentProvider
}

const userAgentHeader = "User-Agent"

// NewUserAgentInjector creates and returns a new instance of UserAgentInjector.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
	}
}

// RoundTrip implements the http.RoundTripper interface.
// The request is cloned before modification as required by the RoundTripper contract.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if req.Header.Get(userAgentHeader) != "" {
		return t.next.RoundTrip(req)
	}

	cloned := req.Clone(req.Context())
	cloned.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())

	return t.next.RoundTrip(cloned)
}
