package http

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"regexp"
	"time"

	"github.com/oshokin/vk-album-grabber/internal/config"
	"github.com/oshokin/vk-album-grabber/internal/logger"
	"github.com/oshokin/vk-album-grabber/internal/utils"
)

// LogTransport is a custom http.RoundTripper that logs HTTP requests and responses at debug level.
// Access tokens found in query strings, form bodies or JSON payloads are redacted.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// maxLogLength is the maximum length of logged request/response data.
	maxLogLength uint64
}

var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")

	//nolint:gochecknoglobals // Immutable, pre-compiled patterns.
	secretPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(access_token=)[^&\s"]+`),
		regexp.MustCompile(`("access_token"\s*:\s*")[^"]*`),
	}
)

// NewLogTransport creates and returns a new instance of LogTransport.
// If maxLogLength is 0, it defaults to config.DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength uint64) http.RoundTripper {
	if maxLogLength == 0 {
		maxLogLength = config.DefaultMaxLogLength
	}

	return &LogTransport{
		next:         next,
		maxLogLength: maxLogLength,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	requestDump := t.dumpRequest(req)
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %s",
			req.Method, req.URL.Path, redactSecrets([]byte(err.Error())))

		return nil, err
	}

	responseDump := t.dumpResponse(resp)

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, duration, requestDump, responseDump)

	return resp, nil
}

func (t *LogTransport) dumpRequest(req *http.Request) string {
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return err.Error()
	}

	return t.truncate(redactSecrets(dump))
}

func (t *LogTransport) dumpResponse(resp *http.Response) string {
	// Image bodies are binary, only text payloads are worth dumping.
	contentType := resp.Header.Get("Content-Type")

	dump, err := httputil.DumpResponse(resp, utils.IsTextContentType(contentType))
	if err != nil {
		return err.Error()
	}

	return t.truncate(redactSecrets(dump))
}

func (t *LogTransport) truncate(data []byte) string {
	if uint64(len(data)) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}

	return string(data)
}

func redactSecrets(data []byte) []byte {
	for _, pattern := range secretPatterns {
		data = pattern.ReplaceAll(data, []byte("${1}"+redactedValue))
	}

	return data
}
