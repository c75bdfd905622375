// Package http provides http.RoundTripper middleware for the API client:
// debug logging of requests and responses with secrets redacted,
// and User-Agent header injection.
package http
