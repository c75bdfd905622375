// Package vk provides a client for the VK API methods needed to download photo albums.
// Method calls are sent as form-encoded POST requests so the access token never
// appears in URLs, VK error envelopes are decoded into *APIError, and transient
// failures (network errors, HTTP 429/5xx, VK rate limit codes) are retried
// with exponential backoff. Album metadata is cached in an LRU cache.
package vk
