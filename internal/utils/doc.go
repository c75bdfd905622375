// Package utils provides helper functions for common tasks such as
// file and folder naming, pauses with jitter, and content type validation.
package utils
