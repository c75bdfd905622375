package utils

import (
	"context"
	"math"
	"math/rand/v2"
	"mime"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// invalidCharsPattern includes ASCII control characters (0-31) and Windows-restricted characters: < > : " / \ | ? *.
	//nolint:gochecknoglobals // This is immutable, pre-compiled regex pattern and used as a constant.
	invalidCharsPattern = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

	// textContentTypePatterns is a slice of regular expressions that match content types
	// considered to be text-based. This includes "text/*", "application/json", and
	// "application/samlmetadata+xml".
	//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
	textContentTypePatterns = []*regexp.Regexp{
		regexp.MustCompile("^text/.+"),
		regexp.MustCompile("^application/json$"),
		regexp.MustCompile(`^application/samlmetadata\+xml`),
	}

	// windowsReservedNames is a map of filenames that are reserved on Windows systems.
	// These names are case-insensitive and cannot be used as filenames or folder names.
	//nolint:gochecknoglobals // This is an immutable map used as a constant for validation purposes.
	windowsReservedNames = map[string]struct{}{
		"CON":  {},
		"PRN":  {},
		"AUX":  {},
		"NUL":  {},
		"COM1": {},
		"COM2": {},
		"COM3": {},
		"COM4": {},
		"COM5": {},
		"COM6": {},
		"COM7": {},
		"COM8": {},
		"COM9": {},
		"LPT1": {},
		"LPT2": {},
		"LPT3": {},
		"LPT4": {},
		"LPT5": {},
		"LPT6": {},
		"LPT7": {},
		"LPT8": {},
		"LPT9": {},
	}
)

// SafeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}

// SanitizeFilename sanitizes a filename or folder name to be valid on both Windows and Unix-like systems.
// It removes or replaces invalid characters, handles Windows reserved names, and ensures the filename is not empty.
func SanitizeFilename(name string) string {
	if name == "" {
		return ""
	}

	result := invalidCharsPattern.ReplaceAllString(name, "_")

	// Extract base filename (without extension) for comparison.
	baseName := result
	if dotIndex := strings.LastIndex(result, "."); dotIndex != -1 {
		baseName = result[:dotIndex]
	}

	// If base name is a Windows reserved name, prepend an underscore.
	if _, ok := windowsReservedNames[strings.ToUpper(baseName)]; ok {
		result = "_" + result
	}

	// Remove trailing dots and spaces, both are stripped silently by Windows.
	result = strings.TrimRight(result, ". ")

	// Ensure the filename is not empty.
	if result == "" {
		result = "_"
	}

	return result
}

// NormalizeFolderName turns arbitrary text into a safe folder name.
// The text is converted to Unicode NFC form, sanitized and truncated to maxLength runes.
// A non-positive maxLength disables truncation.
func NormalizeFolderName(name string, maxLength int) string {
	result := norm.NFC.String(strings.TrimSpace(name))
	if result == "" {
		return ""
	}

	result = TruncateRunes(SanitizeFilename(result), maxLength)

	// Truncation may leave a trailing dot or space behind.
	return SanitizeFilename(result)
}

// TruncateRunes cuts the string to at most maxLength runes.
// A non-positive maxLength returns the string unchanged.
func TruncateRunes(value string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(value) <= maxLength {
		return value
	}

	runes := []rune(value)

	return string(runes[:maxLength])
}

// RandomPause pauses execution for a random duration between min and max values.
// It returns early with the context error if the context is cancelled.
func RandomPause(ctx context.Context, minPause, maxPause time.Duration) error {
	// Ensure minPause is always less than or equal to maxPause.
	if minPause > maxPause {
		minPause, maxPause = maxPause, minPause
	}

	randomDelay := minPause
	if maxPause > minPause {
		randomDelay += time.Duration(
			//nolint:gosec // math/rand/v2 is fine for jitter.
			rand.Int64N(int64(maxPause - minPause)),
		)
	}

	return Sleep(ctx, randomDelay)
}

// Sleep waits for the given duration or until the context is done.
func Sleep(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExponentialBackoff returns the pause before the retry with the given zero-based attempt number.
// The pause doubles with each attempt starting from minPause, is capped at maxPause
// and is jittered into the upper half of that window.
func ExponentialBackoff(attempt int, minPause, maxPause time.Duration) time.Duration {
	if minPause <= 0 {
		return 0
	}

	if maxPause < minPause {
		maxPause = minPause
	}

	pause := maxPause
	if attempt < 62 {
		if scaled := minPause << attempt; scaled > 0 && scaled < maxPause {
			pause = scaled
		}
	}

	half := pause / 2
	if half <= 0 {
		return pause
	}

	//nolint:gosec // math/rand/v2 is fine for jitter.
	return half + time.Duration(rand.Int64N(int64(pause-half)+1))
}

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// IsPathExist checks if anything (file or directory) exists at the specified path.
func IsPathExist(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// IsTextContentType checks if the given content type represents a text-based format.
// It supports common text content types like "text/*", "application/json", and "application/samlmetadata+xml".
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}
