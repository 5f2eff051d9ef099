package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	userIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_.@:+-]{1,128}$`)
	imageIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// ValidateUserID rejects ids that would not survive as the first segment of
// a storage key.
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("invalid userId format (letters, digits and _ . @ : + - only, max 128 chars)")
	}
	return nil
}

// ValidateImageID validates image ID format
func ValidateImageID(imageID string) error {
	if !imageIDPattern.MatchString(imageID) {
		return fmt.Errorf("invalid imageId format")
	}
	return nil
}

// ValidateFilename only needs a non-empty base name; the extension is
// whatever follows the last dot.
func ValidateFilename(name string) error {
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("filename must not contain path separators")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	return strings.TrimSpace(StripControl(input))
}

// StripControl drops null bytes and control characters but keeps
// surrounding whitespace.
func StripControl(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
