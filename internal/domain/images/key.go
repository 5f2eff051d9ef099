package images

import (
	"fmt"
	"net/url"
	"strings"
)

// DecodeKey undoes notification escaping: '+' becomes a space, then
// percent-escapes are decoded.
func DecodeKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("decode key %q: %w", raw, err)
	}
	return key, nil
}

// OwnerFromKey returns the key up to its first '/'. A key without a
// separator is its own owner.
func OwnerFromKey(key string) (string, error) {
	owner, _, _ := strings.Cut(key, "/")
	if owner == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingOwner, key)
	}
	return owner, nil
}

// FileExtension is the text after the last '.', or the whole name when no
// dot is present.
func FileExtension(filename string) string {
	return filename[strings.LastIndex(filename, ".")+1:]
}

// UploadKey is {userId}/{uniqueId}.{ext}
func UploadKey(userID, uniqueID, filename string) string {
	return fmt.Sprintf("%s/%s.%s", userID, uniqueID, FileExtension(filename))
}
