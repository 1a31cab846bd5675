package validate

import (
	"mime"
	"strings"
)

// ContentType strips parameters from a Content-Type header value and
// lower-cases it. Values that do not parse are returned trimmed, so the
// use case can reject them.
func ContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(header))
	}

	return mediaType
}

// Base64Encoded reports whether the body was sent base64-encoded.
func Base64Encoded(transferEncoding string) bool {
	return strings.EqualFold(strings.TrimSpace(transferEncoding), "base64")
}
