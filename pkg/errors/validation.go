package errors

import (
	"strings"
	"unicode"
)

// Delimiters reserved by the distortion wire format. A node identity that
// contains one of them cannot be sent to the service without corrupting the
// edge list.
const (
	EdgeSeparator     = "-"
	EndpointSeparator = ","
	SegmentSeparator  = "_"
)

// ValidateNodeID validates a node identity read from an edge-list file.
//
// Rules:
//   - No empty identities
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeParse, "node identity cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeParse, "node identity too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeParse, "node identity %q contains control characters", id)
		}
	}

	return nil
}

// ValidateWireID reports whether id can be carried by the distortion wire
// format. Identities containing '-', ',' or '_' are rejected.
func ValidateWireID(id string) error {
	for _, sep := range []string{EdgeSeparator, EndpointSeparator, SegmentSeparator} {
		if strings.Contains(id, sep) {
			return New(ErrCodeInvalidInput, "node identity %q contains reserved character %q", id, sep)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
