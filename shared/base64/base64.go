package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

var extensions = map[string]string{
	"application/pdf": "pdf",
	"image/png":       "png",
	"image/jpeg":      "jpg",
	"image/jpg":       "jpg",
	"image/webp":      "webp",
}

// GetContentType returns the media type of a base64 data URL, or "" when s is not one.
func GetContentType(s string) string {
	if !strings.HasPrefix(s, dataPrefix) {
		return ""
	}

	end := strings.Index(s, base64Marker)
	if end == -1 {
		return ""
	}

	return s[len(dataPrefix):end]
}

// DecodedSize is the payload size in bytes without decoding it.
func DecodedSize(s string) int {
	idx := strings.Index(s, base64Marker)
	if idx == -1 {
		return len(s)
	}

	payload := strings.TrimRight(s[idx+len(base64Marker):], "=")

	return len(payload) * 3 / 4
}

// Decode splits a data URL into its media type and raw bytes.
func Decode(s string) (contentType string, data []byte, err error) {
	contentType = GetContentType(s)
	if contentType == "" {
		return "", nil, ErrInvalidDataURL
	}

	payload := s[strings.Index(s, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return contentType, data, nil
}

// Extension maps a media type to a file extension, "bin" when unknown.
func Extension(contentType string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}

	return "bin"
}
