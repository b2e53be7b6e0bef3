// Package intake validates, reads and encodes candidate files before they
// enter an upload session.
package intake

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMaxSize is the per-file size cap (10MB).
const DefaultMaxSize int64 = 10 * 1024 * 1024

// DefaultAcceptedTypes lists the MIME types accepted for resume conversion.
var DefaultAcceptedTypes = []string{
	// Images
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
	"image/heif",
	// Documents
	"application/pdf",
	"text/plain",
	"text/html",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Config is the accepted-type set and size bound shared by the Validator,
// the Encoder and the server-side ingest check.
type Config struct {
	AcceptedTypes []string
	MaxSize       int64
	// MaxConcurrentReads bounds the encoder fan-out. Zero means unbounded.
	MaxConcurrentReads int
}

// DefaultConfig returns the stock accepted types and a 10MB size cap.
func DefaultConfig() Config {
	types := make([]string, len(DefaultAcceptedTypes))
	copy(types, DefaultAcceptedTypes)
	return Config{
		AcceptedTypes:      types,
		MaxSize:            DefaultMaxSize,
		MaxConcurrentReads: 8,
	}
}

// ParseAcceptedTypes splits a comma separated MIME list.
func ParseAcceptedTypes(list string) []string {
	var types []string
	for _, t := range strings.Split(list, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Accepts reports whether mimeType is in the accepted set.
func (c Config) Accepts(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, t := range c.AcceptedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// MaxSizeLabel renders the size cap in megabytes, e.g. "10MB".
func (c Config) MaxSizeLabel() string {
	mb := float64(c.MaxSize) / (1024 * 1024)
	return strconv.FormatFloat(mb, 'f', -1, 64) + "MB"
}

func (c Config) String() string {
	return fmt.Sprintf("%d types, max %s", len(c.AcceptedTypes), c.MaxSizeLabel())
}
