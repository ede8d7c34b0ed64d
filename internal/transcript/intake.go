// Package transcript validates and decodes uploaded transcript files into
// usable text. Intake is stateless; callers own the decoded result.
package transcript

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"meetnotes/internal/services"
)

const (
	// DefaultMaxBytes caps uploaded transcripts at 10 MiB.
	DefaultMaxBytes = 10 * 1024 * 1024

	allowedExtension = ".txt"
)

// Intake validates uploaded transcript payloads.
type Intake struct {
	maxBytes int64
}

// NewIntake constructs an Intake with the given size ceiling. A non-positive
// ceiling falls back to DefaultMaxBytes.
func NewIntake(maxBytes int64) *Intake {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Intake{maxBytes: maxBytes}
}

// MaxBytes reports the configured upload ceiling.
func (i *Intake) MaxBytes() int64 {
	return i.maxBytes
}

// Process checks the claimed filename and payload, then decodes the bytes to
// text. UTF-8 is attempted first with an ISO 8859-1 fallback, mirroring how
// exported meeting transcripts commonly arrive from legacy tooling.
func (i *Intake) Process(filename string, data []byte) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), allowedExtension) {
		return "", services.Wrap(services.ErrValidation, "Only .txt files are allowed", nil)
	}
	if int64(len(data)) > i.maxBytes {
		return "", services.Wrap(services.ErrValidation, "File size too large. Maximum 10MB allowed", nil)
	}

	text, err := decodeText(data)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "File encoding not supported. Please use UTF-8", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", services.Wrap(services.ErrValidation, "File is empty", nil)
	}
	return text, nil
}

func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(decoded), nil
}
