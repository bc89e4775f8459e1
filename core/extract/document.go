package extract

import (
	"errors"
	"fmt"
	"mime"
	"strings"
)

var (
	// ErrNoDocument is returned when no document, or an empty one, is given.
	ErrNoDocument = errors.New("no document provided")

	// ErrUnsupportedType is returned for content types other than image/*
	// and application/pdf.
	ErrUnsupportedType = errors.New("unsupported document type")
)

// Document is the input to an extraction: the raw bytes of an image or PDF.
type Document struct {
	Name     string
	MimeType string
	Data     []byte
}

// Size returns the document size in bytes.
func (d *Document) Size() int {
	return len(d.Data)
}

// Validate reports whether d can be sent to the model.
func (d *Document) Validate() error {
	if d == nil || len(d.Data) == 0 {
		return ErrNoDocument
	}
	if !SupportedType(d.MimeType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, d.MimeType)
	}
	return nil
}

// SupportedType reports whether mimeType is an image type or PDF.
// Parameters such as "; charset=binary" are ignored.
func SupportedType(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/") || mediaType == "application/pdf"
}
