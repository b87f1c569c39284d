package resume

import "fmt"

// UnsupportedTypeError indicates the attachment is not a PDF or Word document.
type UnsupportedTypeError struct {
	ContentType string
	Filename    string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported resume type %q for %s (expected PDF or Word)", e.ContentType, e.Filename)
}

// ParseError indicates a document that matched a supported type but could not
// be decoded. Callers treat this as a per-attachment failure.
type ParseError struct {
	Filename string
	Cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse resume %s: %v", e.Filename, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
