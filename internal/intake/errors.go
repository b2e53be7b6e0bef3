package intake

import "fmt"

// Validation failure reasons, surfaced verbatim to the user.
const (
	ReasonMissing     = "No file selected"
	ReasonUnsupported = "File type not supported"
)

// ValidationError is a client-local rejection of a candidate file.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// EncodingError reports unreadable or unencodable file content.
type EncodingError struct {
	Name string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("failed to read file: %v", e.Err)
	}
	return fmt.Sprintf("failed to read %s: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
