package submit

import "fmt"

// Phase identifies which remote call failed.
type Phase string

const (
	PhaseIngest  Phase = "ingest"
	PhaseConvert Phase = "convert"
)

// Fallback messages used when a response carries no error field.
const (
	FallbackIngestMessage  = "Failed to upload files"
	FallbackConvertMessage = "Failed to convert resume to LaTeX"
)

// TransportError is a non-2xx response or a network failure in one phase.
// Message is safe to show to the user.
type TransportError struct {
	Phase   Phase
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Phase, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Phase, e.Status, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
