package models

// ConversionResult is the outcome of one submit attempt. It is never merged
// with a previous result; the next attempt replaces it.
type ConversionResult struct {
	Success      bool   `json:"success"`
	ArtifactText string `json:"latexCode,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Succeeded builds a successful result carrying the artifact text.
func Succeeded(latex string) ConversionResult {
	return ConversionResult{Success: true, ArtifactText: latex}
}

// Failed builds a failed result carrying a user-facing message.
func Failed(message string) ConversionResult {
	return ConversionResult{Success: false, Error: message}
}

// IngestResponse is the success envelope of the ingest endpoint.
type IngestResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	DocumentID   string         `json:"documentId"`
	FileMetadata []FileMetadata `json:"fileMetadata"`
}

// ConvertResponse is the success envelope of the convert endpoint.
type ConvertResponse struct {
	LatexCode string `json:"latexCode"`
}

// ErrorResponse is the failure envelope shared by both endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
