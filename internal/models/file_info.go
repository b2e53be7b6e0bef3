// Package models contains domain types for the resume conversion service.
package models

import "time"

// FileHeader is the metadata of a candidate or accepted file.
type FileHeader struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
}

// UploadedFile is a file accepted into an upload session.
// Identity is positional: a file is addressed by its index in the session list.
type UploadedFile struct {
	FileHeader
	Content []byte `json:"-"`
}

// EncodedFile pairs an accepted file with its raw base64 encoding.
type EncodedFile struct {
	File   UploadedFile
	Base64 string
}

// FileMetadata describes one file of an ingested batch.
type FileMetadata struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	PageCount  int       `json:"pageCount,omitempty"` // PDFs only
}
