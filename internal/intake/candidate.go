package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/texforge/backend/internal/models"
)

// Candidate is a raw file handle produced by a selection, before validation.
type Candidate interface {
	Header() models.FileHeader
	Open() (io.ReadCloser, error)
}

// extensionTypes covers extensions the platform MIME table often lacks.
var extensionTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".htm":  "text/html",
	".html": "text/html",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var errNilCandidate = errors.New("no file")

// PathCandidate is a file on the local filesystem.
type PathCandidate struct {
	path   string
	header models.FileHeader
}

// NewPathCandidate stats path and detects its MIME type.
func NewPathCandidate(path string) (*PathCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	mimeType, err := DetectMIMEType(path)
	if err != nil {
		return nil, err
	}
	return &PathCandidate{
		path: path,
		header: models.FileHeader{
			Name:     filepath.Base(path),
			MIMEType: mimeType,
			Size:     info.Size(),
		},
	}, nil
}

// Path returns the filesystem path of the candidate.
func (p *PathCandidate) Path() string { return p.path }

// Header returns the zero header for a nil candidate, which validates as
// missing.
func (p *PathCandidate) Header() models.FileHeader {
	if p == nil {
		return models.FileHeader{}
	}
	return p.header
}

func (p *PathCandidate) Open() (io.ReadCloser, error) {
	if p == nil {
		return nil, errNilCandidate
	}
	return os.Open(p.path)
}

// BytesCandidate is an in-memory file.
type BytesCandidate struct {
	header models.FileHeader
	data   []byte
}

// NewBytesCandidate wraps data with the given name and MIME type.
func NewBytesCandidate(name, mimeType string, data []byte) *BytesCandidate {
	return &BytesCandidate{
		header: models.FileHeader{Name: name, MIMEType: mimeType, Size: int64(len(data))},
		data:   data,
	}
}

func (b *BytesCandidate) Header() models.FileHeader {
	if b == nil {
		return models.FileHeader{}
	}
	return b.header
}

func (b *BytesCandidate) Open() (io.ReadCloser, error) {
	if b == nil {
		return nil, errNilCandidate
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// DetectMIMEType resolves a MIME type from the file extension, falling back
// to content sniffing. Parameters such as charset are dropped.
func DetectMIMEType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return baseMediaType(t), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return baseMediaType(http.DetectContentType(head[:n])), nil
}

func baseMediaType(t string) string {
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(t, ";", 2)[0]))
	}
	return mediaType
}
