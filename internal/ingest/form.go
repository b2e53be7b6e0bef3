package ingest

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/models"
)

// FormFile adapts a multipart file header to an intake candidate.
type FormFile struct {
	fh *multipart.FileHeader
}

// FromMultipart wraps every file header.
func FromMultipart(headers []*multipart.FileHeader) []intake.Candidate {
	out := make([]intake.Candidate, 0, len(headers))
	for _, fh := range headers {
		out = append(out, &FormFile{fh: fh})
	}
	return out
}

func (f *FormFile) Header() models.FileHeader {
	if f == nil || f.fh == nil {
		return models.FileHeader{}
	}
	return models.FileHeader{
		Name:     f.fh.Filename,
		MIMEType: declaredType(f.fh.Header.Get("Content-Type")),
		Size:     f.fh.Size,
	}
}

func (f *FormFile) Open() (io.ReadCloser, error) {
	return f.fh.Open()
}

func declaredType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// ReadAll reads every candidate concurrently. Files that cannot be read are
// skipped and reported by name; the rest keep their input order.
func ReadAll(ctx context.Context, files []intake.Candidate, limit int) ([]models.UploadedFile, []string) {
	slots := make([]*models.UploadedFile, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			h := f.Header()
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				return nil
			}
			h.Size = int64(len(data))
			slots[i] = &models.UploadedFile{FileHeader: h, Content: data}
			return nil
		})
	}
	_ = g.Wait()

	read := make([]models.UploadedFile, 0, len(files))
	var skipped []string
	for i, slot := range slots {
		if slot == nil {
			skipped = append(skipped, files[i].Header().Name)
			continue
		}
		read = append(read, *slot)
	}
	return read, skipped
}
