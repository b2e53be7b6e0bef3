package intake

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texforge/backend/internal/models"
)

// failingCandidate cannot be opened.
type failingCandidate struct {
	name string
}

func (f failingCandidate) Header() models.FileHeader {
	return models.FileHeader{Name: f.name, MIMEType: "image/png", Size: 10}
}

func (f failingCandidate) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

// shortCandidate declares more bytes than it delivers.
type shortCandidate struct{}

func (shortCandidate) Header() models.FileHeader {
	return models.FileHeader{Name: "short.txt", MIMEType: "text/plain", Size: 100}
}

func (shortCandidate) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("only a few")), nil
}

func TestEncoder_Encode(t *testing.T) {
	enc := NewEncoder(DefaultConfig())
	data := []byte("%PDF-1.4 resume body")

	out, err := enc.Encode(context.Background(), NewBytesCandidate("cv.pdf", "application/pdf", data))
	require.NoError(t, err)

	assert.Equal(t, base64.StdEncoding.EncodeToString(data), out.Base64)
	assert.NotContains(t, out.Base64, "data:")
	assert.Equal(t, data, out.File.Content)
	assert.Equal(t, "cv.pdf", out.File.Name)
	assert.Equal(t, "application/pdf", out.File.MIMEType)
	assert.Equal(t, int64(len(data)), out.File.Size)

	decoded, err := base64.StdEncoding.DecodeString(out.Base64)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestEncoder_EncodeIsIdempotent(t *testing.T) {
	enc := NewEncoder(DefaultConfig())
	c := NewBytesCandidate("a.txt", "text/plain", []byte("same content"))

	first, err := enc.Encode(context.Background(), c)
	require.NoError(t, err)
	second, err := enc.Encode(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, first.Base64, second.Base64)
}

func TestEncoder_EmptyFile(t *testing.T) {
	out, err := NewEncoder(DefaultConfig()).Encode(context.Background(), NewBytesCandidate("empty.txt", "text/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, "", out.Base64)
}

func TestEncoder_Failures(t *testing.T) {
	enc := NewEncoder(DefaultConfig())

	t.Run("unreadable", func(t *testing.T) {
		_, err := enc.Encode(context.Background(), failingCandidate{name: "locked.png"})
		var eerr *EncodingError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, "locked.png", eerr.Name)
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := enc.Encode(context.Background(), shortCandidate{})
		var eerr *EncodingError
		require.ErrorAs(t, err, &eerr)
		assert.Contains(t, err.Error(), "expected 100")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := enc.Encode(ctx, NewBytesCandidate("a.txt", "text/plain", []byte("x")))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEncoder_EncodeAllPreservesOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrentReads = 3
	enc := NewEncoder(cfg)

	var candidates []Candidate
	for i := 0; i < 20; i++ {
		payload := strings.Repeat(fmt.Sprintf("%02d", i), (20-i)*100)
		candidates = append(candidates, NewBytesCandidate(fmt.Sprintf("f%02d.txt", i), "text/plain", []byte(payload)))
	}

	out, err := enc.EncodeAll(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, out, len(candidates))
	for i, e := range out {
		assert.Equal(t, fmt.Sprintf("f%02d.txt", i), e.File.Name)
	}
}

func TestEncoder_EncodeAllFailsWhole(t *testing.T) {
	enc := NewEncoder(DefaultConfig())
	out, err := enc.EncodeAll(context.Background(), []Candidate{
		NewBytesCandidate("ok.txt", "text/plain", []byte("ok")),
		failingCandidate{name: "bad.png"},
	})
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestStripDataURI(t *testing.T) {
	assert.Equal(t, "QUJD", StripDataURI("data:image/png;base64,QUJD"))
	assert.Equal(t, "QUJD", StripDataURI("QUJD"))
	assert.Equal(t, "", StripDataURI(""))
}
