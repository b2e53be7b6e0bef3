package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texforge/backend/internal/models"
)

func TestStubConverter(t *testing.T) {
	s := NewStubConverter()
	assert.Equal(t, BackendStub, s.Name())

	out, err := s.Convert(context.Background(), []models.UploadedFile{
		{FileHeader: models.FileHeader{Name: "my_cv#1.pdf", MIMEType: "application/pdf", Size: 42}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "\\documentclass")
	assert.Contains(t, out, `my\_cv\#1.pdf`)
	assert.Contains(t, out, "42 bytes")

	again, err := s.Convert(context.Background(), []models.UploadedFile{
		{FileHeader: models.FileHeader{Name: "my_cv#1.pdf", MIMEType: "application/pdf", Size: 42}},
	})
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = s.Convert(context.Background(), nil)
	assert.Error(t, err)
}

func TestEscapeLaTeX(t *testing.T) {
	assert.Equal(t, `50\% \& \$5 \{x\} a\textbackslash{}b`, EscapeLaTeX(`50% & $5 {x} a\b`))
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), BackendStub, GeminiConfig{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendStub, c.Name())

	_, err = New(context.Background(), "openai", GeminiConfig{}, nil, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), BackendGemini, GeminiConfig{}, nil, nil)
	assert.Error(t, err)
}

func TestGeminiConfig_Configured(t *testing.T) {
	assert.False(t, GeminiConfig{}.Configured())
	assert.False(t, GeminiConfig{ProjectID: "p"}.Configured())
	assert.True(t, GeminiConfig{ProjectID: "p", Region: "us-central1"}.Configured())
}
