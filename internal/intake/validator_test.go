package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(DefaultConfig())

	tests := []struct {
		name       string
		candidate  Candidate
		wantReason string
	}{
		{
			name:      "png under limit",
			candidate: NewBytesCandidate("photo.png", "image/png", make([]byte, 2*1024*1024)),
		},
		{
			name:      "pdf exactly at limit",
			candidate: NewBytesCandidate("cv.pdf", "application/pdf", make([]byte, DefaultMaxSize)),
		},
		{
			name:      "docx",
			candidate: NewBytesCandidate("cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("x")),
		},
		{
			name:       "missing",
			candidate:  nil,
			wantReason: ReasonMissing,
		},
		{
			name:       "typed nil bytes candidate",
			candidate:  (*BytesCandidate)(nil),
			wantReason: ReasonMissing,
		},
		{
			name:       "typed nil path candidate",
			candidate:  (*PathCandidate)(nil),
			wantReason: ReasonMissing,
		},
		{
			name:       "unsupported type",
			candidate:  NewBytesCandidate("song.mp3", "audio/mpeg", []byte("x")),
			wantReason: ReasonUnsupported,
		},
		{
			name:       "one byte over",
			candidate:  NewBytesCandidate("big.pdf", "application/pdf", make([]byte, DefaultMaxSize+1)),
			wantReason: "File size exceeds the maximum limit of 10MB",
		},
		{
			name:       "type checked before size",
			candidate:  NewBytesCandidate("big.zip", "application/zip", make([]byte, DefaultMaxSize+1)),
			wantReason: ReasonUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.candidate)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantReason, verr.Reason)
			assert.Equal(t, tt.wantReason, err.Error())
		})
	}
}

func TestValidator_ValidateAllReturnsFirstFailure(t *testing.T) {
	v := NewValidator(DefaultConfig())
	err := v.ValidateAll([]Candidate{
		NewBytesCandidate("a.png", "image/png", []byte("a")),
		NewBytesCandidate("b.exe", "application/octet-stream", []byte("b")),
		NewBytesCandidate("c.pdf", "application/pdf", make([]byte, DefaultMaxSize+1)),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "b.exe", verr.Name)
	assert.Equal(t, ReasonUnsupported, verr.Reason)
}

func TestConfig_Custom(t *testing.T) {
	cfg := Config{AcceptedTypes: ParseAcceptedTypes(" Image/PNG, text/plain ,"), MaxSize: 512 * 1024}
	v := NewValidator(cfg)

	assert.Equal(t, []string{"image/png", "text/plain"}, cfg.AcceptedTypes)
	assert.Equal(t, "0.5MB", cfg.MaxSizeLabel())
	assert.True(t, cfg.Accepts("IMAGE/PNG"))
	assert.False(t, cfg.Accepts("application/pdf"))

	err := v.Validate(NewBytesCandidate("a.txt", "text/plain", make([]byte, 512*1024+1)))
	require.Error(t, err)
	assert.Equal(t, "File size exceeds the maximum limit of 0.5MB", err.Error())
}
