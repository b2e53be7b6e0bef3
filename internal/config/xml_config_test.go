package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texforge/backend/internal/convert"
	"github.com/texforge/backend/internal/intake"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "GEMINI_API_KEY", "GCP_PROJECT", "VERTEX_AI_REGION", "CONVERTER_BACKEND", "MODEL_PROFILE", "TEXFORGE_ENV"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_CreatesDefault(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "texforge.config.xml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8089, cfg.Server.Port)
	assert.Equal(t, convert.BackendGemini, cfg.Model.Backend)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<TexForge>")
	assert.Contains(t, string(data), "<MaxFileSizeBytes>10485760</MaxFileSizeBytes>")
}

func TestLoadConfig_ReadsFileAndKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "texforge.config.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<?xml version="1.0"?>
<TexForge>
  <Server><Port>9000</Port><BindAddress>127.0.0.1</BindAddress><BodyLimit>32M</BodyLimit></Server>
  <Upload>
    <MaxFileSizeBytes>5242880</MaxFileSizeBytes>
    <AcceptedTypes>application/pdf, image/png</AcceptedTypes>
  </Upload>
  <Model><Backend>stub</Backend><ProfilePath>profiles/fast.yaml</ProfilePath></Model>
  <Advanced><LogLevel>debug</LogLevel></Advanced>
</TexForge>`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.GetServerAddr())
	assert.Equal(t, convert.BackendStub, cfg.Model.Backend)
	assert.Equal(t, filepath.Join(dir, "profiles", "fast.yaml"), cfg.Model.ProfilePath)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	// Unset elements keep their defaults.
	assert.Equal(t, 60*time.Minute, cfg.BatchRetention())
	assert.Equal(t, "us-central1", cfg.Model.Region)

	ic := cfg.IntakeConfig()
	assert.Equal(t, int64(5242880), ic.MaxSize)
	assert.Equal(t, "5MB", ic.MaxSizeLabel())
	assert.Equal(t, []string{"application/pdf", "image/png"}, ic.AcceptedTypes)
	assert.Equal(t, intake.DefaultConfig().MaxConcurrentReads, ic.MaxConcurrentReads)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("GCP_PROJECT", "resume-prod")
	t.Setenv("VERTEX_AI_REGION", "europe-west4")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("TEXFORGE_ENV", "production")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "texforge.config.xml"))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	g := cfg.GeminiConfig()
	assert.Equal(t, "resume-prod", g.ProjectID)
	assert.Equal(t, "europe-west4", g.Region)
	assert.Equal(t, "secret", g.APIKey)
	assert.True(t, g.Configured())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadConfig_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte(`<TexForge><Model><Backend>openai</Backend></Model></TexForge>`), 0644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(broken, []byte(`<TexForge><Server>`), 0644))
	_, err = LoadConfig(broken)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Advanced.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}
