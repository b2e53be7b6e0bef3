// Package config provides XML-based configuration management for the
// conversion server.
package config

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/texforge/backend/internal/convert"
	"github.com/texforge/backend/internal/intake"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"TexForge"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Upload validation and retention
	Upload UploadConfig `xml:"Upload"`

	// Model backend
	Model ModelConfig `xml:"Model"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// UploadConfig contains server-side upload rules
type UploadConfig struct {
	MaxFileSizeBytes       int64  `xml:"MaxFileSizeBytes"`
	AcceptedTypes          string `xml:"AcceptedTypes"`
	VerifyPDF              bool   `xml:"VerifyPDF"`
	MaxConcurrentReads     int    `xml:"MaxConcurrentReads"`
	BatchRetentionMinutes  int    `xml:"BatchRetentionMinutes"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes"`
}

// ModelConfig selects and configures the conversion backend
type ModelConfig struct {
	Backend        string `xml:"Backend"`
	ProjectID      string `xml:"ProjectID"`
	Region         string `xml:"Region"`
	APIKey         string `xml:"APIKey"`
	ProfilePath    string `xml:"ProfilePath"`
	TimeoutSeconds int    `xml:"TimeoutSeconds"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	Environment          string `xml:"Environment"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	intakeDefaults := intake.DefaultConfig()
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 180,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Upload: UploadConfig{
			MaxFileSizeBytes:       intakeDefaults.MaxSize,
			AcceptedTypes:          strings.Join(intakeDefaults.AcceptedTypes, ","),
			VerifyPDF:              true,
			MaxConcurrentReads:     intakeDefaults.MaxConcurrentReads,
			BatchRetentionMinutes:  60,
			CleanupIntervalMinutes: 5,
		},
		Model: ModelConfig{
			Backend:        convert.BackendGemini,
			Region:         "us-central1",
			TimeoutSeconds: 150,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			Environment:          "development",
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		return config, config.Validate()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- TexForge Server Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Server.BodyLimit, validation.Required),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validation.ValidateStruct(&c.Upload,
		validation.Field(&c.Upload.MaxFileSizeBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Upload.AcceptedTypes, validation.Required),
		validation.Field(&c.Upload.BatchRetentionMinutes, validation.Min(1)),
		validation.Field(&c.Upload.CleanupIntervalMinutes, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := validation.ValidateStruct(&c.Model,
		validation.Field(&c.Model.Backend, validation.Required, validation.In(convert.BackendGemini, convert.BackendStub)),
	); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := validation.ValidateStruct(&c.Advanced,
		validation.Field(&c.Advanced.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("advanced: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Model.APIKey = key
	}
	if project := os.Getenv("GCP_PROJECT"); project != "" {
		c.Model.ProjectID = project
	}
	if region := os.Getenv("VERTEX_AI_REGION"); region != "" {
		c.Model.Region = region
	}
	if backend := os.Getenv("CONVERTER_BACKEND"); backend != "" {
		c.Model.Backend = backend
	}
	if profile := os.Getenv("MODEL_PROFILE"); profile != "" {
		c.Model.ProfilePath = profile
	}
	if env := os.Getenv("TEXFORGE_ENV"); env != "" {
		c.Advanced.Environment = env
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Model.ProfilePath != "" && !filepath.IsAbs(c.Model.ProfilePath) {
		c.Model.ProfilePath = filepath.Join(configDir, c.Model.ProfilePath)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// IntakeConfig returns the upload rules shared with the client-side validator.
func (c *AppConfig) IntakeConfig() intake.Config {
	cfg := intake.DefaultConfig()
	cfg.MaxSize = c.Upload.MaxFileSizeBytes
	if types := intake.ParseAcceptedTypes(c.Upload.AcceptedTypes); len(types) > 0 {
		cfg.AcceptedTypes = types
	}
	if c.Upload.MaxConcurrentReads > 0 {
		cfg.MaxConcurrentReads = c.Upload.MaxConcurrentReads
	}
	return cfg
}

// GeminiConfig returns the Vertex AI connection settings.
func (c *AppConfig) GeminiConfig() convert.GeminiConfig {
	return convert.GeminiConfig{
		ProjectID: c.Model.ProjectID,
		Region:    c.Model.Region,
		APIKey:    c.Model.APIKey,
	}
}

// ConvertTimeout bounds a single model call.
func (c *AppConfig) ConvertTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

// BatchRetention is how long ingested batches are remembered.
func (c *AppConfig) BatchRetention() time.Duration {
	return time.Duration(c.Upload.BatchRetentionMinutes) * time.Minute
}

// CleanupInterval is how often expired batches are swept.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Upload.CleanupIntervalMinutes) * time.Minute
}

// IsDevelopment reports whether error details may be shown to clients.
func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Advanced.Environment, "development")
}

// SlogLevel maps the configured log level onto slog.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Advanced.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
