package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/texforge/backend/internal/models"
)

// GeminiConfig locates the Vertex AI project hosting the model.
type GeminiConfig struct {
	ProjectID string
	Region    string
	APIKey    string
}

// Configured reports whether enough is set to reach the model.
func (c GeminiConfig) Configured() bool {
	return c.ProjectID != "" && c.Region != ""
}

// GeminiConverter sends every file of a batch to a Gemini model in one
// request.
type GeminiConverter struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	profile *Profile
	logger  *slog.Logger
}

// NewGeminiConverter creates the Vertex AI client and configures the model
// from profile.
func NewGeminiConverter(ctx context.Context, cfg GeminiConfig, profile *Profile, logger *slog.Logger) (*GeminiConverter, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, errors.New("NewGeminiConverter: projectID and region cannot be empty")
	}
	if profile == nil {
		profile = DefaultProfile()
	}
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region, opts...)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(profile.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(profile.SystemPrompt)},
	}
	model.SetTemperature(float32(profile.Temperature))
	if profile.TopK > 0 {
		model.SetTopK(int32(profile.TopK))
	}
	model.SetTopP(float32(profile.TopP))
	model.SetMaxOutputTokens(int32(profile.MaxOutputTokens))
	model.SafetySettings = safetySettings(profile.SafetyThreshold)

	return &GeminiConverter{
		client:  client,
		model:   model,
		profile: profile,
		logger:  logger,
	}, nil
}

func (g *GeminiConverter) Name() string { return BackendGemini }

// Convert sends the files inline, followed by the user prompt.
func (g *GeminiConverter) Convert(ctx context.Context, files []models.UploadedFile) (string, error) {
	if len(files) == 0 {
		return "", errors.New("no files to convert")
	}

	parts := make([]genai.Part, 0, len(files)+1)
	names := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, genai.Blob{MIMEType: f.MIMEType, Data: f.Content})
		names = append(names, f.Name)
	}
	parts = append(parts, genai.Text(g.profile.Prompt(names)))

	logCtx := g.logger.With("model", g.profile.Model, "files", len(files))
	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		logCtx.Error("gemini request failed", "error", err)
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	text, textParts := responseText(resp)
	if textParts > 1 {
		logCtx.Warn("gemini response had several text parts; concatenated", "parts", textParts)
	}
	logCtx.Info("gemini response received", "latency", time.Since(start), "chars", len(text))
	return CleanOutput(text)
}

// Close releases the underlying client.
func (g *GeminiConverter) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, int) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", 0
	}
	var b strings.Builder
	n := 0
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
			n++
		}
	}
	return b.String(), n
}

func safetySettings(threshold string) []*genai.SafetySetting {
	level := genai.HarmBlockMediumAndAbove
	switch threshold {
	case SafetyNone:
		level = genai.HarmBlockNone
	case SafetyLowAndAbove:
		level = genai.HarmBlockLowAndAbove
	case SafetyOnlyHigh:
		level = genai.HarmBlockOnlyHigh
	}
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: level},
		{Category: genai.HarmCategoryHateSpeech, Threshold: level},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: level},
		{Category: genai.HarmCategoryDangerousContent, Threshold: level},
	}
}
