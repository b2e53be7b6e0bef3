package convert

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfileYAML []byte

// Safety thresholds accepted in a profile.
const (
	SafetyNone           = "none"
	SafetyLowAndAbove    = "low_and_above"
	SafetyMediumAndAbove = "medium_and_above"
	SafetyOnlyHigh       = "only_high"
)

// Profile holds the prompts and generation settings for the model.
type Profile struct {
	Model           string  `yaml:"model"`
	SystemPrompt    string  `yaml:"systemPrompt"`
	UserPrompt      string  `yaml:"userPrompt"`
	Temperature     float64 `yaml:"temperature"`
	TopK            int     `yaml:"topK"`
	TopP            float64 `yaml:"topP"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`
	SafetyThreshold string  `yaml:"safetyThreshold"`
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() *Profile {
	p, err := ParseProfileFromReader(strings.NewReader(string(defaultProfileYAML)))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in model profile: %v", err))
	}
	return p
}

// LoadProfile reads a profile from path. An empty path yields the default.
// Fields missing from the file keep their default values.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model profile: %w", err)
	}
	defer file.Close()

	p, err := overlayProfile(DefaultProfile(), file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model profile %s: %w", path, err)
	}
	return p, nil
}

// ParseProfileFromReader parses and validates a complete profile.
func ParseProfileFromReader(r io.Reader) (*Profile, error) {
	return overlayProfile(&Profile{}, r)
}

func overlayProfile(base *Profile, r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := *base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile for usable values.
func (p *Profile) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Model, validation.Required),
		validation.Field(&p.SystemPrompt, validation.Required),
		validation.Field(&p.UserPrompt, validation.Required),
		validation.Field(&p.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&p.TopK, validation.Min(1)),
		validation.Field(&p.TopP, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&p.MaxOutputTokens, validation.Required, validation.Min(1)),
		validation.Field(&p.SafetyThreshold,
			validation.Required,
			validation.In(SafetyNone, SafetyLowAndAbove, SafetyMediumAndAbove, SafetyOnlyHigh),
		),
	)
}

// Prompt returns the user prompt followed by the list of source file names.
func (p *Profile) Prompt(fileNames []string) string {
	if len(fileNames) == 0 {
		return p.UserPrompt
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(p.UserPrompt, "\n"))
	b.WriteString("\n\nSource files, in order:\n")
	for i, name := range fileNames {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}
