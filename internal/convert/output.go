package convert

import (
	"errors"
	"strings"
)

var (
	ErrEmptyOutput = errors.New("the model returned no LaTeX content")
	ErrRefusal     = errors.New("the model declined to convert the document")
)

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

var fencePrefixes = []string{"```latex", "```tex", "```"}

// CleanOutput strips Markdown fences around model output and rejects empty
// or refused responses. The LaTeX itself is not checked.
func CleanOutput(text string) (string, error) {
	out := strings.TrimSpace(text)
	for _, prefix := range fencePrefixes {
		if strings.HasPrefix(out, prefix) {
			out = strings.TrimPrefix(out, prefix)
			break
		}
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	out = strings.TrimSpace(out)

	if out == "" {
		return "", ErrEmptyOutput
	}
	// Refusals are short prose; a real document starts with a LaTeX command.
	if !strings.HasPrefix(out, `\`) && !strings.HasPrefix(out, "%") {
		lower := strings.ToLower(out)
		for _, phrase := range refusalPhrases {
			if strings.Contains(lower, phrase) {
				return "", ErrRefusal
			}
		}
	}
	return out, nil
}
