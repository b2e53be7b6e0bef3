package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/texforge/backend/internal/models"
)

// StubConverter returns a deterministic LaTeX skeleton listing the input
// files. It needs no credentials and is used for local development.
type StubConverter struct{}

// NewStubConverter creates a stub converter.
func NewStubConverter() *StubConverter {
	return &StubConverter{}
}

func (s *StubConverter) Name() string { return BackendStub }

func (s *StubConverter) Convert(ctx context.Context, files []models.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", errors.New("no files to convert")
	}

	var b strings.Builder
	b.WriteString("\\documentclass[11pt]{article}\n")
	b.WriteString("\\usepackage[margin=1in]{geometry}\n")
	b.WriteString("\\begin{document}\n")
	b.WriteString("\\section*{Resume}\n")
	b.WriteString("\\begin{itemize}\n")
	for _, f := range files {
		fmt.Fprintf(&b, "  \\item %s (%s, %d bytes)\n", EscapeLaTeX(f.Name), EscapeLaTeX(f.MIMEType), f.Size)
	}
	b.WriteString("\\end{itemize}\n")
	b.WriteString("\\end{document}\n")
	return b.String(), nil
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`%`, `\%`,
	`~`, `\textasciitilde{}`,
	"\n", " ",
	"\r", " ",
)

// EscapeLaTeX escapes characters with special meaning in LaTeX text.
func EscapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}
