// Package present exports a successful conversion: a local .tex file or a
// handoff to an online LaTeX editor.
package present

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/texforge/backend/internal/models"
)

// DefaultArtifactName is used when no file name is available.
const DefaultArtifactName = "resume"

// ErrNoArtifact is returned when a result carries no LaTeX text.
var ErrNoArtifact = errors.New("no LaTeX artifact to export")

// ArtifactName derives the artifact base name from the first input file:
// everything from the first dot is dropped.
func ArtifactName(files []models.UploadedFile) string {
	if len(files) == 0 {
		return DefaultArtifactName
	}
	name := filepath.Base(files[0].Name)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return DefaultArtifactName
	}
	return name
}

// WriteArtifact writes the result's LaTeX text, unmodified, to
// dir/<name>.tex and returns the path.
func WriteArtifact(dir, name string, result models.ConversionResult) (string, error) {
	if !result.Success || result.ArtifactText == "" {
		return "", ErrNoArtifact
	}
	if name == "" {
		name = DefaultArtifactName
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name+".tex")
	if err := os.WriteFile(path, []byte(result.ArtifactText), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
