package present

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/texforge/backend/internal/models"
)

// OverleafURL is the endpoint that accepts a LaTeX snippet via form post.
const OverleafURL = "https://www.overleaf.com/docs"

var handoffTemplate = template.Must(template.New("handoff").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Opening {{.Name}} in Overleaf</title></head>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.Action}}">
<input type="hidden" name="snip" value="{{.Snippet}}">
<input type="hidden" name="engine" value="pdflatex">
<input type="hidden" name="name" value="{{.Name}}">
<noscript><button type="submit">Open in Overleaf</button></noscript>
</form>
</body>
</html>
`))

// Opener opens a local file in the user's browser.
type Opener func(ctx context.Context, path string) error

// WriteHandoffPage renders an auto-submitting form that posts the artifact
// to Overleaf.
func WriteHandoffPage(w io.Writer, name string, result models.ConversionResult) error {
	if !result.Success || result.ArtifactText == "" {
		return ErrNoArtifact
	}
	if name == "" {
		name = DefaultArtifactName
	}
	return handoffTemplate.Execute(w, struct {
		Action  string
		Snippet string
		Name    string
	}{OverleafURL, result.ArtifactText, name})
}

// OpenInOverleaf writes the handoff page to a temporary file and opens it.
// The export is one way; nothing is read back.
func OpenInOverleaf(ctx context.Context, name string, result models.ConversionResult, open Opener) (string, error) {
	if open == nil {
		open = OpenBrowser
	}
	f, err := os.CreateTemp("", "texforge-overleaf-*.html")
	if err != nil {
		return "", fmt.Errorf("creating handoff page: %w", err)
	}
	if err := WriteHandoffPage(f, name, result); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing handoff page: %w", err)
	}
	if err := open(ctx, f.Name()); err != nil {
		return f.Name(), fmt.Errorf("opening browser: %w", err)
	}
	return f.Name(), nil
}

// OpenBrowser opens path with the platform's default handler. ctx only
// gates the launch; the opener is not tied to it and outlives the caller.
func OpenBrowser(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
