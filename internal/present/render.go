package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/texforge/backend/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	fileStyle    = lipgloss.NewStyle().PaddingLeft(2)
	currentStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("39"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// RenderSession renders the file list and status of a session snapshot.
func RenderSession(s models.UploadSession) string {
	var b strings.Builder

	if len(s.Files) == 0 {
		b.WriteString(mutedStyle.Render("No files selected"))
		b.WriteString("\n")
	} else {
		b.WriteString(titleStyle.Render(ReadyLine(len(s.Files))))
		b.WriteString("\n")
		for i, f := range s.Files {
			line := fmt.Sprintf("%d. %s  %s  %s", i+1, f.Name, mutedStyle.Render(f.MIMEType), FormatKB(f.Size))
			if i == s.CurrentIndex {
				b.WriteString(currentStyle.Render(line))
			} else {
				b.WriteString(fileStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	switch {
	case s.Busy:
		b.WriteString("Processing your resume...\n")
	case s.Error != "":
		b.WriteString(errorStyle.Render("Error: " + s.Error))
		b.WriteString("\n")
	case s.Result != nil && s.Result.Success:
		b.WriteString(okStyle.Render("Resume successfully converted to LaTeX!"))
		b.WriteString("\n")
	}
	return b.String()
}

// ReadyLine is the "n files ready" banner.
func ReadyLine(n int) string {
	if n == 1 {
		return "1 file ready for processing"
	}
	return fmt.Sprintf("%d files ready for processing", n)
}

// FormatKB renders a byte count in kilobytes with two decimals.
func FormatKB(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}
