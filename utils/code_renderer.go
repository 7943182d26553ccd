package utils

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/bernabedev/autogem/constants/lipgloss"
)

// RenderSuggestion writes a syntax-highlighted suggestion preview to w.
// Highlighting failures fall back to plain text so a preview always renders.
func RenderSuggestion(w io.Writer, suggestion string, language string, theme string) error {
	if strings.TrimSpace(suggestion) == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, suggestion+"\n", language, "terminal256", theme); err != nil {
		_, writeErr := fmt.Fprintln(w, suggestion)
		return writeErr
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderProposal prints a boxed, highlighted preview of each suggestion,
// numbering them when there is more than one.
func RenderProposal(w io.Writer, suggestions []string, language string, theme string) error {
	for i, suggestion := range suggestions {
		if len(suggestions) > 1 {
			fmt.Fprintln(w, lipgloss.Gray.Render(fmt.Sprintf("suggestion %d/%d", i+1, len(suggestions))))
		}
		var body bytes.Buffer
		if err := RenderSuggestion(&body, suggestion, language, theme); err != nil {
			return err
		}
		fmt.Fprintln(w, lipgloss.BoxStyle.Render(strings.TrimRight(body.String(), "\n")))
	}
	return nil
}
