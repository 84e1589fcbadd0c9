package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

var markdown = goldmark.New()

// NarrativeHTML renders a page's narrative lines as Markdown.
func NarrativeHTML(p *story.Page) (string, error) {
	var buf bytes.Buffer
	src := []byte(strings.Join(p.Narrative(), "\n"))
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
