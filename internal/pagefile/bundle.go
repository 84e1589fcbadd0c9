package pagefile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// Bundle is a whole story in one YAML document. Page ordinals are list
// positions starting at 1.
type Bundle struct {
	Title string       `yaml:"title"`
	Pages []BundlePage `yaml:"pages"`
}

// BundlePage is one page of a Bundle. Kind may be omitted on pages with
// choices.
type BundlePage struct {
	Kind    string         `yaml:"kind,omitempty"`
	Text    string         `yaml:"text"`
	Choices []BundleChoice `yaml:"choices,omitempty"`
}

type BundleChoice struct {
	Text string `yaml:"text"`
	Page int    `yaml:"page"`
}

// BundleSource loads a Bundle from a YAML file.
type BundleSource struct {
	path string
}

func NewBundleSource(path string) *BundleSource {
	return &BundleSource{path: path}
}

func (s *BundleSource) Path() string { return s.path }

func (s *BundleSource) Load(ctx context.Context) ([]*story.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", s.path, err)
	}
	return DecodeBundle(data, s.path)
}

// DecodeBundle parses YAML bundle bytes into page records.
func DecodeBundle(data []byte, name string) ([]*story.Page, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, &ParseError{Path: name, Reason: "invalid YAML", Err: err}
	}
	if len(b.Pages) == 0 {
		return nil, &story.MissingStartPageError{Source: name}
	}
	pages := make([]*story.Page, len(b.Pages))
	for i, bp := range b.Pages {
		p, err := bp.page(i + 1)
		if err != nil {
			return nil, &ParseError{Path: fmt.Sprintf("%s#page%d", name, i+1), Reason: "invalid page", Err: err}
		}
		pages[i] = p
	}
	return pages, nil
}

func (bp BundlePage) page(ordinal int) (*story.Page, error) {
	d := story.NewDraft(ordinal)
	if bp.Kind != "" {
		k, ok := story.ParseKind(bp.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", bp.Kind)
		}
		if err := d.SetKind(k); err != nil {
			return nil, err
		}
	}
	for _, c := range bp.Choices {
		if err := d.AddChoice(c.Text, c.Page); err != nil {
			return nil, err
		}
	}
	if bp.Text != "" {
		for _, line := range strings.Split(strings.TrimSuffix(bp.Text, "\n"), "\n") {
			d.AddNarrative(line)
		}
	}
	return d.Page()
}
