package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// DepthEntry is one page of a depth report. Depth is nil when unreachable.
type DepthEntry struct {
	Page      int  `json:"page" yaml:"page"`
	Depth     *int `json:"depth,omitempty" yaml:"depth,omitempty"`
	Reachable bool `json:"reachable" yaml:"reachable"`
}

// DepthEntries lists every page 1..N in order.
func DepthEntries(g *story.Graph, depths story.DepthMap) []DepthEntry {
	out := make([]DepthEntry, g.PageCount())
	for i := range out {
		ord := i + 1
		out[i] = DepthEntry{Page: ord}
		if d, ok := depths[ord]; ok {
			d := d
			out[i].Depth = &d
			out[i].Reachable = true
		}
	}
	return out
}

// RoutesDocument is the structured form of a route listing.
type RoutesDocument struct {
	Count  int           `json:"count" yaml:"count"`
	Routes []story.Route `json:"routes" yaml:"routes"`
}

func NewRoutesDocument(routes []story.Route) RoutesDocument {
	if routes == nil {
		routes = []story.Route{}
	}
	return RoutesDocument{Count: len(routes), Routes: routes}
}

type ChoiceDocument struct {
	Index  int    `json:"index" yaml:"index"`
	Text   string `json:"text" yaml:"text"`
	Target int    `json:"target" yaml:"target"`
}

// PageDocument is the structured form of a page.
type PageDocument struct {
	Ordinal   int              `json:"ordinal" yaml:"ordinal"`
	Kind      story.Kind       `json:"kind" yaml:"kind"`
	Choices   []ChoiceDocument `json:"choices" yaml:"choices"`
	Narrative []string         `json:"narrative" yaml:"narrative"`
}

func NewPageDocument(p *story.Page) PageDocument {
	opts := p.Options()
	doc := PageDocument{
		Ordinal:   p.Ordinal(),
		Kind:      p.Kind(),
		Choices:   make([]ChoiceDocument, len(opts)),
		Narrative: p.Narrative(),
	}
	for i, c := range opts {
		doc.Choices[i] = ChoiceDocument{Index: i + 1, Text: c.Text, Target: c.Target}
	}
	return doc
}

// JSON writes indented JSON documents.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Depths(w io.Writer, g *story.Graph, depths story.DepthMap) error {
	return writeJSON(w, DepthEntries(g, depths))
}

func (JSON) Routes(w io.Writer, routes []story.Route) error {
	return writeJSON(w, NewRoutesDocument(routes))
}

func (JSON) Page(w io.Writer, p *story.Page) error {
	return writeJSON(w, NewPageDocument(p))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes YAML documents.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Depths(w io.Writer, g *story.Graph, depths story.DepthMap) error {
	return writeYAML(w, DepthEntries(g, depths))
}

func (YAML) Routes(w io.Writer, routes []story.Route) error {
	return writeYAML(w, NewRoutesDocument(routes))
}

func (YAML) Page(w io.Writer, p *story.Page) error {
	return writeYAML(w, NewPageDocument(p))
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
