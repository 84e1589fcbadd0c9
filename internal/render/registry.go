package render

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/gyaneshwarpardhi/cyoa/internal/story"
)

// Formatter writes analysis results in one output format.
type Formatter interface {
	// Name returns the key the formatter is registered under.
	Name() string
	// Depths writes the depth of every page 1..N, marking unreachable ones.
	Depths(w io.Writer, g *story.Graph, depths story.DepthMap) error
	// Routes writes win routes in discovery order.
	Routes(w io.Writer, routes []story.Route) error
	// Page writes a single page.
	Page(w io.Writer, p *story.Page) error
}

// Registry maps format names to formatters.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Default returns a registry holding the text, json and yaml formatters.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Text{})
	r.Register(JSON{})
	r.Register(YAML{})
	return r
}

// Register adds a formatter. Panics on duplicate name to surface misconfiguration early.
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Name()]; exists {
		panic(fmt.Sprintf("render registry: duplicate format %q", f.Name()))
	}
	r.formatters[f.Name()] = f
}

// Get returns the formatter for the given name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (have %v)", name, r.namesLocked())
	}
	return f, nil
}

// Names returns all registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.formatters))
	for k := range r.formatters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
