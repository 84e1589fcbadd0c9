package story

import (
	"fmt"
	"strings"
)

// Kind classifies a page.
type Kind string

const (
	KindUnknown Kind = ""
	KindChoice  Kind = "CHOICE"
	KindWin     Kind = "WIN"
	KindLose    Kind = "LOSE"
)

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindChoice:
		return KindChoice, true
	case KindWin:
		return KindWin, true
	case KindLose:
		return KindLose, true
	}
	return KindUnknown, false
}

// Terminal reports whether the kind ends a story.
func (k Kind) Terminal() bool { return k == KindWin || k == KindLose }

// Choice is a labelled edge to another page.
type Choice struct {
	Text   string
	Target int
}

// -----------------------------------------------------------------------
// Page
// -----------------------------------------------------------------------

// Page is an immutable page record. The ordinal is assigned when the page
// becomes part of a Graph.
type Page struct {
	ordinal   int
	kind      Kind
	choices   []Choice
	narrative []string
}

// NewPage builds a page record directly. CHOICE pages must have at least
// one choice; WIN and LOSE pages must have none.
func NewPage(kind Kind, choices []Choice, narrative []string) (*Page, error) {
	d := NewDraft(0)
	for _, c := range choices {
		if err := d.AddChoice(c.Text, c.Target); err != nil {
			return nil, err
		}
	}
	if kind != KindUnknown {
		if err := d.SetKind(kind); err != nil {
			return nil, err
		}
	}
	for _, line := range narrative {
		d.AddNarrative(line)
	}
	return d.Page()
}

func (p *Page) Ordinal() int { return p.ordinal }
func (p *Page) Kind() Kind   { return p.kind }

// Choices returns the target ordinals of the page's choices, in order.
func (p *Page) Choices() []int {
	out := make([]int, len(p.choices))
	for i, c := range p.choices {
		out[i] = c.Target
	}
	return out
}

// Options returns a copy of the page's labelled choices.
func (p *Page) Options() []Choice {
	out := make([]Choice, len(p.choices))
	copy(out, p.choices)
	return out
}

// Narrative returns a copy of the page's text lines.
func (p *Page) Narrative() []string {
	out := make([]string, len(p.narrative))
	copy(out, p.narrative)
	return out
}

// ChoiceCount returns the out-degree of the page.
func (p *Page) ChoiceCount() int { return len(p.choices) }

func (p *Page) withOrdinal(n int) Page {
	cp := *p
	cp.ordinal = n
	return cp
}

// -----------------------------------------------------------------------
// Draft
// -----------------------------------------------------------------------

// Draft accumulates page content while a page source is being read.
// The ordinal is only used to label errors.
type Draft struct {
	ordinal   int
	kind      Kind
	choices   []Choice
	narrative []string
}

func NewDraft(ordinal int) *Draft {
	return &Draft{ordinal: ordinal}
}

// Kind returns the classification assigned so far.
func (d *Draft) Kind() Kind { return d.kind }

// SetKind assigns the classification. Assigning a different kind than the
// one already held fails with *MixedPageTypeError.
func (d *Draft) SetKind(k Kind) error {
	if d.kind == KindUnknown {
		d.kind = k
		return nil
	}
	if d.kind != k {
		return &MixedPageTypeError{Page: d.ordinal, Have: d.kind, Want: k}
	}
	return nil
}

// AddChoice appends a choice and classifies the page as CHOICE.
func (d *Draft) AddChoice(text string, target int) error {
	if err := d.SetKind(KindChoice); err != nil {
		return err
	}
	d.choices = append(d.choices, Choice{Text: text, Target: target})
	return nil
}

func (d *Draft) AddNarrative(line string) {
	d.narrative = append(d.narrative, line)
}

// Page finalises the draft.
func (d *Draft) Page() (*Page, error) {
	switch d.kind {
	case KindChoice:
		if len(d.choices) == 0 {
			return nil, &MixedPageTypeError{Page: d.ordinal, Have: KindChoice, Want: KindUnknown}
		}
	case KindWin, KindLose:
		if len(d.choices) > 0 {
			return nil, &MixedPageTypeError{Page: d.ordinal, Have: d.kind, Want: KindChoice}
		}
	default:
		return nil, fmt.Errorf("page %d: %w", d.ordinal, ErrUnclassified)
	}
	p := &Page{
		ordinal:   d.ordinal,
		kind:      d.kind,
		choices:   make([]Choice, len(d.choices)),
		narrative: make([]string, len(d.narrative)),
	}
	copy(p.choices, d.choices)
	copy(p.narrative, d.narrative)
	return p, nil
}
