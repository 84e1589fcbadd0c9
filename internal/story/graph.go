package story

import "fmt"

// StartPage is the ordinal every traversal begins from.
const StartPage = 1

// Graph holds the pages of a story and the reverse reference index.
// It is immutable once built and safe to share between readers.
type Graph struct {
	pages        []Page  // ordinal n lives at pages[n-1]
	referencedBy [][]int // ordinal n -> ascending ordinals pointing at n
	wins         int
	losses       int
}

// Build validates pages and constructs a Graph. Ordinals are assigned by
// position: pages[0] is page 1. On error no graph is returned.
func Build(pages []*Page) (*Graph, error) {
	if len(pages) == 0 {
		return nil, &MissingStartPageError{}
	}
	n := len(pages)
	g := &Graph{
		pages:        make([]Page, n),
		referencedBy: make([][]int, n),
	}
	for i, p := range pages {
		if p == nil {
			return nil, fmt.Errorf("page %d: %w", i+1, ErrUnclassified)
		}
		g.pages[i] = p.withOrdinal(i + 1)
	}

	for i := range g.pages {
		from := i + 1
		for _, c := range g.pages[i].choices {
			if c.Target < 1 || c.Target > n {
				return nil, &DanglingReferenceError{Page: from, Target: c.Target, PageCount: n}
			}
			refs := g.referencedBy[c.Target-1]
			// Sources are visited in ascending order, so a duplicate can only
			// be the last element.
			if len(refs) == 0 || refs[len(refs)-1] != from {
				g.referencedBy[c.Target-1] = append(refs, from)
			}
		}
	}

	for i := range g.pages {
		switch g.pages[i].kind {
		case KindWin:
			g.wins++
		case KindLose:
			g.losses++
		}
	}
	if g.wins == 0 || g.losses == 0 {
		var missing []Kind
		if g.wins == 0 {
			missing = append(missing, KindWin)
		}
		if g.losses == 0 {
			missing = append(missing, KindLose)
		}
		return nil, &MissingOutcomeError{Missing: missing}
	}

	for ord := StartPage + 1; ord <= n; ord++ {
		if !g.referencedByOther(ord) {
			return nil, &OrphanPageError{Page: ord}
		}
	}
	return g, nil
}

// referencedByOther reports whether a page other than ord itself points at it.
func (g *Graph) referencedByOther(ord int) bool {
	for _, from := range g.referencedBy[ord-1] {
		if from != ord {
			return true
		}
	}
	return false
}

// Page returns the page with the given ordinal.
func (g *Graph) Page(ordinal int) (*Page, error) {
	if ordinal < 1 || ordinal > len(g.pages) {
		return nil, &OutOfRangeError{Page: ordinal, PageCount: len(g.pages)}
	}
	return &g.pages[ordinal-1], nil
}

// PageCount returns the number of pages.
func (g *Graph) PageCount() int {
	return len(g.pages)
}

// ReferencedBy returns the ordinals of pages with a choice pointing at
// ordinal, ascending and without duplicates.
func (g *Graph) ReferencedBy(ordinal int) ([]int, error) {
	if ordinal < 1 || ordinal > len(g.pages) {
		return nil, &OutOfRangeError{Page: ordinal, PageCount: len(g.pages)}
	}
	refs := g.referencedBy[ordinal-1]
	out := make([]int, len(refs))
	copy(out, refs)
	return out, nil
}

// OutcomeCounts returns the number of WIN and LOSE pages.
func (g *Graph) OutcomeCounts() (wins, losses int) {
	return g.wins, g.losses
}

// page is the unchecked lookup used by traversals over valid ordinals.
func (g *Graph) page(ordinal int) *Page {
	return &g.pages[ordinal-1]
}
