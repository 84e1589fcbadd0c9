package story

import (
	"strconv"
	"strings"
)

// Step is one page on a route. Choice is the 1-based index of the choice
// taken from Page to reach the next step, and 0 on the final step.
type Step struct {
	Page   int `json:"page" yaml:"page"`
	Choice int `json:"choice" yaml:"choice"`
}

// Route is a simple path from the start page to a WIN page.
type Route []Step

// String formats the route as "1(2),3(win)".
func (r Route) String() string {
	var b strings.Builder
	for i, s := range r {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s.Page))
		b.WriteByte('(')
		if i == len(r)-1 {
			b.WriteString("win")
		} else {
			b.WriteString(strconv.Itoa(s.Choice))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// EnumerateWinRoutes returns every simple path from StartPage to a WIN page.
func EnumerateWinRoutes(g *Graph) ([]Route, error) {
	return EnumerateWinRoutesFrom(g, StartPage)
}

// EnumerateWinRoutesFrom returns every simple path from start to a WIN page.
// It fails with *UnwinnableStoryError when no WIN page is reachable.
//
// Exploration is depth-first over an explicit work stack, so the choice
// pushed last (the highest index) is explored first.
func EnumerateWinRoutesFrom(g *Graph, start int) ([]Route, error) {
	depths, err := ComputeDepthsFrom(g, start)
	if err != nil {
		return nil, err
	}
	if !winReachable(g, depths) {
		return nil, &UnwinnableStoryError{Start: start}
	}
	w := newRouteWalker(g, start)
	for w.step() {
	}
	return w.routes, nil
}

// visit is a pending edge on the work stack: the target page and the
// 1-based index of the choice on the current trailing page that leads to it.
type visit struct {
	page   int
	choice int
}

// routeWalker holds the backtracking state of the enumeration.
//
// Invariant: every visit popped from work is a child of the trailing path
// entry, and remaining[i] counts the children of path[i] not yet finished.
type routeWalker struct {
	g         *Graph
	path      []Step
	remaining []int
	onPath    []bool // indexed by ordinal
	work      []visit
	routes    []Route
}

func newRouteWalker(g *Graph, start int) *routeWalker {
	return &routeWalker{
		g:      g,
		onPath: make([]bool, g.PageCount()+1),
		work:   []visit{{page: start}},
	}
}

// step processes one pending visit and reports whether one was available.
func (w *routeWalker) step() bool {
	if len(w.work) == 0 {
		return false
	}
	v := w.work[len(w.work)-1]
	w.work = w.work[:len(w.work)-1]

	if w.onPath[v.page] {
		// Revisiting an open page closes a cycle; the branch is dropped.
		w.childDone()
		w.unwind()
		return true
	}

	if n := len(w.path); n > 0 {
		w.path[n-1].Choice = v.choice
	}
	p := w.g.page(v.page)
	w.path = append(w.path, Step{Page: v.page})
	w.remaining = append(w.remaining, len(p.choices))
	w.onPath[v.page] = true

	if len(p.choices) == 0 {
		if p.kind == KindWin {
			w.record()
		}
	} else {
		for i, c := range p.choices {
			w.work = append(w.work, visit{page: c.Target, choice: i + 1})
		}
	}
	w.unwind()
	return true
}

// childDone marks one child of the trailing entry as finished.
func (w *routeWalker) childDone() {
	if n := len(w.remaining); n > 0 {
		w.remaining[n-1]--
	}
}

// unwind pops fully explored entries off the path. The start entry stays.
func (w *routeWalker) unwind() {
	for len(w.path) > 1 && w.remaining[len(w.remaining)-1] == 0 {
		last := len(w.path) - 1
		w.onPath[w.path[last].Page] = false
		w.path = w.path[:last]
		w.remaining = w.remaining[:last]
		w.childDone()
	}
}

func (w *routeWalker) record() {
	r := make(Route, len(w.path))
	copy(r, w.path)
	r[len(r)-1].Choice = 0
	w.routes = append(w.routes, r)
}
