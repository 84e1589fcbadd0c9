package story

// DepthMap maps each reachable ordinal to its minimum number of choice
// hops from the start page. Unreachable pages are absent.
type DepthMap map[int]int

// Reachable reports whether ordinal appears in the map.
func (m DepthMap) Reachable(ordinal int) bool {
	_, ok := m[ordinal]
	return ok
}

// ComputeDepths runs a breadth-first search from StartPage.
func ComputeDepths(g *Graph) DepthMap {
	m, _ := ComputeDepthsFrom(g, StartPage)
	return m
}

// ComputeDepthsFrom runs a breadth-first search from start. A page is
// enqueued the first time it is discovered and its depth is final then.
func ComputeDepthsFrom(g *Graph, start int) (DepthMap, error) {
	if _, err := g.Page(start); err != nil {
		return nil, err
	}
	depths := DepthMap{start: 0}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := depths[cur] + 1
		for _, c := range g.page(cur).choices {
			if _, seen := depths[c.Target]; seen {
				continue
			}
			depths[c.Target] = next
			queue = append(queue, c.Target)
		}
	}
	return depths, nil
}

// HasWinningOutcome reports whether a WIN page is reachable from StartPage.
func HasWinningOutcome(g *Graph) bool {
	return winReachable(g, ComputeDepths(g))
}

func winReachable(g *Graph, depths DepthMap) bool {
	for ord := range depths {
		if g.page(ord).kind == KindWin {
			return true
		}
	}
	return false
}
