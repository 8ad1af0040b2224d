package graph

import "math"

// PageRank parameters matching the reference power-iteration semantics:
// damping factor 0.85, convergence when the L1 delta drops below
// n*tolerance, iteration count bounded rather than cancellable.
const (
	dampingFactor     = 0.85
	pagerankTolerance = 1e-6
	pagerankMaxIter   = 100
)

// pagerank returns the stationary-distribution PageRank scores over
// the entire graph, cached per graph version. Caller holds g.mu read
// lock; the cache has its own guard so a background rebuild and
// concurrent queries cannot race on it.
func (g *Graph) pagerank() map[string]float64 {
	g.prMu.Lock()
	defer g.prMu.Unlock()

	if g.prScores != nil && g.prVersion == g.version {
		return g.prScores
	}

	g.prScores = g.computePageRank()
	g.prVersion = g.version
	return g.prScores
}

// computePageRank runs the power iteration. A zero-node graph yields
// an empty mapping, not an error.
func (g *Graph) computePageRank() map[string]float64 {
	n := len(g.nodes)
	if n == 0 {
		return map[string]float64{}
	}

	ranks := make(map[string]float64, n)
	for i := range g.nodes {
		ranks[g.nodes[i].ID] = 1.0 / float64(n)
	}

	for iter := 0; iter < pagerankMaxIter; iter++ {
		next := make(map[string]float64, n)

		// Mass of dangling nodes is redistributed uniformly.
		var danglingSum float64
		for id, rank := range ranks {
			if len(g.successors[id]) == 0 {
				danglingSum += rank
			}
		}

		base := (1-dampingFactor)/float64(n) + dampingFactor*danglingSum/float64(n)
		for id := range ranks {
			next[id] = base
		}
		for id, rank := range ranks {
			out := g.successors[id]
			if len(out) == 0 {
				continue
			}
			share := dampingFactor * rank / float64(len(out))
			for _, succ := range out {
				next[succ] += share
			}
		}

		var delta float64
		for id := range ranks {
			delta += math.Abs(next[id] - ranks[id])
		}
		ranks = next

		if delta < float64(n)*pagerankTolerance {
			break
		}
	}

	return ranks
}
