package hnsw

import "github.com/hupe1980/vecfilter/model"

// LevelStats describes one layer of the graph.
type LevelStats struct {
	Level          int
	Nodes          int
	Connections    int
	AvgConnections float64
}

// Stats describes the graph structure.
type Stats struct {
	Options    Options
	MMax       int
	MMax0      int
	ML         float64
	Nodes      int
	MaxLevel   int
	EntryPoint model.PointID
	Levels     []LevelStats
}

// Stats returns statistics about the HNSW graph.
func (h *HNSW) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := Stats{
		Options: h.opts,
		MMax:    h.mmax,
		MMax0:   h.mmax0,
		ML:      h.ml,
		Nodes:   len(h.nodes),
	}
	if len(h.nodes) == 0 {
		return st
	}

	st.MaxLevel = h.maxLevel
	st.EntryPoint = h.nodes[h.ep].label
	st.Levels = make([]LevelStats, h.maxLevel+1)
	for i := range st.Levels {
		st.Levels[i].Level = i
	}

	for _, n := range h.nodes {
		for level := n.level; level >= 0; level-- {
			st.Levels[level].Nodes++
			st.Levels[level].Connections += len(n.connections[level])
		}
	}

	for i := range st.Levels {
		if st.Levels[i].Nodes > 0 {
			st.Levels[i].AvgConnections = float64(st.Levels[i].Connections) / float64(st.Levels[i].Nodes)
		}
	}

	return st
}
