package hierarchical

import (
	"math"

	"github.com/matzehuels/drawlayout/pkg/dag"
	"github.com/matzehuels/drawlayout/pkg/igr"
)

// balancePasses is the number of alternating passes that pull nodes toward
// their neighbours after packing.
const balancePasses = 4

// assignCoordinates writes the center of every node in layers into centers,
// with the component's left edge at offset, and returns the component width
// along the rank axis.
//
// Within a rank, two real nodes are at least NodeSpacing apart edge to edge,
// including when subdividers sit between them; a subdivider keeps
// EdgeSpacing from its neighbours. Balancing solves, per rank, the
// least-squares placement toward the neighbours' mean subject to those gaps,
// so it never brings two boxes closer than the packing did.
func assignCoordinates(g *dag.DAG, layers [][]int, cfg igr.Config, centers []point, offset float64) float64 {
	packed := make([][]float64, len(layers))
	for r, layer := range layers {
		packed[r] = pack(g, layer, cfg)
		for i, v := range layer {
			centers[v].s = packed[r][i]
		}
	}

	for pass := 0; pass < balancePasses; pass++ {
		if pass%2 == 0 {
			for r := 1; r < len(layers); r++ {
				balance(g, layers[r], packed[r], centers, true)
			}
		} else {
			for r := len(layers) - 2; r >= 0; r-- {
				balance(g, layers[r], packed[r], centers, false)
			}
		}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, layer := range layers {
		for _, v := range layer {
			half := g.Node(v).Width / 2
			lo = math.Min(lo, centers[v].s-half)
			hi = math.Max(hi, centers[v].s+half)
		}
	}
	if math.IsInf(lo, 0) {
		return 0
	}

	p := 0.0
	for _, layer := range layers {
		thickness := 0.0
		for _, v := range layer {
			thickness = math.Max(thickness, g.Node(v).Height)
		}
		for _, v := range layer {
			centers[v].s += offset - lo
			centers[v].p = p + thickness/2
		}
		p += thickness + cfg.RankSpacing
	}
	return hi - lo
}

// pack returns the tightest left-to-right centers for a rank.
func pack(g *dag.DAG, layer []int, cfg igr.Config) []float64 {
	out := make([]float64, len(layer))
	lastReal := -1
	for i, v := range layer {
		n := g.Node(v)
		half := n.Width / 2
		if i == 0 {
			out[i] = half
		} else {
			prev := g.Node(layer[i-1])
			gap := cfg.EdgeSpacing
			if !n.IsSubdivider() && !prev.IsSubdivider() {
				gap = cfg.NodeSpacing
			}
			out[i] = out[i-1] + prev.Width/2 + gap + half
		}
		if !n.IsSubdivider() {
			if lastReal >= 0 {
				lr := g.Node(layer[lastReal])
				out[i] = math.Max(out[i], out[lastReal]+lr.Width/2+cfg.NodeSpacing+half)
			}
			lastReal = i
		}
	}
	return out
}

// balance moves the nodes of a rank toward the mean center of their
// neighbours in the adjacent rank (parents when upward, else children).
//
// With t_i = s_i - packed_i the gap constraints become t non-decreasing, so
// the closest feasible placement is the isotonic regression of the desired
// t values, computed with pool-adjacent-violators.
func balance(g *dag.DAG, layer []int, packed []float64, centers []point, upward bool) {
	if len(layer) == 0 {
		return
	}
	want := make([]float64, len(layer))
	for i, v := range layer {
		var nbrs []int
		if upward {
			nbrs = g.Parents(v)
		} else {
			nbrs = g.Children(v)
		}
		desired := centers[v].s
		if len(nbrs) > 0 {
			var sum float64
			for _, n := range nbrs {
				sum += centers[n].s
			}
			desired = sum / float64(len(nbrs))
		}
		want[i] = desired - packed[i]
	}

	t := isotonic(want)
	for i, v := range layer {
		centers[v].s = t[i] + packed[i]
	}
}

// isotonic returns the non-decreasing sequence closest to vs in least
// squares.
func isotonic(vs []float64) []float64 {
	type block struct {
		sum   float64
		count int
	}
	blocks := make([]block, 0, len(vs))
	for _, v := range vs {
		blocks = append(blocks, block{sum: v, count: 1})
		for len(blocks) > 1 {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if a.sum/float64(a.count) <= b.sum/float64(b.count) {
				break
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, block{sum: a.sum + b.sum, count: a.count + b.count})
		}
	}
	out := make([]float64, 0, len(vs))
	for _, b := range blocks {
		avg := b.sum / float64(b.count)
		for range b.count {
			out = append(out, avg)
		}
	}
	return out
}
