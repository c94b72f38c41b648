package igr

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a 64-bit hash of everything that influences the
// layout of g: node ids, labels, explicit sizes and size-relevant style, edge
// pairs in order, the container forest and the layout configuration. Visual
// attributes such as colors do not contribute.
//
// Two graphs with equal fingerprints produce identical layouts. Not suitable
// for cryptographic use.
func (g *Graph) Fingerprint() uint64 {
	d := newDigest()

	d.writeInt(len(g.nodes))
	for i := range g.nodes {
		n := &g.nodes[i]
		d.writeString(n.ID)
		d.writeString(n.Label)
		d.writeFloat(n.Width)
		d.writeFloat(n.Height)
		d.writeString(n.Style.Shape)
		d.writeString(n.Style.Font)
		d.writeFloat(n.Style.FontSize)
	}

	d.writeInt(len(g.edges))
	for i := range g.edges {
		d.writeInt(int(g.edges[i].from))
		d.writeInt(int(g.edges[i].to))
	}

	d.writeInt(len(g.containers))
	for i := range g.containers {
		c := &g.containers[i]
		d.writeString(c.ID)
		d.writeString(string(c.Kind))
		d.writeInt(int(c.Parent))
		d.writeInt(len(c.Members))
		for _, m := range c.Members {
			d.writeInt(int(m.Kind))
			d.writeInt(m.Index)
		}
	}

	d.writeInt(len(g.order))
	for _, m := range g.order {
		d.writeInt(int(m.Kind))
		d.writeInt(m.Index)
	}

	d.writeConfig(g.Config)
	return d.Sum64()
}

type digest struct {
	xxhash.Digest
	buf [8]byte
}

func newDigest() *digest {
	var d digest
	d.Reset()
	return &d
}

func (d *digest) writeUint64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	d.Write(d.buf[:])
}

func (d *digest) writeInt(v int) { d.writeUint64(uint64(v)) }

func (d *digest) writeFloat(v float64) { d.writeUint64(math.Float64bits(v)) }

// writeString writes the string's length, then its contents.
func (d *digest) writeString(s string) {
	d.writeInt(len(s))
	d.WriteString(s)
}

// writeConfig hashes the fields that change the output; Sequential does not.
func (d *digest) writeConfig(c Config) {
	d.writeString(c.Algorithm)
	d.writeString(string(c.Direction))
	d.writeFloat(c.NodeSpacing)
	d.writeFloat(c.EdgeSpacing)
	d.writeFloat(c.RankSpacing)
	d.writeInt(c.Sweeps)
	d.writeInt(c.Iterations)
	d.writeUint64(c.Seed)
	d.writeFloat(c.IdealEdgeLength)
	d.writeFloat(c.Padding)
	d.writeString(c.Fallback)
}
