package igr

import "strings"

// Label metrics used to size nodes that carry no explicit size.
const (
	DefaultFontSize = 20.0
	LabelPaddingX   = 75.0
	LabelPaddingY   = 25.0
	MinNodeWidth    = 100.0
	MinNodeHeight   = 70.0
	lineHeight      = 1.3
)

// fontWidth returns the average glyph width as a fraction of the font size.
func fontWidth(font string) float64 {
	switch font {
	case "Virgil":
		return 0.65
	case "Helvetica":
		return 0.55
	default:
		return 0.6
	}
}

// glyphWidth returns the relative advance of r compared to an average glyph.
func glyphWidth(r rune) float64 {
	switch {
	case strings.ContainsRune("il.!|'`Ijft", r):
		return 0.4
	case strings.ContainsRune("wmWM@%#", r):
		return 1.4
	case r >= 'A' && r <= 'Z':
		return 1.15
	case r == ' ':
		return 0.35
	case r >= '0' && r <= '9', strings.ContainsRune("()[]{}-_=+", r):
		return 0.9
	default:
		return 1.0
	}
}

// EstimateLabelSize estimates the box needed to show label in the given font.
// A zero fontSize means [DefaultFontSize]. Multi-line labels use their widest
// line. The result is never smaller than MinNodeWidth x MinNodeHeight.
func EstimateLabelSize(label, font string, fontSize float64) (width, height float64) {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	lines := strings.Split(label, "\n")
	var widest float64
	for _, line := range lines {
		var units float64
		for _, r := range line {
			units += glyphWidth(r)
		}
		if units > widest {
			widest = units
		}
	}
	textWidth := widest * fontSize * fontWidth(font)
	textHeight := float64(len(lines)) * fontSize * lineHeight
	return max(textWidth+LabelPaddingX, MinNodeWidth), max(textHeight+LabelPaddingY, MinNodeHeight)
}

// EnsureSizes gives every node with a zero width or height the size
// estimated from its label. Explicit sizes are kept.
func (g *Graph) EnsureSizes() {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Width > 0 && n.Height > 0 {
			continue
		}
		w, h := EstimateLabelSize(n.Label, n.Style.Font, n.Style.FontSize)
		if n.Width <= 0 {
			n.Width = w
		}
		if n.Height <= 0 {
			n.Height = h
		}
	}
}
