package scroll

// DefaultEdgeRatio is the fraction of a section (top edge) or of the
// viewport (bottom edge) that triggers a jump.
const DefaultEdgeRatio = 0.3

// Geometry holds the measured height of each section, indexed
// before, middle, after.
type Geometry struct {
	Heights [3]float64
	Ratio   float64
}

// UniformGeometry is the geometry of three sections of height h.
func UniformGeometry(h float64) Geometry {
	return Geometry{Heights: [3]float64{h, h, h}, Ratio: DefaultEdgeRatio}
}

// Height is the section height thresholds are computed from.
func (g Geometry) Height() float64 { return g.Heights[0] }

// Diverged reports whether the sections differ in height by more than tol.
func (g Geometry) Diverged(tol float64) bool {
	lo, hi := g.Heights[0], g.Heights[0]
	for _, h := range g.Heights[1:] {
		lo, hi = min(lo, h), max(hi, h)
	}
	return hi-lo > tol
}

// Thresholds returns the offsets below which the viewport jumps forward
// and above which it jumps back, for viewport height v.
func (g Geometry) Thresholds(v float64) (up, down float64) {
	r := g.Ratio
	if r <= 0 {
		r = DefaultEdgeRatio
	}
	h := g.Height()
	return r * h, 2*h - r*v
}

// Reposition applies the jump rule to offset y. Near the top it moves one
// section forward by the before section's height; near the bottom it moves
// one section back by the middle section's height. With equal sections
// both are H. In between, y is returned unchanged.
//
// A section too short for the viewport has no safe zone (down <= up);
// every offset would jump and each jump would trigger the next, so such
// geometry never jumps.
func (g Geometry) Reposition(y, v float64) (float64, bool) {
	if g.Height() <= 0 {
		return y, false
	}
	up, down := g.Thresholds(v)
	if down <= up {
		return y, false
	}
	switch {
	case y < up:
		return y + g.Heights[0], true
	case y > down:
		return y - g.Heights[1], true
	default:
		return y, false
	}
}

// Reposition applies the jump rule for three equal sections of height h
// and a viewport of height v.
func Reposition(y, h, v float64) (float64, bool) {
	return UniformGeometry(h).Reposition(y, v)
}
