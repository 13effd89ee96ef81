package draw

import "math"

// affine is a 2D affine transform:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

func translation(dx, dy float64) affine {
	return affine{a: 1, d: 1, e: dx, f: dy}
}

func rotation(theta float64) affine {
	sin, cos := math.Sincos(theta)
	return affine{a: cos, b: sin, c: -sin, d: cos}
}

func scaling(sx, sy float64) affine {
	return affine{a: sx, d: sy}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m.a*x + m.c*y + m.e, m.b*x + m.d*y + m.f
}

// mul returns m·n: the result applies n first, then m.
func (m affine) mul(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m affine) invert() (affine, bool) {
	det := m.a*m.d - m.b*m.c
	if det == 0 {
		return affine{}, false
	}
	return affine{
		a: m.d / det,
		b: -m.b / det,
		c: -m.c / det,
		d: m.a / det,
		e: (m.c*m.f - m.d*m.e) / det,
		f: (m.b*m.e - m.a*m.f) / det,
	}, true
}
