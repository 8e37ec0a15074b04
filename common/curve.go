package common

import "sort"

// Key is a single point on a piecewise-linear curve.
type Key struct {
	T float64 `yaml:"t"`
	V float64 `yaml:"v"`
}

// Curve is a piecewise-linear function of normalized time.
type Curve []Key

// Eval samples the curve at t, holding the end values outside the keyed range.
func (c Curve) Eval(t float64) float64 {
	if len(c) == 0 {
		return 0
	}
	if t <= c[0].T {
		return c[0].V
	}
	last := c[len(c)-1]
	if t >= last.T {
		return last.V
	}
	i := sort.Search(len(c), func(i int) bool { return c[i].T >= t })
	a, b := c[i-1], c[i]
	return Lerp(a.V, b.V, InverseLerp(a.T, b.T, t))
}

// Pulse builds a curve that is v inside [start, end] and 0 elsewhere.
func Pulse(start, end, v float64) Curve {
	const edge = 1e-4
	return Curve{
		{T: start - edge, V: 0},
		{T: start, V: v},
		{T: end, V: v},
		{T: end + edge, V: 0},
	}
}
