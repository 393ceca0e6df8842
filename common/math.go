package common

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"
)

// FallbackDirection is used when a direction is requested between two
// coincident points.
var FallbackDirection = cp.Vector{X: 1, Y: 0}

// Direction returns the unit vector pointing from `from` to `to`.
func Direction(from, to cp.Vector) cp.Vector {
	d := to.Sub(from)
	l := d.Length()
	if l == 0 || math.IsNaN(l) {
		return FallbackDirection
	}
	return d.Mult(1 / l)
}

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
// Used for input intents where "no direction" is meaningful.
func Normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l == 0 {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// WithinRadius reports whether b lies inside the closed circle of radius r around a.
func WithinRadius(a, b cp.Vector, r float64) bool {
	return a.DistanceSq(b) <= r*r
}

// Ratio returns elapsed / span as a float, with a zero span treated as no progress.
func Ratio(elapsed, span time.Duration) float64 {
	if span <= 0 {
		return 0
	}
	return float64(elapsed) / float64(span)
}

// Rand is the source of uniform randomness for spawning and upgrade draws.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}
