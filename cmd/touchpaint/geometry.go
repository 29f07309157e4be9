package main

import (
	"math"
	"math/bits"
)

// inRange reports whether lo <= value <= hi.
//
// Callers pass lo <= hi. With lo > hi the range is empty and the result is
// always false; that is left as is rather than silently swapping the bounds.
func inRange(value, lo, hi int) bool {
	return lo <= value && value <= hi
}

// distance returns the Euclidean distance between two points, floored to an
// integer.
func distance(x0, y0, x1, y1 uint32) uint32 {
	// Differences are taken in the non-negative direction so unsigned
	// subtraction never wraps.
	var dx, dy uint32
	if x0 > x1 {
		dx = x0 - x1
	} else {
		dx = x1 - x0
	}
	if y0 > y1 {
		dy = y0 - y1
	} else {
		dy = y1 - y0
	}
	sum, carry := bits.Add64(uint64(dx)*uint64(dx), uint64(dy)*uint64(dy), 0)
	if carry != 0 {
		return math.MaxUint32
	}
	return isqrt(sum)
}

// isqrt returns floor(sqrt(n)).
func isqrt(n uint64) uint32 {
	if n < 2 {
		return uint32(n)
	}
	// Newton iteration from an upper bound converges monotonically downwards.
	x := n
	y := x/2 + x&1
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return uint32(x)
}

// clamp limits v to [lo, hi]. The bounds may be given in either order.
func clamp(v, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rescale maps v linearly from [inLo, inHi] to [outLo, outHi] using truncating
// integer division, the same arithmetic the panel was calibrated with.
func rescale(v, inLo, inHi, outLo, outHi int) int {
	return int(int64(v-inLo)*int64(outHi-outLo)/int64(inHi-inLo)) + outLo
}

// Point is a position in display pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is an axis-aligned rectangle in display pixel space.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Inset returns r shrunk by d pixels on every side.
func (r Rect) Inset(d int) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Center returns the rectangle's centre point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
