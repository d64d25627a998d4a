package timecalc

import (
	"fmt"
	"math"
	"strconv"
)

// RoundMode selects how Round quantizes a duration.
type RoundMode int

const (
	RoundNone RoundMode = iota
	RoundUp
	RoundDown
	RoundHalf
)

func (m RoundMode) String() string {
	switch m {
	case RoundUp:
		return "up"
	case RoundDown:
		return "down"
	case RoundHalf:
		return "half"
	default:
		return "none"
	}
}

// Rounding is a mode plus the granularity, in seconds, it rounds to.
type Rounding struct {
	Mode        RoundMode
	Granularity float64
}

// NoRounding leaves durations untouched.
var NoRounding = Rounding{Mode: RoundNone}

// Up, Down and Half build roundings of the given granularity in seconds.
func Up(g float64) Rounding { return Rounding{Mode: RoundUp, Granularity: g} }
func Down(g float64) Rounding { return Rounding{Mode: RoundDown, Granularity: g} }
func Half(g float64) Rounding { return Rounding{Mode: RoundHalf, Granularity: g} }

func (r Rounding) String() string {
	if r.Mode == RoundNone {
		return "none"
	}
	return fmt.Sprintf("%s(%ss)", r.Mode, strconv.FormatFloat(r.Granularity, 'f', -1, 64))
}

// snapStep is 1/100 of an hour. Granularities that are whole multiples of it
// get the input snapped to it first, which absorbs float noise such as
// 37800.000045 without changing any exact multiple.
const snapStep = 36.0

// Round quantizes seconds according to r. Half rounds ties away from zero.
// A zero or otherwise unusable granularity returns seconds unchanged.
func Round(seconds float64, r Rounding) float64 {
	if r.Mode == RoundNone {
		return seconds
	}
	g := r.Granularity
	x := seconds
	if snaps(g) {
		x = quantize(x, snapStep, math.Round)
	}
	var res float64
	switch r.Mode {
	case RoundUp:
		res = quantize(x, g, math.Ceil)
	case RoundDown:
		res = quantize(x, g, math.Floor)
	case RoundHalf:
		res = quantize(x, g, math.Round)
	default:
		return seconds
	}
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return seconds
	}
	return res
}

// quantize applies f to x/g and scales back. An x already within float noise
// of a multiple of g is returned as is.
func quantize(x, g float64, f func(float64) float64) float64 {
	q := x / g
	if n := math.Round(q); math.Abs(q-n) < 1e-9*math.Max(1, math.Abs(q)) {
		return x
	}
	return f(q) * g
}

func snaps(g float64) bool {
	if g < snapStep {
		return false
	}
	k := g / snapStep
	return math.Abs(k-math.Round(k)) < 1e-9
}
