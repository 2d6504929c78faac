package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// nearZero is the largest value drawn without any star: half a cent.
const nearZero = 0.005

// scale maps values to a number of stars.
type scale struct {
	start float64 // value of one star
	step  float64 // value of each additional star
	max   int     // stars cap
}

// newScale fits the non-zero values within maxStars stars.
func newScale(values []float64, maxStars int) scale {
	visible := make([]float64, 0, len(values))
	for _, v := range values {
		if v > nearZero {
			visible = append(visible, v)
		}
	}
	if len(visible) == 0 {
		return scale{start: 0, step: 1, max: maxStars}
	}

	lo, hi := floats.Min(visible), floats.Max(visible)
	span := hi - lo
	if span == 0 || maxStars == 1 {
		// a single visible level is one star, the step only matters for the legend.
		span = lo
	}
	steps := float64(maxStars - 1)
	if steps < 1 {
		steps = 1
	}
	return scale{start: lo, step: niceCeil(span / steps), max: maxStars}
}

// stars returns the number of stars for v.
func (s scale) stars(v float64) int {
	if v <= nearZero || v < s.start {
		return 0
	}
	n := 1 + int(math.Round((v-s.start)/s.step))
	return min(n, s.max)
}

// niceCeil returns the smallest of 1, 2, 2.5, 5 times a power of ten that is >= x.
func niceCeil(x float64) float64 {
	if x <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(x)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if n := m * exp; n >= x*(1-1e-12) {
			return n
		}
	}
	return 10 * exp
}
