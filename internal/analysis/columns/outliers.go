package columns

import (
	"math"
	"sort"
)

// IQRMultiplier scales the interquartile range into fences.
const IQRMultiplier = 1.5

// Bounds are inclusive outlier fences.
type Bounds struct {
	Q1    float64
	Q3    float64
	Lower float64
	Upper float64
}

// Contains reports x inside the fences, inclusive.
func (b Bounds) Contains(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// OutlierBounds computes Tukey fences from linearly interpolated quartiles.
// Fewer than four values yields infinite fences.
func OutlierBounds(xs []float64) Bounds {
	if len(xs) < 4 {
		return Bounds{Lower: math.Inf(-1), Upper: math.Inf(1)}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		Lower: q1 - IQRMultiplier*iqr,
		Upper: q3 + IQRMultiplier*iqr,
	}
}

// DetectOutliers returns the fences and how many values fall outside them.
func DetectOutliers(xs []float64) (Bounds, int) {
	b := OutlierBounds(xs)
	n := 0
	for _, x := range xs {
		if !b.Contains(x) {
			n++
		}
	}
	return b, n
}

// ClipOutliers clamps values to the fences. The result keeps input order and
// the count is the number of values that moved.
func ClipOutliers(xs []float64) ([]float64, int) {
	b := OutlierBounds(xs)
	out := make([]float64, len(xs))
	n := 0
	for i, x := range xs {
		switch {
		case x < b.Lower:
			out[i] = b.Lower
			n++
		case x > b.Upper:
			out[i] = b.Upper
			n++
		default:
			out[i] = x
		}
	}
	return out, n
}
