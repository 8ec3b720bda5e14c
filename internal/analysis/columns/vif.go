package columns

import (
	"math"

	"gonum.org/v1/gonum/mat"

	domainstats "autoinsight/domain/stats"
)

// MaxVIF is the score reported when R² reaches 1 and 1/(1-R²) is undefined.
const MaxVIF = 10.0

// VIF approximates the variance inflation factor of feature i. It squares the
// mean absolute correlation with every other feature into an R² and returns
// 1/(1-R²), uncapped while R² < 1. This is a proxy for the regression-based
// VIF, not the real thing.
func VIF(corr mat.Symmetric, i int) float64 {
	n := corr.SymmetricDim()
	if n < 2 || i < 0 || i >= n {
		return 1
	}
	var sum float64
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		sum += math.Abs(corr.At(i, j))
	}
	avg := sum / float64(n-1)
	r2 := avg * avg
	if r2 >= 1 {
		return MaxVIF
	}
	return 1 / (1 - r2)
}

// VIFStatus maps a score onto acceptable (<5), moderate (<10) or high.
func VIFStatus(vif float64) domainstats.VIFStatus {
	switch {
	case vif < 5:
		return domainstats.VIFAcceptable
	case vif < 10:
		return domainstats.VIFModerate
	}
	return domainstats.VIFHigh
}
