package columns

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Skewness is the population third standardized moment. It is 0 below three
// values or when the spread is zero.
func Skewness(xs []float64) float64 {
	if len(xs) < 3 {
		return 0
	}
	mean, sd := populationMoments(xs)
	if sd == 0 {
		return 0
	}
	var m3 float64
	for _, x := range xs {
		z := (x - mean) / sd
		m3 += z * z * z
	}
	return m3 / float64(len(xs))
}

// Kurtosis is the population excess kurtosis (fourth standardized moment
// minus 3). It is 0 below four values or when the spread is zero.
func Kurtosis(xs []float64) float64 {
	if len(xs) < 4 {
		return 0
	}
	mean, sd := populationMoments(xs)
	if sd == 0 {
		return 0
	}
	var m4 float64
	for _, x := range xs {
		z := (x - mean) / sd
		m4 += z * z * z * z
	}
	return m4/float64(len(xs)) - 3
}

func populationMoments(xs []float64) (mean, sd float64) {
	mean, _ = stats.Mean(xs)
	sd, _ = stats.StandardDeviationPopulation(xs)
	return mean, sd
}

// SampleStd divides by n-1 and is 0 below two values.
func SampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(xs)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd
}

// SampleVariance divides by n-1 and is 0 below two values.
func SampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	v, err := stats.SampleVariance(xs)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// Quantile interpolates linearly between closest ranks at position p*(n-1)
// of the sorted values.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Entropy is the Shannon entropy in bits of the empirical distribution.
func Entropy(values []string) float64 {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	p := make([]float64, len(order))
	for i, v := range order {
		p[i] = float64(counts[v]) / float64(len(values))
	}
	return stat.Entropy(p) / math.Ln2
}

// Round rounds half away from zero to the given number of decimals.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
