package senses

import "sort"

// SpearmanSense detects monotonic relationships using rank correlation
type SpearmanSense struct {
	pearson *PearsonSense
}

// NewSpearmanSense creates a new Spearman correlation sense
func NewSpearmanSense() *SpearmanSense {
	return &SpearmanSense{pearson: NewPearsonSense()}
}

// Name returns the sense name
func (s *SpearmanSense) Name() string {
	return "spearman"
}

// Description returns a human-readable description
func (s *SpearmanSense) Description() string {
	return "Detects monotonic relationships robust to outliers and non-normality"
}

// Coefficient is Pearson over tie-averaged ranks.
func (s *SpearmanSense) Coefficient(x, y []float64) float64 {
	if !paired(x, y) {
		return 0
	}
	return s.pearson.Coefficient(Ranks(x), Ranks(y))
}

// Ranks converts values to 1-based ranks, averaging ties
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}

	return ranks
}
