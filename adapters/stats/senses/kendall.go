package senses

import "math"

// KendallSense measures ordinal association by pair concordance
type KendallSense struct{}

// NewKendallSense creates a new Kendall tau sense
func NewKendallSense() *KendallSense {
	return &KendallSense{}
}

// Name returns the sense name
func (s *KendallSense) Name() string {
	return "kendall"
}

// Description returns a human-readable description
func (s *KendallSense) Description() string {
	return "Counts concordant and discordant pairs to measure ordinal agreement"
}

// Coefficient is tau-b: (concordant - discordant) / sqrt((n0-n1)(n0-n2)),
// where n0 = n(n-1)/2 and n1, n2 count the pairs tied in x and in y. Pairs
// are counted exactly. A constant input has no defined tau and yields 0.
func (s *KendallSense) Coefficient(x, y []float64) float64 {
	if !paired(x, y) {
		return 0
	}
	n := len(x)
	var concordant, discordant, tiesX, tiesY int
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dx, dy := x[i]-x[j], y[i]-y[j]
			if dx == 0 {
				tiesX++
			}
			if dy == 0 {
				tiesY++
			}
			switch prod := dx * dy; {
			case prod > 0:
				concordant++
			case prod < 0:
				discordant++
			}
		}
	}
	n0 := n * (n - 1) / 2
	denom := math.Sqrt(float64(n0-tiesX) * float64(n0-tiesY))
	if denom == 0 {
		return 0
	}
	return sanitize(float64(concordant-discordant) / denom)
}
