package senses

import "gonum.org/v1/gonum/stat"

// PearsonSense measures linear association
type PearsonSense struct{}

// NewPearsonSense creates a new Pearson correlation sense
func NewPearsonSense() *PearsonSense {
	return &PearsonSense{}
}

// Name returns the sense name
func (s *PearsonSense) Name() string {
	return "pearson"
}

// Description returns a human-readable description
func (s *PearsonSense) Description() string {
	return "Detects linear relationships between two numeric variables"
}

// Coefficient computes the product-moment correlation. Constant inputs yield 0.
func (s *PearsonSense) Coefficient(x, y []float64) float64 {
	if !paired(x, y) {
		return 0
	}
	return sanitize(stat.Correlation(x, y, nil))
}
