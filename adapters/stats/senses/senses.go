package senses

import "math"

// CorrelationSense computes one correlation coefficient over paired samples.
type CorrelationSense interface {
	Name() string
	Description() string
	// Coefficient returns a value in [-1, 1], or 0 when undefined.
	Coefficient(x, y []float64) float64
}

// Coefficients bundles the three measures reported per pair.
type Coefficients struct {
	Pearson  float64 `json:"pearson"`
	Spearman float64 `json:"spearman"`
	Kendall  float64 `json:"kendall"`
}

// SenseEngine runs the pairwise correlation senses.
type SenseEngine struct {
	pearson  CorrelationSense
	spearman CorrelationSense
	kendall  CorrelationSense
}

// NewSenseEngine creates an engine with Pearson, Spearman and Kendall senses
func NewSenseEngine() *SenseEngine {
	return &SenseEngine{
		pearson:  NewPearsonSense(),
		spearman: NewSpearmanSense(),
		kendall:  NewKendallSense(),
	}
}

// Pearson computes only the linear coefficient.
func (e *SenseEngine) Pearson(x, y []float64) float64 {
	return e.pearson.Coefficient(x, y)
}

// AnalyzeAll computes every coefficient for one pair.
func (e *SenseEngine) AnalyzeAll(x, y []float64) Coefficients {
	return Coefficients{
		Pearson:  e.pearson.Coefficient(x, y),
		Spearman: e.spearman.Coefficient(x, y),
		Kendall:  e.kendall.Coefficient(x, y),
	}
}

// Senses lists the engine's senses in report order.
func (e *SenseEngine) Senses() []CorrelationSense {
	return []CorrelationSense{e.pearson, e.spearman, e.kendall}
}

// sanitize maps NaN to 0 and clamps rounding overshoot into [-1, 1].
func sanitize(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return 0
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

func paired(x, y []float64) bool {
	return len(x) == len(y) && len(x) >= 2
}
