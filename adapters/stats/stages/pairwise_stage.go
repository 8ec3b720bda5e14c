package stages

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"autoinsight/adapters/stats/senses"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	domainstats "autoinsight/domain/stats"
	"autoinsight/internal/analysis/columns"
	apperrors "autoinsight/internal/errors"
)

const (
	// DefaultCorrelationThreshold is the |pearson| a pair needs to be reported.
	DefaultCorrelationThreshold = 0.3
	// DefaultMaxPairs caps the reported pairs.
	DefaultMaxPairs = 20
	// MaxVariables bounds the O(n²) matrix build.
	MaxVariables = 2000

	monotonicGap = 0.2
)

// PairwiseStage computes the Pearson matrix, correlated pairs and VIF
// flags over numeric columns. It implements DiagnosticPort.
type PairwiseStage struct {
	engine    *senses.SenseEngine
	threshold float64
	maxPairs  int
}

// NewPairwiseStage creates a new pairwise stage with default limits
func NewPairwiseStage() *PairwiseStage {
	return NewPairwiseStageWith(DefaultCorrelationThreshold, DefaultMaxPairs)
}

// NewPairwiseStageWith overrides the pair threshold and cap. Non-positive
// values fall back to the defaults.
func NewPairwiseStageWith(threshold float64, maxPairs int) *PairwiseStage {
	if threshold <= 0 {
		threshold = DefaultCorrelationThreshold
	}
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}
	return &PairwiseStage{engine: senses.NewSenseEngine(), threshold: threshold, maxPairs: maxPairs}
}

// ComputeDiagnostic runs only when at least two numeric columns exist;
// otherwise it returns empty results.
func (p *PairwiseStage) ComputeDiagnostic(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*domainstats.DiagnosticResult, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("diagnostic statistics require a dataset")
	}

	var features []string
	for _, col := range profiles.NumericColumns() {
		if _, ok := ds.Index(col); ok {
			features = append(features, col)
		}
	}

	result := &domainstats.DiagnosticResult{
		Correlations:      []domainstats.CorrelationPair{},
		Multicollinearity: []domainstats.MulticollinearityWarning{},
		PearsonMatrix:     domainstats.CorrelationMatrix{Features: []string{}, Values: [][]float64{}},
		Summary:           domainstats.DiagnosticSummary{AnalyzedFeatures: len(features), HealthScore: 100},
	}
	if len(features) < 2 {
		return result, nil
	}
	if len(features) > MaxVariables {
		return nil, apperrors.InvalidInput(fmt.Sprintf("too many variables: %d > %d", len(features), MaxVariables))
	}

	data := make([][]float64, len(features))
	for i, f := range features {
		data[i] = columns.NumericValues(ds, f)
	}

	corr, err := p.correlationMatrix(ctx, data)
	if err != nil {
		return nil, err
	}

	pairs, err := p.correlatedPairs(ctx, features, data, corr)
	if err != nil {
		return nil, err
	}
	result.Correlations = pairs
	result.PearsonMatrix = toMatrix(features, corr)

	for i, f := range features {
		vif := columns.VIF(corr, i)
		result.Multicollinearity = append(result.Multicollinearity, domainstats.MulticollinearityWarning{
			Feature: f,
			VIF:     columns.Round(vif, 2),
			Status:  columns.VIFStatus(vif),
		})
	}

	result.Summary = summarizeDiagnostics(len(features), pairs, result.Multicollinearity)
	return result, nil
}

// correlationMatrix fills a symmetric Pearson matrix with a unit diagonal.
func (p *PairwiseStage) correlationMatrix(ctx context.Context, data [][]float64) (*mat.SymDense, error) {
	n := len(data)
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			x, y := truncatePair(data[i], data[j])
			corr.SetSym(i, j, p.engine.Pearson(x, y))
		}
	}
	return corr, nil
}

// correlatedPairs keeps pairs at or above the threshold, strongest first.
func (p *PairwiseStage) correlatedPairs(ctx context.Context, features []string, data [][]float64, corr mat.Symmetric) ([]domainstats.CorrelationPair, error) {
	type candidate struct {
		i, j int
		r    float64
	}
	var candidates []candidate
	n := len(features)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if r := corr.At(i, j); math.Abs(r) >= p.threshold {
				candidates = append(candidates, candidate{i: i, j: j, r: r})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return math.Abs(candidates[a].r) > math.Abs(candidates[b].r)
	})
	if len(candidates) > p.maxPairs {
		candidates = candidates[:p.maxPairs]
	}

	pairs := make([]domainstats.CorrelationPair, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, y := truncatePair(data[c.i], data[c.j])
		co := p.engine.AnalyzeAll(x, y)
		pairs = append(pairs, domainstats.CorrelationPair{
			Pair:           features[c.i] + " ↔ " + features[c.j],
			FeatureA:       features[c.i],
			FeatureB:       features[c.j],
			Pearson:        columns.Round(co.Pearson, 2),
			Spearman:       columns.Round(co.Spearman, 2),
			Kendall:        columns.Round(co.Kendall, 2),
			Interpretation: Interpret(co.Pearson, co.Spearman),
		})
	}
	return pairs, nil
}

// truncatePair cuts both columns to the shorter length. Values are taken per
// column, so rows are not realigned when missingness differs.
func truncatePair(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	return x[:n], y[:n]
}

// Interpret labels a relationship by Pearson strength and sign, and calls it
// monotonic when Spearman departs from Pearson by more than 0.2.
func Interpret(pearson, spearman float64) string {
	abs := math.Abs(pearson)
	var strength string
	switch {
	case abs >= 0.7:
		strength = "Strong"
	case abs >= 0.5:
		strength = "Moderate"
	case abs >= 0.3:
		strength = "Weak"
	default:
		strength = "Very weak"
	}
	direction := "positive"
	if pearson < 0 {
		direction = "negative"
	}
	form := "linear"
	if math.Abs(spearman-pearson) > monotonicGap {
		form = "monotonic"
	}
	return fmt.Sprintf("%s %s %s relationship", strength, direction, form)
}

func toMatrix(features []string, corr mat.Symmetric) domainstats.CorrelationMatrix {
	n := corr.SymmetricDim()
	values := make([][]float64, n)
	for i := 0; i < n; i++ {
		values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			values[i][j] = columns.Round(corr.At(i, j), 4)
		}
	}
	return domainstats.CorrelationMatrix{Features: append([]string(nil), features...), Values: values}
}

// summarizeDiagnostics scores feature health: each high VIF costs 3, each
// moderate VIF 1 and each strong pair 2, out of 3 per feature.
func summarizeDiagnostics(n int, pairs []domainstats.CorrelationPair, vifs []domainstats.MulticollinearityWarning) domainstats.DiagnosticSummary {
	s := domainstats.DiagnosticSummary{AnalyzedFeatures: n}
	for _, pair := range pairs {
		switch abs := math.Abs(pair.Pearson); {
		case abs >= 0.7:
			s.StrongPairs++
		case abs >= 0.5:
			s.ModeratePairs++
		default:
			s.WeakPairs++
		}
	}
	for _, w := range vifs {
		switch w.Status {
		case domainstats.VIFHigh:
			s.HighVIF++
		case domainstats.VIFModerate:
			s.ModerateVIF++
		}
	}
	issues := float64(s.HighVIF*3 + s.ModerateVIF + s.StrongPairs*2)
	ceiling := float64(n * 3)
	s.HealthScore = 100
	if ceiling > 0 {
		s.HealthScore = columns.Round(math.Max(0, 100-issues/ceiling*100), 1)
	}
	return s
}
