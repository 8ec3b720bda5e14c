// Package prescriptive turns profiling, diagnostic and predictive output into
// deterministic recommendations.
package prescriptive

import (
	"context"
	"sort"

	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	domainprescriptive "autoinsight/domain/prescriptive"
	apperrors "autoinsight/internal/errors"
)

// List caps.
const (
	MaxFeatureSuggestions = 5
	MaxModelImprovements  = 5
	MaxOptimizations      = 4
	MaxBusinessLevers     = 3
)

// Advisor implements PrescriptivePort as a fixed rule engine.
type Advisor struct{}

// NewAdvisor creates a new advisor
func NewAdvisor() *Advisor {
	return &Advisor{}
}

// GeneratePrescriptive evaluates every rule over the cleaned dataset. Any
// field of in may be nil; rules that need it are skipped, and raw-input
// measurements fall back to ds.
func (a *Advisor) GeneratePrescriptive(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles,
	in domainprescriptive.Inputs) (*domainprescriptive.PrescriptiveResult, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("prescriptive analysis requires a dataset")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := newFacts(ds, profiles, in)
	result := &domainprescriptive.PrescriptiveResult{
		FeatureEngineering:         capSuggestions(featureEngineering(f)),
		DataQualityRisks:           dataQualityRisks(f),
		ModelImprovements:          capStrings(modelImprovements(f), MaxModelImprovements),
		Optimizations:              capStrings(optimizations(f), MaxOptimizations),
		NumericRecommendations:     numericRecommendations(f),
		CategoricalRecommendations: categoricalRecommendations(f),
		CorrelationActions:         correlationActions(f),
		DatasetActions:             datasetActions(f),
	}
	result.BusinessLevers, result.CorrelationNote = businessLevers(f)
	result.Summary = summarize(result)
	return result, nil
}

// summarize counts per-column recommendations, correlation and dataset
// actions by priority and risks by severity. Feature suggestions only add to
// the total.
func summarize(r *domainprescriptive.PrescriptiveResult) domainprescriptive.Summary {
	s := domainprescriptive.Summary{Categories: map[string]int{
		"numeric_recommendations":     len(r.NumericRecommendations),
		"categorical_recommendations": len(r.CategoricalRecommendations),
		"correlation_actions":         len(r.CorrelationActions),
		"dataset_actions":             len(r.DatasetActions),
		"data_quality_risks":          len(r.DataQualityRisks),
		"feature_engineering":         len(r.FeatureEngineering),
	}}
	count := func(p domainprescriptive.Priority) {
		s.TotalRecommendations++
		switch p {
		case domainprescriptive.PriorityHigh:
			s.HighPriority++
		case domainprescriptive.PriorityMedium:
			s.MediumPriority++
		default:
			s.LowPriority++
		}
	}
	for _, rec := range r.NumericRecommendations {
		count(rec.Priority)
	}
	for _, rec := range r.CategoricalRecommendations {
		count(rec.Priority)
	}
	for _, action := range r.CorrelationActions {
		count(action.Priority)
	}
	for _, action := range r.DatasetActions {
		count(action.Priority)
	}
	for _, risk := range r.DataQualityRisks {
		count(priorityOf(risk.Severity))
	}
	s.TotalRecommendations += len(r.FeatureEngineering)
	s.Assessment = Assessment(s)
	return s
}

// Assessment grades the summary: more than five high-priority items is
// critical, any is needs-work, more than five medium is fair.
func Assessment(s domainprescriptive.Summary) string {
	switch {
	case s.HighPriority > 5:
		return "Critical - Many high-priority issues require attention"
	case s.HighPriority > 0:
		return "Needs Work - Some high-priority issues to address"
	case s.MediumPriority > 5:
		return "Fair - Consider addressing medium-priority items"
	}
	return "Good - Dataset ready for modeling with minor improvements"
}

func priorityOf(s domainprescriptive.Severity) domainprescriptive.Priority {
	switch s {
	case domainprescriptive.SeverityHigh:
		return domainprescriptive.PriorityHigh
	case domainprescriptive.SeverityMedium:
		return domainprescriptive.PriorityMedium
	}
	return domainprescriptive.PriorityLow
}

func sortByPriority(recs []domainprescriptive.ColumnRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}

func capSuggestions(s []domainprescriptive.FeatureSuggestion) []domainprescriptive.FeatureSuggestion {
	if len(s) > MaxFeatureSuggestions {
		return s[:MaxFeatureSuggestions]
	}
	return s
}

func capStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
