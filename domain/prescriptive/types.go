package prescriptive

import (
	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/predictive"
	"autoinsight/domain/stats"
)

// Priority of a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank orders priorities High < Medium < Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Severity of a data-quality risk.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// FeatureSuggestion is a proposed engineered feature.
type FeatureSuggestion struct {
	Technique   string   `json:"technique" yaml:"technique"`
	Columns     []string `json:"columns" yaml:"columns"`
	Description string   `json:"description" yaml:"description"`
	Impact      string   `json:"impact" yaml:"impact"`
}

// Risk is a triggered data-quality rule.
type Risk struct {
	Risk       string   `json:"risk" yaml:"risk"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Column     string   `json:"column,omitempty" yaml:"column,omitempty"`
	Detail     string   `json:"detail" yaml:"detail"`
	Mitigation string   `json:"mitigation" yaml:"mitigation"`
}

// BusinessLever ties a high-importance feature to an action.
type BusinessLever struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Importance float64 `json:"importance" yaml:"importance"`
	Insight    string  `json:"insight" yaml:"insight"`
	Action     string  `json:"action" yaml:"action"`
}

// ColumnRecommendation is a per-column treatment.
type ColumnRecommendation struct {
	Column    string   `json:"column" yaml:"column"`
	Kind      string   `json:"kind" yaml:"kind"`
	Issue     string   `json:"issue" yaml:"issue"`
	Action    string   `json:"action" yaml:"action"`
	Rationale string   `json:"rationale" yaml:"rationale"`
	Priority  Priority `json:"priority" yaml:"priority"`
}

// CorrelationAction proposes what to do with one strongly correlated pair.
type CorrelationAction struct {
	Feature        string   `json:"feature" yaml:"feature"`
	CorrelatedWith string   `json:"correlated_with" yaml:"correlated_with"`
	Correlation    float64  `json:"correlation" yaml:"correlation"`
	Severity       Severity `json:"severity" yaml:"severity"`
	Action         string   `json:"action" yaml:"action"`
	Rationale      string   `json:"rationale" yaml:"rationale"`
	Priority       Priority `json:"priority" yaml:"priority"`
}

// DatasetAction is a dataset-level recommendation measured on the raw input.
type DatasetAction struct {
	Issue      string   `json:"issue" yaml:"issue"`
	Count      int      `json:"count" yaml:"count"`
	Percentage float64  `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Columns    []string `json:"columns,omitempty" yaml:"columns,omitempty"`
	Action     string   `json:"action" yaml:"action"`
	Rationale  string   `json:"rationale" yaml:"rationale"`
	Priority   Priority `json:"priority" yaml:"priority"`
}

// Summary counts recommendations by priority. Categories holds the size of
// each recommendation list.
type Summary struct {
	TotalRecommendations int            `json:"total_recommendations" yaml:"total_recommendations"`
	HighPriority         int            `json:"high_priority" yaml:"high_priority"`
	MediumPriority       int            `json:"medium_priority" yaml:"medium_priority"`
	LowPriority          int            `json:"low_priority" yaml:"low_priority"`
	Categories           map[string]int `json:"categories" yaml:"categories"`
	Assessment           string         `json:"assessment" yaml:"assessment"`
}

// Inputs are the upstream results the advisor reads. Any of them may be
// nil when the producing stage failed or produced nothing. Cleaning carries
// the raw-input measurements taken before imputation.
type Inputs struct {
	Cleaning   *cleaning.CleaningResult
	Predictive *predictive.PredictiveResult
	Diagnostic *stats.DiagnosticResult
}

// PrescriptiveResult is the output of the advisor.
type PrescriptiveResult struct {
	FeatureEngineering         []FeatureSuggestion    `json:"feature_engineering" yaml:"feature_engineering"`
	DataQualityRisks           []Risk                 `json:"data_quality_risks" yaml:"data_quality_risks"`
	BusinessLevers             []BusinessLever        `json:"business_levers" yaml:"business_levers"`
	CorrelationNote            string                 `json:"correlation_note,omitempty" yaml:"correlation_note,omitempty"`
	ModelImprovements          []string               `json:"model_improvements" yaml:"model_improvements"`
	Optimizations              []string               `json:"optimizations" yaml:"optimizations"`
	NumericRecommendations     []ColumnRecommendation `json:"numeric_recommendations" yaml:"numeric_recommendations"`
	CategoricalRecommendations []ColumnRecommendation `json:"categorical_recommendations" yaml:"categorical_recommendations"`
	CorrelationActions         []CorrelationAction    `json:"correlation_actions" yaml:"correlation_actions"`
	DatasetActions             []DatasetAction        `json:"dataset_actions" yaml:"dataset_actions"`
	Summary                    Summary                `json:"summary" yaml:"summary"`
}
