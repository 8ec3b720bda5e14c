package predictive

import "autoinsight/domain/datareadiness/profiling"

// TaskType is the learning task implied by the target.
type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskRegression     TaskType = "regression"
	TaskClustering     TaskType = "clustering"
	TaskUnknown        TaskType = "unknown"
)

// NoTarget is the target column name reported on the unsupervised path.
const NoTarget = "none"

// DetectionRule names the rule that selected the target.
type DetectionRule string

const (
	RuleNamePattern    DetectionRule = "name_pattern"
	RuleBinaryCategory DetectionRule = "binary_categorical"
	RuleLastColumn     DetectionRule = "last_column"
	RuleNone           DetectionRule = "none"
)

// FeatureImportance is one normalized importance weight.
type FeatureImportance struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// ClassShare is one entry of a target class distribution.
type ClassShare struct {
	Class      string  `json:"class" yaml:"class"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// TargetInfo explains the target choice.
type TargetInfo struct {
	Column            string               `json:"column" yaml:"column"`
	ColumnType        profiling.ColumnType `json:"column_type,omitempty" yaml:"column_type,omitempty"`
	Task              TaskType             `json:"task" yaml:"task"`
	Rule              DetectionRule        `json:"rule" yaml:"rule"`
	ClassDistribution []ClassShare         `json:"class_distribution,omitempty" yaml:"class_distribution,omitempty"`
	ImbalanceRatio    float64              `json:"imbalance_ratio,omitempty" yaml:"imbalance_ratio,omitempty"`
	Warnings          []string             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PredictiveResult is the output of the baseline modeling stage.
type PredictiveResult struct {
	TargetColumn      string              `json:"target_column" yaml:"target_column"`
	TargetType        TaskType            `json:"target_type" yaml:"target_type"`
	FeaturesUsed      []string            `json:"features_used" yaml:"features_used"`
	ModelType         string              `json:"model_type" yaml:"model_type"`
	Metrics           map[string]float64  `json:"metrics" yaml:"metrics"`
	FeatureImportance []FeatureImportance `json:"feature_importance" yaml:"feature_importance"`
	ConfusionMatrix   [][]int             `json:"confusion_matrix,omitempty" yaml:"confusion_matrix,omitempty"`
	Target            TargetInfo          `json:"target" yaml:"target"`
	Simulated         bool                `json:"simulated" yaml:"simulated"`
	Note              string              `json:"note,omitempty" yaml:"note,omitempty"`
	Plan              *TrainingPlan       `json:"training_plan,omitempty" yaml:"training_plan,omitempty"`
}

// Problem types named in a training plan.
const (
	ProblemRegression = "Regression"
	ProblemBinary     = "Binary Classification"
	ProblemMulticlass = "Multiclass Classification"
)

// ModelRecommendation is one candidate model for a problem type.
type ModelRecommendation struct {
	Model      string `json:"model" yaml:"model"`
	WhyUseIt   string `json:"why_use_it" yaml:"why_use_it"`
	Complexity string `json:"complexity" yaml:"complexity"`
	BestFor    string `json:"best_for" yaml:"best_for"`
}

// ReadyFeature is one model input with its preprocessing advice.
type ReadyFeature struct {
	Feature       string  `json:"feature" yaml:"feature"`
	Type          string  `json:"type" yaml:"type"`
	Preprocessing string  `json:"preprocessing" yaml:"preprocessing"`
	MissingPct    float64 `json:"missing_pct" yaml:"missing_pct"`
	UniqueValues  int     `json:"unique_values" yaml:"unique_values"`
	Notes         string  `json:"notes" yaml:"notes"`
}

// TrainingPlan is the suggested route from the prepared data to a real model.
type TrainingPlan struct {
	TargetColumn          string                `json:"target_column" yaml:"target_column"`
	ProblemType           string                `json:"problem_type" yaml:"problem_type"`
	Samples               int                   `json:"num_samples" yaml:"num_samples"`
	Features              []ReadyFeature        `json:"features" yaml:"features"`
	RecommendedModels     []ModelRecommendation `json:"recommended_models" yaml:"recommended_models"`
	CrossValidation       string                `json:"cross_validation" yaml:"cross_validation"`
	TestSize              float64               `json:"test_size" yaml:"test_size"`
	ImbalanceHandling     string                `json:"imbalance_handling,omitempty" yaml:"imbalance_handling,omitempty"`
	PreprocessingSteps    []string              `json:"preprocessing_steps" yaml:"preprocessing_steps"`
	EstimatedTrainingTime string                `json:"estimated_training_time" yaml:"estimated_training_time"`
}

// TopFeatures returns up to n importances in ranked order.
func (r *PredictiveResult) TopFeatures(n int) []FeatureImportance {
	if r == nil {
		return nil
	}
	if n > len(r.FeatureImportance) {
		n = len(r.FeatureImportance)
	}
	return r.FeatureImportance[:n]
}

// FeatureSpec describes one model input column.
type FeatureSpec struct {
	Name    string
	Numeric bool
}

// TrainingInput is what a BaselineModel sees.
type TrainingInput struct {
	Rows     int
	Features []FeatureSpec
	// TargetValues holds the numeric target for regression.
	TargetValues []float64
	// Classes holds the distinct target labels for classification.
	Classes []string
	// Seed makes simulated output reproducible.
	Seed int64
}

// ModelFit is what a BaselineModel returns.
type ModelFit struct {
	ModelType         string
	Metrics           map[string]float64
	FeatureImportance []FeatureImportance
	ConfusionMatrix   [][]int
	Simulated         bool
}
