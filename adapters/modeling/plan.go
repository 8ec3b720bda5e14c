package modeling

import (
	"fmt"
	"math"
	"strings"

	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/internal/analysis/columns"
)

var modelCatalog = map[string][]predictive.ModelRecommendation{
	predictive.ProblemRegression: {
		{Model: "Linear Regression", WhyUseIt: "Simple baseline, interpretable coefficients", Complexity: "Low", BestFor: "Linear relationships, explainability"},
		{Model: "Ridge / Lasso Regression", WhyUseIt: "Handles multicollinearity, regularization", Complexity: "Low", BestFor: "Many features, feature selection"},
		{Model: "Random Forest Regressor", WhyUseIt: "Non-linear relationships, robust to outliers", Complexity: "Medium", BestFor: "Complex relationships, feature importance"},
		{Model: "XGBoost Regressor", WhyUseIt: "High accuracy, handles missing values", Complexity: "Medium-High", BestFor: "Competitive performance, structured data"},
		{Model: "LightGBM Regressor", WhyUseIt: "Fast training, memory efficient", Complexity: "Medium-High", BestFor: "Large datasets, speed requirements"},
	},
	predictive.ProblemBinary: {
		{Model: "Logistic Regression", WhyUseIt: "Interpretable, probability outputs", Complexity: "Low", BestFor: "Baseline, explainability requirements"},
		{Model: "Random Forest Classifier", WhyUseIt: "Non-linear, feature importance", Complexity: "Medium", BestFor: "Imbalanced data, complex patterns"},
		{Model: "XGBoost Classifier", WhyUseIt: "State-of-the-art accuracy", Complexity: "Medium-High", BestFor: "Maximum accuracy, structured data"},
		{Model: "LightGBM Classifier", WhyUseIt: "Fast, handles categorical features", Complexity: "Medium-High", BestFor: "Large datasets, quick iteration"},
		{Model: "Support Vector Machine", WhyUseIt: "Effective in high dimensions", Complexity: "Medium", BestFor: "Small to medium datasets"},
	},
	predictive.ProblemMulticlass: {
		{Model: "Multinomial Logistic Regression", WhyUseIt: "Simple baseline, interpretable", Complexity: "Low", BestFor: "Baseline model, linear boundaries"},
		{Model: "Random Forest Classifier", WhyUseIt: "Handles many classes well", Complexity: "Medium", BestFor: "Robust multiclass handling"},
		{Model: "XGBoost Classifier", WhyUseIt: "Strong multiclass performance", Complexity: "Medium-High", BestFor: "Competitive accuracy"},
		{Model: "LightGBM Classifier", WhyUseIt: "Efficient multiclass training", Complexity: "Medium-High", BestFor: "Large datasets, many classes"},
		{Model: "CatBoost Classifier", WhyUseIt: "Great with categoricals, no tuning needed", Complexity: "Medium", BestFor: "Mixed feature types"},
	},
}

// ProblemType names the supervised problem of target, or "" on the
// unsupervised and unknown paths.
func ProblemType(target predictive.TargetInfo) string {
	switch target.Task {
	case predictive.TaskRegression:
		return predictive.ProblemRegression
	case predictive.TaskClassification:
		if len(target.ClassDistribution) == 2 {
			return predictive.ProblemBinary
		}
		return predictive.ProblemMulticlass
	}
	return ""
}

// ModelRecommendations lists candidate models for a problem type. Unknown
// problem types get none.
func ModelRecommendations(problem string) []predictive.ModelRecommendation {
	return append([]predictive.ModelRecommendation(nil), modelCatalog[problem]...)
}

// ReadyFeatures lists the columns a real model could take, with the
// preprocessing each needs. The target, datetime and constant columns are
// left out.
func ReadyFeatures(ds *dataset.Dataset, profiles profiling.Profiles, target predictive.TargetInfo) []predictive.ReadyFeature {
	out := []predictive.ReadyFeature{}
	for _, col := range ds.Columns {
		kind := profiles.TypeOf(col)
		if col == target.Column || kind == profiling.TypeDatetime {
			continue
		}
		values := ds.Column(col)
		unique := columns.UniqueCount(values)
		if unique <= 1 {
			continue
		}

		f := predictive.ReadyFeature{
			Feature:      col,
			MissingPct:   columns.Round(columns.MissingPct(values), 2),
			UniqueValues: unique,
		}
		switch kind {
		case profiling.TypeContinuous:
			f.Type = "Continuous Numeric"
			f.Preprocessing = "Standard scaling recommended"
			f.Notes = continuousNotes(columns.NumericOf(values))
		case profiling.TypeDiscrete:
			f.Type = "Discrete Numeric"
			f.Preprocessing = "Ordinal encoding or scaling"
			if unique <= 5 {
				f.Preprocessing = "One-hot encoding (if ordinal relationship unclear)"
			}
			f.Notes = fmt.Sprintf("%d unique values", unique)
		case profiling.TypeCategorical:
			f.Type = "Categorical"
			switch {
			case unique == 2:
				f.Preprocessing = "Binary encoding"
			case unique <= 10:
				f.Preprocessing = "One-hot encoding"
			case unique <= 50:
				f.Preprocessing = "Target encoding or frequency encoding"
			default:
				f.Preprocessing = "Target encoding (high cardinality)"
			}
			f.Notes = fmt.Sprintf("%d categories", unique)
		default:
			if columns.IsNumericValues(values) {
				f.Type = "Numeric (auto-detected)"
				f.Preprocessing = "Scaling recommended"
			} else {
				f.Type = "Text/Other"
				f.Preprocessing = "Requires manual preprocessing"
			}
			f.Notes = "Type inferred"
		}
		out = append(out, f)
	}
	return out
}

func continuousNotes(xs []float64) string {
	if len(xs) == 0 {
		return "All missing values"
	}
	var notes []string
	switch skew := math.Abs(columns.Skewness(xs)); {
	case skew > 2:
		notes = append(notes, "Highly skewed - log transform may help")
	case skew > 1:
		notes = append(notes, "Moderately skewed")
	}
	if _, n := columns.DetectOutliers(xs); n > 0 {
		if pct := float64(n) / float64(len(xs)) * 100; pct > 5 {
			notes = append(notes, fmt.Sprintf("%.1f%% outliers", pct))
		}
	}
	if len(notes) == 0 {
		return "Normal distribution"
	}
	return strings.Join(notes, "; ")
}

// NewTrainingPlan assembles the plan for a supervised target. It returns nil
// when target has no supervised problem type.
func NewTrainingPlan(rows int, target predictive.TargetInfo, features []predictive.ReadyFeature) *predictive.TrainingPlan {
	problem := ProblemType(target)
	if problem == "" {
		return nil
	}
	plan := &predictive.TrainingPlan{
		TargetColumn:          target.Column,
		ProblemType:           problem,
		Samples:               rows,
		Features:              features,
		RecommendedModels:     ModelRecommendations(problem),
		PreprocessingSteps:    []string{},
		EstimatedTrainingTime: estimateTrainingTime(rows, len(features)),
	}

	switch {
	case rows < 1000:
		plan.CrossValidation, plan.TestSize = "5-fold cross-validation (small dataset)", 0.2
	case rows < 10000:
		plan.CrossValidation, plan.TestSize = "5-fold cross-validation", 0.2
	default:
		plan.CrossValidation, plan.TestSize = "Single train/test split with validation set", 0.15
	}

	if target.Task == predictive.TaskClassification {
		switch {
		case target.ImbalanceRatio > 10:
			plan.ImbalanceHandling = "SMOTE or class weights strongly recommended"
		case target.ImbalanceRatio > 3:
			plan.ImbalanceHandling = "Consider class weights or stratified sampling"
		}
	}

	var numeric, categorical, missing int
	for _, f := range features {
		if strings.Contains(f.Type, "Numeric") {
			numeric++
		}
		if f.Type == "Categorical" {
			categorical++
		}
		if f.MissingPct > 0 {
			missing++
		}
	}
	if numeric > 0 {
		plan.PreprocessingSteps = append(plan.PreprocessingSteps, fmt.Sprintf("Scale %d numeric features", numeric))
	}
	if categorical > 0 {
		plan.PreprocessingSteps = append(plan.PreprocessingSteps, fmt.Sprintf("Encode %d categorical features", categorical))
	}
	if missing > 0 {
		plan.PreprocessingSteps = append(plan.PreprocessingSteps, fmt.Sprintf("Impute missing values in %d features", missing))
	}
	return plan
}

func estimateTrainingTime(rows, features int) string {
	switch cells := rows * features; {
	case cells < 100_000:
		return "Fast (< 1 minute)"
	case cells < 1_000_000:
		return "Moderate (1-5 minutes)"
	case cells < 10_000_000:
		return "Slow (5-30 minutes)"
	}
	return "Very slow (> 30 minutes) - consider sampling"
}
