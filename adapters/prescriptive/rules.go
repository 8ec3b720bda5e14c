package prescriptive

import (
	"fmt"
	"math"
	"strings"

	"autoinsight/domain/predictive"
	domainprescriptive "autoinsight/domain/prescriptive"
	"autoinsight/internal/analysis/columns"
)

// Rule thresholds.
const (
	imbalanceMedium    = 2.0
	imbalanceHigh      = 5.0
	missingMedium      = 20.0
	missingHigh        = 50.0
	smallSample        = 100
	dominantCategory   = 90.0
	strongCorrelation  = 0.7
	logSkewThreshold   = 1.0
	cvSmallDatasetRows = 1000
)

func featureEngineering(f facts) []domainprescriptive.FeatureSuggestion {
	var out []domainprescriptive.FeatureSuggestion
	cont := f.continuous

	if skewed := f.skewed(logSkewThreshold); len(skewed) > 0 {
		if len(skewed) > 5 {
			skewed = skewed[:5]
		}
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Log Transformation",
			Columns:     skewed,
			Description: "Apply log(1+x) to reduce skewness",
			Impact:      "High",
		})
	}
	if len(cont) >= 2 {
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Polynomial Features",
			Columns:     cont[:2],
			Description: fmt.Sprintf("Create squared and interaction terms such as %s^2 and %s*%s", cont[0], cont[0], cont[1]),
			Impact:      "Medium",
		})
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Ratio Features",
			Columns:     cont[:2],
			Description: fmt.Sprintf("Create ratio features such as %s / %s", cont[0], cont[1]),
			Impact:      "Medium",
		})
	}
	if len(f.categorical) >= 2 {
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Categorical Interactions",
			Columns:     f.categorical[:2],
			Description: fmt.Sprintf("Combine categories into %s_%s", f.categorical[0], f.categorical[1]),
			Impact:      "Medium",
		})
	}
	if len(f.datetime) > 0 {
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Date Part Extraction",
			Columns:     f.datetime,
			Description: "Extract year, month, weekday and elapsed days",
			Impact:      "Medium",
		})
	}
	if len(cont) > 0 {
		out = append(out, domainprescriptive.FeatureSuggestion{
			Technique:   "Binning/Discretization",
			Columns:     cont[:1],
			Description: fmt.Sprintf("Bin %s into quartiles", cont[0]),
			Impact:      "Low-Medium",
		})
	}
	return out
}

// dataQualityRisks returns every rule that fires, in rule order.
func dataQualityRisks(f facts) []domainprescriptive.Risk {
	out := []domainprescriptive.Risk{}

	if ratio := f.imbalance(); ratio > imbalanceMedium {
		sev := domainprescriptive.SeverityMedium
		if ratio > imbalanceHigh {
			sev = domainprescriptive.SeverityHigh
		}
		out = append(out, domainprescriptive.Risk{
			Risk:       "Class imbalance",
			Severity:   sev,
			Column:     f.pred.TargetColumn,
			Detail:     fmt.Sprintf("majority to minority class ratio is %.1f", ratio),
			Mitigation: "Use class weights, resampling or stratified splits",
		})
	}

	for _, c := range f.columns {
		if c.missing <= missingMedium {
			continue
		}
		sev := domainprescriptive.SeverityMedium
		if c.missing > missingHigh {
			sev = domainprescriptive.SeverityHigh
		}
		out = append(out, domainprescriptive.Risk{
			Risk:       "Missing values",
			Severity:   sev,
			Column:     c.name,
			Detail:     fmt.Sprintf("%.1f%% of values are missing", c.missing),
			Mitigation: "Review the imputation strategy or drop the column",
		})
	}

	for _, feature := range f.highVIF() {
		out = append(out, domainprescriptive.Risk{
			Risk:       "Multicollinearity",
			Severity:   domainprescriptive.SeverityHigh,
			Column:     feature,
			Detail:     "VIF at or above 10",
			Mitigation: "Drop or combine correlated features, or apply PCA",
		})
	}

	if f.rows < smallSample {
		out = append(out, domainprescriptive.Risk{
			Risk:       "Small sample size",
			Severity:   domainprescriptive.SeverityMedium,
			Detail:     fmt.Sprintf("only %d rows", f.rows),
			Mitigation: "Prefer simple models and cross-validation",
		})
	}

	for _, c := range f.columns {
		if len(c.labels) == 0 {
			continue
		}
		top := columns.Frequencies(c.labels)[0]
		if top.Percentage > dominantCategory {
			out = append(out, domainprescriptive.Risk{
				Risk:       "Dominant category",
				Severity:   domainprescriptive.SeverityMedium,
				Column:     c.name,
				Detail:     fmt.Sprintf("%q covers %.1f%% of rows", top.Value, top.Percentage),
				Mitigation: "Group minority categories or drop the column",
			})
		}
	}
	return out
}

// businessLevers maps the top three importances to actions and notes strong
// correlations.
func businessLevers(f facts) ([]domainprescriptive.BusinessLever, string) {
	levers := []domainprescriptive.BusinessLever{}
	if f.pred != nil {
		numeric := make(map[string]bool)
		for _, c := range f.columns {
			numeric[c.name] = c.kind.IsNumeric()
		}
		for _, fi := range f.pred.TopFeatures(MaxBusinessLevers) {
			lever := domainprescriptive.BusinessLever{
				Feature:    fi.Feature,
				Importance: fi.Importance,
				Insight:    fmt.Sprintf("%s carries %.1f%% of model importance", fi.Feature, fi.Importance*100),
			}
			if numeric[fi.Feature] {
				lever.Action = fmt.Sprintf("Track %s as a leading indicator and test interventions that move it", fi.Feature)
			} else {
				lever.Action = fmt.Sprintf("Segment strategy by %s and compare outcomes per group", fi.Feature)
			}
			levers = append(levers, lever)
		}
	}

	var strong []string
	if f.diag != nil {
		for _, p := range f.diag.Correlations {
			if math.Abs(p.Pearson) >= strongCorrelation {
				strong = append(strong, fmt.Sprintf("%s (%.2f)", p.Pair, p.Pearson))
			}
		}
	}
	note := ""
	if len(strong) > 0 {
		note = "Strongly correlated features move together: " + strings.Join(strong, ", ") + ". Act on them jointly."
	}
	return levers, note
}

func modelImprovements(f facts) []string {
	var out []string
	if f.pred != nil && f.pred.Simulated {
		out = append(out, "Replace the simulated baseline with a trained model evaluated by cross-validation")
	}
	if f.imbalance() > imbalanceMedium {
		out = append(out, "Rebalance classes with class weights or SMOTE")
	}
	if len(f.highVIF()) > 0 {
		out = append(out, "Remove collinear features or use regularized models (Ridge, Lasso)")
	}
	if f.rows < cvSmallDatasetRows {
		out = append(out, "Use k-fold cross-validation to stabilize estimates")
	}
	if f.pred != nil {
		switch f.pred.TargetType {
		case predictive.TaskClassification, predictive.TaskRegression:
			out = append(out, "Compare gradient boosting models (XGBoost, LightGBM) against the baseline")
		case predictive.TaskClustering:
			out = append(out, "Standardize features and choose k with the elbow or silhouette method")
		}
	}
	out = append(out, "Tune hyperparameters with randomized or Bayesian search")
	return out
}

func optimizations(f facts) []string {
	var out []string
	if top := f.pred.TopFeatures(1); len(top) == 1 {
		out = append(out, fmt.Sprintf("Prioritize data quality for %s, the most important feature", top[0].Feature))
	}
	if skewed := f.skewed(logSkewThreshold); len(skewed) > 0 {
		out = append(out, "Log-transform skewed features: "+strings.Join(skewed, ", "))
	}
	for _, c := range f.columns {
		if len(c.labels) > 0 && distinctCount(c.labels) > 10 {
			out = append(out, "Apply target or frequency encoding to high-cardinality categoricals")
			break
		}
	}
	if len(f.continuous) > 0 {
		out = append(out, "Scale numeric features before distance-based or linear models")
	}
	out = append(out, "Monitor the top features for drift after deployment")
	return out
}
