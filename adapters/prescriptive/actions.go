package prescriptive

import (
	"fmt"
	"math"
	"strings"

	domainprescriptive "autoinsight/domain/prescriptive"
	"autoinsight/internal/analysis/columns"
)

// Action thresholds. Percentages are of the raw input.
const (
	correlationAction     = 0.8
	correlationDrop       = 0.9
	duplicateHighPct      = 10.0
	datasetMissingHigh    = 30.0
	datasetMissingMedium  = 10.0
	featureShareMedium    = 0.3
	maxListedColumns      = 5
	datasetSmallSampleMin = 100
)

// correlationActions proposes a treatment for each pair at or above
// correlationAction. The second feature of the pair is the one to act on.
func correlationActions(f facts) []domainprescriptive.CorrelationAction {
	out := []domainprescriptive.CorrelationAction{}
	if f.diag == nil {
		return out
	}
	for _, p := range f.diag.Correlations {
		r := math.Abs(p.Pearson)
		if r < correlationAction {
			continue
		}
		action := domainprescriptive.CorrelationAction{
			Feature:        p.FeatureB,
			CorrelatedWith: p.FeatureA,
			Correlation:    columns.Round(p.Pearson, 4),
		}
		if r >= correlationDrop {
			action.Severity = domainprescriptive.SeverityHigh
			action.Action = "Drop one feature"
			action.Rationale = fmt.Sprintf("Very high correlation (%.3f) with %s", p.Pearson, p.FeatureA)
			action.Priority = domainprescriptive.PriorityHigh
		} else {
			action.Severity = domainprescriptive.SeverityMedium
			action.Action = "Consider PCA or feature combination"
			action.Rationale = fmt.Sprintf("High correlation (%.3f) with %s", p.Pearson, p.FeatureA)
			action.Priority = domainprescriptive.PriorityMedium
		}
		out = append(out, action)
	}
	return out
}

// datasetActions looks at the raw input as a whole: duplicates, overall
// missingness, width against depth, constant and identifier columns, and
// sample size.
func datasetActions(f facts) []domainprescriptive.DatasetAction {
	out := []domainprescriptive.DatasetAction{}
	rows := f.rawRows
	if rows == 0 {
		return out
	}

	if f.duplicates > 0 {
		pct := float64(f.duplicates) / float64(rows) * 100
		priority := domainprescriptive.PriorityMedium
		if pct > duplicateHighPct {
			priority = domainprescriptive.PriorityHigh
		}
		out = append(out, domainprescriptive.DatasetAction{
			Issue:      "Duplicate Rows",
			Count:      f.duplicates,
			Percentage: columns.Round(pct, 2),
			Action:     "Drop Duplicates",
			Rationale:  "Duplicate rows can bias model training",
			Priority:   priority,
		})
	}

	nulls := 0
	for _, q := range f.rawQuality {
		nulls += q.NullCount
	}
	if cells := rows * len(f.rawQuality); cells > 0 && nulls > 0 {
		pct := float64(nulls) / float64(cells) * 100
		switch {
		case pct > datasetMissingHigh:
			out = append(out, domainprescriptive.DatasetAction{
				Issue:      "High Missing Values",
				Count:      nulls,
				Percentage: columns.Round(pct, 2),
				Action:     "Investigate data collection or use advanced imputation",
				Rationale:  fmt.Sprintf("%.1f%% of all cells are missing", pct),
				Priority:   domainprescriptive.PriorityHigh,
			})
		case pct > datasetMissingMedium:
			out = append(out, domainprescriptive.DatasetAction{
				Issue:      "Moderate Missing Values",
				Count:      nulls,
				Percentage: columns.Round(pct, 2),
				Action:     "Apply appropriate imputation strategies",
				Rationale:  fmt.Sprintf("%.1f%% of all cells are missing", pct),
				Priority:   domainprescriptive.PriorityMedium,
			})
		}
	}

	features := len(f.rawQuality)
	switch {
	case features > rows:
		out = append(out, domainprescriptive.DatasetAction{
			Issue:     "More Features than Samples",
			Count:     features,
			Action:    "Apply dimensionality reduction or feature selection",
			Rationale: fmt.Sprintf("%d features but only %d samples risks overfitting", features, rows),
			Priority:  domainprescriptive.PriorityHigh,
		})
	case float64(features) > featureShareMedium*float64(rows):
		out = append(out, domainprescriptive.DatasetAction{
			Issue:     "High Feature to Sample Ratio",
			Count:     features,
			Action:    "Consider regularization and feature selection",
			Rationale: fmt.Sprintf("feature to sample ratio is %.2f", float64(features)/float64(rows)),
			Priority:  domainprescriptive.PriorityMedium,
		})
	}

	var constant, idLike []string
	for _, q := range f.rawQuality {
		if q.UniqueValues <= 1 {
			constant = append(constant, q.Column)
		}
		if q.UniqueValues == rows && isIdentifierName(q.Column) {
			idLike = append(idLike, q.Column)
		}
	}
	if len(constant) > 0 {
		out = append(out, domainprescriptive.DatasetAction{
			Issue:     "Constant Columns",
			Count:     len(constant),
			Columns:   firstN(constant, maxListedColumns),
			Action:    "Drop constant columns",
			Rationale: "Constant columns carry no information",
			Priority:  domainprescriptive.PriorityHigh,
		})
	}
	if len(idLike) > 0 {
		out = append(out, domainprescriptive.DatasetAction{
			Issue:     "ID-like Columns",
			Count:     len(idLike),
			Columns:   firstN(idLike, maxListedColumns),
			Action:    "Exclude from modeling",
			Rationale: "Identifier columns are unique per row and do not generalize",
			Priority:  domainprescriptive.PriorityMedium,
		})
	}

	if rows < datasetSmallSampleMin {
		out = append(out, domainprescriptive.DatasetAction{
			Issue:     "Small Sample Size",
			Count:     rows,
			Action:    "Collect more data or use simple models with cross-validation",
			Rationale: fmt.Sprintf("only %d samples", rows),
			Priority:  domainprescriptive.PriorityMedium,
		})
	}
	return out
}

func isIdentifierName(column string) bool {
	lower := strings.ToLower(column)
	switch lower {
	case "index", "key":
		return true
	}
	return strings.Contains(lower, "id")
}

func firstN(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
