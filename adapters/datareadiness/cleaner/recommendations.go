package cleaner

import (
	"fmt"
	"sort"

	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/dataset"
	"autoinsight/internal/analysis/columns"
)

// Recommendation thresholds, in percent.
const (
	duplicateHighPct = 10.0
	dropColumnPct    = 50.0
	imputePct        = 10.0
	outlierPct       = 5.0
	minOutlierValues = 10
)

// Recommend lists treatments for the raw dataset. duplicates is the number of
// rows deduplication removes. High priority sorts before medium; otherwise
// the rule order is kept.
func Recommend(raw *dataset.Dataset, duplicates int) []cleaning.Recommendation {
	out := []cleaning.Recommendation{}
	rows := raw.NumRows()
	if rows == 0 {
		return append(out, cleaning.Recommendation{
			Priority: cleaning.PriorityHigh,
			Action:   "Dataset is empty",
			Reason:   "No data to process",
		})
	}

	if duplicates > 0 {
		pct := float64(duplicates) / float64(rows) * 100
		priority := cleaning.PriorityMedium
		if pct > duplicateHighPct {
			priority = cleaning.PriorityHigh
		}
		out = append(out, cleaning.Recommendation{
			Priority: priority,
			Action:   "Remove duplicate rows",
			Reason:   fmt.Sprintf("%d duplicates found (%.1f%%)", duplicates, pct),
			Impact:   fmt.Sprintf("Will remove %d rows", duplicates),
		})
	}

	for _, col := range raw.Columns {
		pct := columns.MissingPct(raw.Column(col))
		switch {
		case pct > dropColumnPct:
			out = append(out, cleaning.Recommendation{
				Priority: cleaning.PriorityHigh,
				Action:   fmt.Sprintf("Consider dropping column '%s'", col),
				Column:   col,
				Reason:   fmt.Sprintf("%.1f%% missing values", pct),
				Impact:   "Column may not be useful for modeling",
			})
		case pct > imputePct:
			out = append(out, cleaning.Recommendation{
				Priority: cleaning.PriorityMedium,
				Action:   fmt.Sprintf("Impute missing values in '%s'", col),
				Column:   col,
				Reason:   fmt.Sprintf("%.1f%% missing values", pct),
				Impact:   "Use median (numeric) or mode (categorical)",
			})
		}
	}

	for _, col := range raw.Columns {
		values := raw.Column(col)
		if !columns.IsNumericValues(values) {
			continue
		}
		nums := columns.NumericOf(values)
		if len(nums) < minOutlierValues {
			continue
		}
		bounds, count := columns.DetectOutliers(nums)
		if bounds.Q3 == bounds.Q1 {
			continue
		}
		pct := float64(count) / float64(len(nums)) * 100
		if pct > outlierPct {
			out = append(out, cleaning.Recommendation{
				Priority: cleaning.PriorityMedium,
				Action:   fmt.Sprintf("Handle outliers in '%s'", col),
				Column:   col,
				Reason:   fmt.Sprintf("%d outliers (%.1f%%)", count, pct),
				Impact:   "Consider capping, removing, or transforming",
			})
		}
	}

	for _, col := range raw.Columns {
		if columns.UniqueCount(raw.Column(col)) == 1 {
			out = append(out, cleaning.Recommendation{
				Priority: cleaning.PriorityHigh,
				Action:   fmt.Sprintf("Drop constant column '%s'", col),
				Column:   col,
				Reason:   "Only one unique value",
				Impact:   "Provides no predictive information",
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority == cleaning.PriorityHigh && out[j].Priority != cleaning.PriorityHigh
	})
	return out
}
