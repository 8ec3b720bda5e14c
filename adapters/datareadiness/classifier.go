package datareadiness

import (
	"context"
	"fmt"
	"math"

	"autoinsight/adapters/datareadiness/coercer"
	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/internal/analysis/columns"
	apperrors "autoinsight/internal/errors"
)

// Classification thresholds.
const (
	maxDiscreteUnique    = 20
	maxDiscreteRatio     = 0.5
	maxCategoricalRatio  = 0.5
	maxCategoricalUnique = 50
)

// ColumnClassifier implements ClassifierPort
type ColumnClassifier struct {
	coercer *coercer.TypeCoercer
}

// NewColumnClassifier creates a classifier using the default coercion rules
func NewColumnClassifier() *ColumnClassifier {
	return &ColumnClassifier{coercer: coercer.Default}
}

// ClassifyColumns profiles every column in schema order.
func (c *ColumnClassifier) ClassifyColumns(ctx context.Context, ds *dataset.Dataset) (profiling.Profiles, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("classification requires a dataset")
	}
	profiles := make(profiling.Profiles, 0, ds.NumCols())
	for _, col := range ds.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		profiles = append(profiles, c.ClassifyColumn(col, ds.Column(col)))
	}
	return profiles, nil
}

// ClassifyColumn applies the rules in priority order: datetime text, then
// numeric (binary, low-cardinality integer, continuous), then text cardinality.
func (c *ColumnClassifier) ClassifyColumn(column string, values []ingestion.Value) profiling.ColumnProfile {
	profile := profiling.ColumnProfile{
		Column:       column,
		UniqueValues: columns.UniqueCount(values),
		MissingPct:   columns.Round(columns.MissingPct(values), 2),
	}

	present := columns.NonMissing(values)
	if len(present) == 0 {
		profile.DetectedType = profiling.TypeUnknown
		profile.Reasoning = "no non-missing values"
		return profile
	}
	uniqueRatio := float64(profile.UniqueValues) / float64(len(present))

	if stringShare(present) > 0.5 {
		if share := columns.DateShare(c.coercer, values); share >= c.coercer.Config().DatetimeThreshold {
			profile.DetectedType = profiling.TypeDatetime
			profile.Reasoning = fmt.Sprintf("%.0f%% of sampled values parse as dates (threshold %.0f%%)",
				share*100, c.coercer.Config().DatetimeThreshold*100)
			return profile
		}
	}

	if share := columns.NumericShareOf(values); share >= columns.NumericShare {
		c.classifyNumeric(&profile, values, uniqueRatio, share)
		return profile
	}

	switch {
	case uniqueRatio < maxCategoricalRatio:
		profile.DetectedType = profiling.TypeCategorical
		profile.Reasoning = fmt.Sprintf("text with unique ratio %.2f below %.1f (%d unique values)",
			uniqueRatio, maxCategoricalRatio, profile.UniqueValues)
	case profile.UniqueValues <= maxCategoricalUnique:
		profile.DetectedType = profiling.TypeCategorical
		profile.Reasoning = fmt.Sprintf("text with %d unique values, at most %d",
			profile.UniqueValues, maxCategoricalUnique)
	default:
		profile.DetectedType = profiling.TypeUnknown
		profile.Reasoning = fmt.Sprintf("high-cardinality text: %d unique values, unique ratio %.2f",
			profile.UniqueValues, uniqueRatio)
	}
	return profile
}

func (c *ColumnClassifier) classifyNumeric(profile *profiling.ColumnProfile, values []ingestion.Value, uniqueRatio, share float64) {
	nums := columns.NumericOf(values)
	distinct := make(map[float64]struct{})
	integers := true
	for _, x := range nums {
		distinct[x] = struct{}{}
		if x != math.Trunc(x) {
			integers = false
		}
	}

	if len(distinct) == 2 {
		_, zero := distinct[0]
		_, one := distinct[1]
		if zero && one {
			profile.DetectedType = profiling.TypeDiscrete
			profile.Reasoning = "binary indicator: exactly 2 unique values {0, 1}"
			return
		}
	}

	if integers && len(distinct) <= maxDiscreteUnique && uniqueRatio < maxDiscreteRatio {
		profile.DetectedType = profiling.TypeDiscrete
		profile.Reasoning = fmt.Sprintf("integer values with %d unique values (at most %d) and unique ratio %.2f below %.1f",
			len(distinct), maxDiscreteUnique, uniqueRatio, maxDiscreteRatio)
		return
	}

	profile.DetectedType = profiling.TypeContinuous
	profile.Reasoning = fmt.Sprintf("%.0f%% numeric with %d unique values (unique ratio %.2f)",
		share*100, len(distinct), uniqueRatio)
	if columns.IsIDLikeValues(profile.Column, values) {
		profile.Reasoning += "; likely identifier"
	}
}

func stringShare(present []ingestion.Value) float64 {
	if len(present) == 0 {
		return 0
	}
	n := 0
	for _, v := range present {
		if v.IsString() {
			n++
		}
	}
	return float64(n) / float64(len(present))
}
