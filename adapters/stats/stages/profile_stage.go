package stages

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	domainstats "autoinsight/domain/stats"
	"autoinsight/internal/analysis/columns"
	apperrors "autoinsight/internal/errors"
)

const (
	topCategories   = 10
	histogramBins   = 20
	maxValueCounts  = 30
	symmetricWithin = 0.5
)

// ProfileStage computes descriptive statistics for every profiled column.
// It implements DescriptivePort.
type ProfileStage struct{}

// NewProfileStage creates a new profile stage
func NewProfileStage() *ProfileStage {
	return &ProfileStage{}
}

// ComputeDescriptive summarizes numeric and categorical columns, numeric
// distributions, and the dataset as a whole.
func (p *ProfileStage) ComputeDescriptive(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*domainstats.DescriptiveResult, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("descriptive statistics require a dataset")
	}

	result := &domainstats.DescriptiveResult{
		Numeric:       []domainstats.NumericStats{},
		Categorical:   []domainstats.CategoricalStats{},
		Distributions: []domainstats.DistributionInsight{},
	}

	for _, cp := range profiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := ds.Index(cp.Column); !ok {
			continue
		}
		values := ds.Column(cp.Column)
		switch {
		case cp.DetectedType.IsNumeric():
			xs := columns.NumericOf(values)
			result.Numeric = append(result.Numeric, NumericSummary(cp.Column, xs))
			result.Distributions = append(result.Distributions, Distribution(cp.Column, cp.DetectedType, xs))
		case cp.DetectedType == profiling.TypeCategorical:
			result.Categorical = append(result.Categorical, CategoricalSummary(cp.Column, columns.StringValues(values)))
		}
	}

	result.Summary = Summarize(ds, profiles)
	return result, nil
}

// NumericSummary computes the numeric record for one column. An empty input
// yields a zeroed record.
func NumericSummary(column string, xs []float64) domainstats.NumericStats {
	out := domainstats.NumericStats{Column: column, Count: len(xs)}
	if len(xs) == 0 {
		return out
	}

	mean, _ := stats.Mean(xs)
	median, _ := stats.Median(xs)
	minV, _ := stats.Min(xs)
	maxV, _ := stats.Max(xs)
	std := columns.SampleStd(xs)

	cv := 0.0
	if mean != 0 {
		cv = std / math.Abs(mean)
	}

	out.Mean = columns.Round(mean, 2)
	out.Median = columns.Round(median, 2)
	out.Std = columns.Round(std, 2)
	out.Skewness = columns.Round(columns.Skewness(xs), 2)
	out.Kurtosis = columns.Round(columns.Kurtosis(xs), 2)
	out.CV = columns.Round(cv, 2)
	out.Min = columns.Round(minV, 2)
	out.Max = columns.Round(maxV, 2)
	out.Q25 = columns.Round(columns.Quantile(xs, 0.25), 2)
	out.Q75 = columns.Round(columns.Quantile(xs, 0.75), 2)
	return out
}

// CategoricalSummary computes the frequency record for one column.
func CategoricalSummary(column string, values []string) domainstats.CategoricalStats {
	out := domainstats.CategoricalStats{
		Column:        column,
		Count:         len(values),
		TopCategories: []domainstats.CategoryCount{},
	}
	if len(values) == 0 {
		return out
	}

	freq := columns.Frequencies(values)
	out.UniqueCount = len(freq)
	out.Entropy = columns.Round(columns.Entropy(values), 4)
	if len(freq) > topCategories {
		freq = freq[:topCategories]
	}
	out.TopCategories = freq
	out.DominantCategory = freq[0].Value
	out.DominantPct = freq[0].Percentage
	return out
}

// Distribution describes shape and outliers of a numeric column.
func Distribution(column string, kind profiling.ColumnType, xs []float64) domainstats.DistributionInsight {
	out := domainstats.DistributionInsight{Column: column, Type: kind, Shape: domainstats.ShapeInsufficient}
	if len(xs) == 0 {
		return out
	}

	skew := columns.Skewness(xs)
	out.Skewness = columns.Round(skew, 4)
	if len(xs) >= 3 {
		out.Shape = shapeOf(skew)
	}

	bounds, n := columns.DetectOutliers(xs)
	if math.IsInf(bounds.Lower, 0) || math.IsInf(bounds.Upper, 0) {
		// too few values for fences; report the observed range
		minV, _ := stats.Min(xs)
		maxV, _ := stats.Max(xs)
		bounds.Lower, bounds.Upper = minV, maxV
	}
	out.LowerBound = columns.Round(bounds.Lower, 4)
	out.UpperBound = columns.Round(bounds.Upper, 4)
	out.OutlierCount = n
	out.OutlierPct = columns.Round(float64(n)/float64(len(xs))*100, 2)

	if kind == profiling.TypeContinuous {
		out.Histogram = Histogram(xs, histogramBins)
	} else {
		out.ValueCounts = valueCounts(xs)
	}
	return out
}

func shapeOf(skew float64) string {
	switch {
	case math.Abs(skew) < symmetricWithin:
		return domainstats.ShapeSymmetric
	case skew > 0:
		return domainstats.ShapeRightSkewed
	}
	return domainstats.ShapeLeftSkewed
}

// Histogram splits [min, max] into equal-width bins. A zero-width range is
// widened by 0.5 on each side.
func Histogram(xs []float64, bins int) []domainstats.HistogramBin {
	if len(xs) == 0 || bins <= 0 {
		return nil
	}
	lo, _ := stats.Min(xs)
	hi, _ := stats.Max(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]domainstats.HistogramBin, bins)
	for i := range out {
		out[i].Lower = columns.Round(lo+float64(i)*width, 4)
		out[i].Upper = columns.Round(lo+float64(i+1)*width, 4)
	}
	for _, x := range xs {
		idx := int((x - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}

// valueCounts lists discrete values in ascending order, capped for display.
func valueCounts(xs []float64) []domainstats.CategoryCount {
	counts := make(map[float64]int)
	for _, x := range xs {
		counts[x]++
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	if len(keys) > maxValueCounts {
		keys = keys[:maxValueCounts]
	}
	out := make([]domainstats.CategoryCount, len(keys))
	for i, k := range keys {
		out[i] = domainstats.CategoryCount{
			Value:      fmt.Sprint(k),
			Count:      counts[k],
			Percentage: columns.Round(float64(counts[k])/float64(len(xs))*100, 2),
		}
	}
	return out
}

// Summarize builds the dataset overview and its quality score.
func Summarize(ds *dataset.Dataset, profiles profiling.Profiles) domainstats.DatasetSummary {
	byType := profiles.CountByType()
	summary := domainstats.DatasetSummary{
		Rows:               ds.NumRows(),
		Columns:            ds.NumCols(),
		ContinuousColumns:  byType[profiling.TypeContinuous],
		DiscreteColumns:    byType[profiling.TypeDiscrete],
		CategoricalColumns: byType[profiling.TypeCategorical],
		DatetimeColumns:    byType[profiling.TypeDatetime],
		UnknownColumns:     byType[profiling.TypeUnknown],
		Issues:             []string{},
	}

	constant := 0
	for _, col := range ds.Columns {
		values := ds.Column(col)
		summary.MissingCells += columns.MissingCount(values)
		if columns.IsConstantValues(values) {
			constant++
		}
	}
	if cells := ds.NumRows() * ds.NumCols(); cells > 0 {
		summary.MissingPct = columns.Round(float64(summary.MissingCells)/float64(cells)*100, 2)
	}

	seen := make(map[string]struct{}, ds.NumRows())
	for _, row := range ds.Rows {
		key := row.Key()
		if _, dup := seen[key]; dup {
			summary.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}

	summary.QualityScore, summary.Issues = qualityScore(summary, constant)
	summary.QualityRating = QualityRating(summary.QualityScore)
	return summary
}

func qualityScore(s domainstats.DatasetSummary, constant int) (float64, []string) {
	score := 100.0
	issues := []string{}

	switch {
	case s.MissingPct > 30:
		score -= 30
		issues = append(issues, "High missing value percentage")
	case s.MissingPct > 10:
		score -= 15
		issues = append(issues, "Moderate missing values")
	case s.MissingPct > 0:
		score -= 5
	}

	dupPct := 0.0
	if s.Rows > 0 {
		dupPct = float64(s.DuplicateRows) / float64(s.Rows) * 100
	}
	switch {
	case dupPct > 20:
		score -= 20
		issues = append(issues, "High duplicate row percentage")
	case dupPct > 5:
		score -= 10
		issues = append(issues, "Some duplicate rows present")
	case dupPct > 0:
		score -= 2
	}

	if constant > 0 {
		score -= float64(constant) * 2
		issues = append(issues, fmt.Sprintf("%d constant column(s)", constant))
	}

	return columns.Round(math.Max(0, math.Min(100, score)), 1), issues
}

// QualityRating buckets a 0-100 quality score.
func QualityRating(score float64) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 40:
		return "Poor"
	}
	return "Critical"
}
