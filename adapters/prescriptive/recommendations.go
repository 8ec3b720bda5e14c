package prescriptive

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"autoinsight/domain/datareadiness/profiling"
	domainprescriptive "autoinsight/domain/prescriptive"
	"autoinsight/internal/analysis/columns"
)

// Per-column recommendation thresholds.
const (
	highSkew            = 2.0
	moderateSkew        = 0.75
	manyOutliersPct     = 10.0
	someOutliersPct     = 5.0
	highCV              = 2.0
	lowCardinality      = 3
	nearConstantPct     = 95.0
	dominantPct         = 70.0
	rareCategoryPct     = 5.0
	manyRarePct         = 30.0
	someRarePct         = 10.0
	oneHotMaxCategories = 10
	ordinalMaxCategory  = 50
)

func kindLabel(kind profiling.ColumnType) string {
	if kind == profiling.TypeContinuous {
		return "Continuous Numeric"
	}
	return "Discrete Numeric"
}

// numericRecommendations checks skew, outliers, variability and cardinality
// for each numeric column, highest priority first.
func numericRecommendations(f facts) []domainprescriptive.ColumnRecommendation {
	out := []domainprescriptive.ColumnRecommendation{}
	for _, c := range f.columns {
		if !c.kind.IsNumeric() {
			continue
		}
		out = append(out, numericRecommendation(c))
	}
	sortByPriority(out)
	return out
}

func numericRecommendation(c columnFacts) domainprescriptive.ColumnRecommendation {
	rec := domainprescriptive.ColumnRecommendation{Column: c.name, Kind: kindLabel(c.kind)}
	if len(c.numbers) == 0 {
		rec.Issue = "All Missing"
		rec.Action = "Drop or Impute"
		rec.Rationale = "Column contains no valid data"
		rec.Priority = domainprescriptive.PriorityHigh
		return rec
	}

	var issues, actions, rationales []string
	priority := domainprescriptive.PriorityLow
	raise := func(p domainprescriptive.Priority) {
		if p.Rank() < priority.Rank() {
			priority = p
		}
	}

	switch skew := c.skewness; {
	case math.Abs(skew) > highSkew:
		issues = append(issues, "Highly Skewed")
		actions = append(actions, "Apply log or Box-Cox transformation")
		rationales = append(rationales, fmt.Sprintf("Skewness of %.2f may affect model", skew))
		raise(domainprescriptive.PriorityHigh)
	case math.Abs(skew) > moderateSkew:
		issues = append(issues, "Moderately Skewed")
		actions = append(actions, "Consider sqrt or log transformation")
		rationales = append(rationales, fmt.Sprintf("Skewness of %.2f detected", skew))
		raise(domainprescriptive.PriorityMedium)
	}

	bounds := columns.OutlierBounds(c.numbers)
	outlierPct := 0.0
	if bounds.Q3-bounds.Q1 > 0 {
		_, n := columns.DetectOutliers(c.numbers)
		outlierPct = float64(n) / float64(len(c.numbers)) * 100
	}
	switch {
	case outlierPct > manyOutliersPct:
		issues = append(issues, "Many Outliers")
		actions = append(actions, "Cap outliers or use robust scaler")
		rationales = append(rationales, fmt.Sprintf("%.1f%% outliers detected", outlierPct))
		raise(domainprescriptive.PriorityHigh)
	case outlierPct > someOutliersPct:
		issues = append(issues, "Outliers Present")
		actions = append(actions, "Consider outlier treatment")
		rationales = append(rationales, fmt.Sprintf("%.1f%% outliers detected", outlierPct))
		raise(domainprescriptive.PriorityMedium)
	}

	if mean, _ := stats.Mean(c.numbers); mean != 0 {
		if cv := columns.SampleStd(c.numbers) / mean; cv > highCV {
			issues = append(issues, "High Variability")
			rationales = append(rationales, fmt.Sprintf("Coefficient of variation: %.2f", cv))
		}
	}

	unique := distinctFloats(c.numbers)
	switch {
	case unique == 1:
		issues = []string{"Constant Value"}
		actions = []string{"Drop column"}
		rationales = []string{"No variance - provides no information"}
		priority = domainprescriptive.PriorityHigh
	case unique <= lowCardinality && c.kind == profiling.TypeContinuous:
		issues = append(issues, "Low Cardinality")
		actions = append(actions, "Consider as categorical")
		rationales = append(rationales, fmt.Sprintf("Only %d unique values", unique))
	}

	if len(issues) == 0 {
		issues = []string{"Healthy"}
		actions = []string{"Standard scaling"}
		rationales = []string{"Normal distribution characteristics"}
	}

	rec.Issue = strings.Join(issues, "; ")
	rec.Action = strings.Join(actions, "; ")
	rec.Rationale = strings.Join(rationales, "; ")
	rec.Priority = priority
	return rec
}

// categoricalRecommendations picks an encoding per categorical column from
// dominance, rare-category share and cardinality, highest priority first.
func categoricalRecommendations(f facts) []domainprescriptive.ColumnRecommendation {
	out := []domainprescriptive.ColumnRecommendation{}
	for _, c := range f.columns {
		if c.kind != profiling.TypeCategorical {
			continue
		}
		out = append(out, categoricalRecommendation(c))
	}
	sortByPriority(out)
	return out
}

func categoricalRecommendation(c columnFacts) domainprescriptive.ColumnRecommendation {
	rec := domainprescriptive.ColumnRecommendation{Column: c.name, Kind: "Categorical", Priority: domainprescriptive.PriorityLow}
	if len(c.labels) == 0 {
		rec.Issue = "All Missing"
		rec.Action = "Drop"
		rec.Rationale = "Column contains no valid data"
		rec.Priority = domainprescriptive.PriorityHigh
		return rec
	}

	freq := columns.Frequencies(c.labels)
	dominant := float64(freq[0].Count) / float64(len(c.labels)) * 100
	var rareCount int
	for _, fc := range freq {
		if float64(fc.Count)/float64(len(c.labels))*100 < rareCategoryPct {
			rareCount += fc.Count
		}
	}
	rare := float64(rareCount) / float64(len(c.labels)) * 100
	unique := len(freq)

	switch {
	case dominant > nearConstantPct:
		rec.Issue, rec.Action = "Near-constant", "Consider dropping"
		rec.Rationale = "Single category dominates - minimal information"
		rec.Priority = domainprescriptive.PriorityHigh
	case dominant > dominantPct:
		rec.Issue, rec.Action = "Highly Dominant Category", "Target or Frequency Encoding"
		rec.Rationale = fmt.Sprintf("%.1f%% samples in one category", dominant)
		rec.Priority = domainprescriptive.PriorityMedium
	case rare > manyRarePct:
		rec.Issue, rec.Action = "Many Rare Categories", "Group rare categories then encode"
		rec.Rationale = fmt.Sprintf("%.1f%% in rare categories", rare)
		rec.Priority = domainprescriptive.PriorityMedium
	case rare > someRarePct:
		rec.Issue, rec.Action = "Some Rare Categories", "Consider grouping rare categories"
		rec.Rationale = fmt.Sprintf("%.1f%% in rare categories", rare)
	case unique == 2:
		rec.Issue, rec.Action = "Binary", "Binary Encoding (0/1)"
		rec.Rationale = "Two categories - simple encoding"
	case unique <= oneHotMaxCategories:
		rec.Issue, rec.Action = "Low Cardinality", "One-Hot Encoding"
		rec.Rationale = fmt.Sprintf("%d categories - manageable expansion", unique)
	case unique <= ordinalMaxCategory:
		rec.Issue, rec.Action = "Moderate Cardinality", "Target Encoding or Ordinal Encoding"
		rec.Rationale = fmt.Sprintf("%d categories - one-hot may be too sparse", unique)
	default:
		rec.Issue, rec.Action = "High Cardinality", "Target Encoding or Hashing"
		rec.Rationale = fmt.Sprintf("%d categories - embedding or hashing recommended", unique)
		rec.Priority = domainprescriptive.PriorityMedium
	}
	return rec
}

func distinctFloats(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}
