package modeling

import (
	"fmt"
	"sort"
	"strings"

	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/internal/analysis/columns"
)

// TargetNamePatterns are matched case-insensitively against whole column names.
var TargetNamePatterns = []string{
	"target", "label", "class", "y", "outcome", "result",
	"churn", "fraud", "default", "survived", "price", "sales", "revenue",
}

const (
	minClassSamples   = 5
	moderateImbalance = 3.0
	severeImbalance   = 10.0
)

var preferredBinarySets = [][2]string{
	{"yes", "no"},
	{"true", "false"},
	{"1", "0"},
}

// TargetDetector picks the column a baseline model should predict.
type TargetDetector struct {
	patterns map[string]struct{}
}

// NewTargetDetector creates a detector over TargetNamePatterns
func NewTargetDetector() *TargetDetector {
	patterns := make(map[string]struct{}, len(TargetNamePatterns))
	for _, p := range TargetNamePatterns {
		patterns[p] = struct{}{}
	}
	return &TargetDetector{patterns: patterns}
}

// Detect applies, first match wins: a target-like name, a binary categorical
// column, then the last column when it is categorical or discrete. With no
// match the result names NoTarget and the clustering task.
func (d *TargetDetector) Detect(ds *dataset.Dataset, profiles profiling.Profiles) predictive.TargetInfo {
	column, rule := d.selectTarget(ds, profiles)
	if column == "" {
		return predictive.TargetInfo{
			Column: predictive.NoTarget,
			Task:   predictive.TaskClustering,
			Rule:   predictive.RuleNone,
		}
	}

	kind := profiles.TypeOf(column)
	info := predictive.TargetInfo{
		Column:     column,
		ColumnType: kind,
		Task:       TaskFor(kind),
		Rule:       rule,
	}
	d.validate(&info, ds.Column(column))
	return info
}

func (d *TargetDetector) selectTarget(ds *dataset.Dataset, profiles profiling.Profiles) (string, predictive.DetectionRule) {
	for _, col := range ds.Columns {
		if _, ok := d.patterns[strings.ToLower(col)]; ok {
			return col, predictive.RuleNamePattern
		}
	}

	var firstBinary string
	for _, col := range ds.Columns {
		if profiles.TypeOf(col) != profiling.TypeCategorical {
			continue
		}
		distinct := columns.Distinct(ds.Column(col))
		if len(distinct) != 2 {
			continue
		}
		if preferredBinary(distinct[0].String(), distinct[1].String()) {
			return col, predictive.RuleBinaryCategory
		}
		if firstBinary == "" {
			firstBinary = col
		}
	}
	if firstBinary != "" {
		return firstBinary, predictive.RuleBinaryCategory
	}

	if n := len(ds.Columns); n > 0 {
		last := ds.Columns[n-1]
		if kind := profiles.TypeOf(last); kind == profiling.TypeCategorical || kind == profiling.TypeDiscrete {
			return last, predictive.RuleLastColumn
		}
	}
	return "", predictive.RuleNone
}

func preferredBinary(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	for _, set := range preferredBinarySets {
		if (a == set[0] && b == set[1]) || (a == set[1] && b == set[0]) {
			return true
		}
	}
	return false
}

// TaskFor maps a target type to its learning task.
func TaskFor(kind profiling.ColumnType) predictive.TaskType {
	switch kind {
	case profiling.TypeCategorical, profiling.TypeDiscrete:
		return predictive.TaskClassification
	case profiling.TypeContinuous:
		return predictive.TaskRegression
	}
	return predictive.TaskUnknown
}

// validate fills the class distribution and warnings.
func (d *TargetDetector) validate(info *predictive.TargetInfo, values []ingestion.Value) {
	if missing := columns.MissingCount(values); missing > 0 {
		info.Warnings = append(info.Warnings, fmt.Sprintf("target has %d missing values", missing))
	}
	if info.Task != predictive.TaskClassification {
		return
	}

	info.ClassDistribution = ClassDistribution(columns.StringValues(values))
	if len(info.ClassDistribution) == 0 {
		return
	}

	var rare []string
	for _, c := range info.ClassDistribution {
		if c.Count < minClassSamples {
			rare = append(rare, c.Class)
		}
	}
	if len(rare) > 0 {
		sort.Strings(rare)
		info.Warnings = append(info.Warnings, fmt.Sprintf("classes with fewer than %d samples: %s", minClassSamples, strings.Join(rare, ", ")))
	}

	most := info.ClassDistribution[0].Count
	least := info.ClassDistribution[len(info.ClassDistribution)-1].Count
	info.ImbalanceRatio = columns.Round(float64(most)/float64(least), 2)
	switch {
	case info.ImbalanceRatio > severeImbalance:
		info.Warnings = append(info.Warnings, fmt.Sprintf("severe class imbalance (ratio %.1f)", info.ImbalanceRatio))
	case info.ImbalanceRatio > moderateImbalance:
		info.Warnings = append(info.Warnings, fmt.Sprintf("moderate class imbalance (ratio %.1f)", info.ImbalanceRatio))
	}
}

// ClassDistribution counts labels, most frequent first with ties in
// encounter order.
func ClassDistribution(labels []string) []predictive.ClassShare {
	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	out := make([]predictive.ClassShare, len(order))
	for i, l := range order {
		out[i] = predictive.ClassShare{
			Class:      l,
			Count:      counts[l],
			Percentage: columns.Round(float64(counts[l])/float64(len(labels))*100, 2),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
