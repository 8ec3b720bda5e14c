package prescriptive

import (
	"math"

	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	domainprescriptive "autoinsight/domain/prescriptive"
	domainstats "autoinsight/domain/stats"
	"autoinsight/internal/analysis/columns"
)

// columnFacts are the per-column measurements the rules read.
type columnFacts struct {
	name     string
	kind     profiling.ColumnType
	missing  float64
	numbers  []float64
	labels   []string
	skewness float64
}

// facts is the precomputed rule input. The raw fields describe the input as
// it was before cleaning.
type facts struct {
	rows        int
	columns     []columnFacts
	continuous  []string
	categorical []string
	datetime    []string
	pred        *predictive.PredictiveResult
	diag        *domainstats.DiagnosticResult

	rawRows    int
	rawQuality []cleaning.ColumnQuality
	duplicates int
}

func newFacts(ds *dataset.Dataset, profiles profiling.Profiles, in domainprescriptive.Inputs) facts {
	f := facts{rows: ds.NumRows(), pred: in.Predictive, diag: in.Diagnostic}
	f.rawRows, f.rawQuality, f.duplicates = rawView(ds, in.Cleaning)

	for _, cp := range profiles {
		if _, ok := ds.Index(cp.Column); !ok {
			continue
		}
		values := ds.Column(cp.Column)
		cf := columnFacts{name: cp.Column, kind: cp.DetectedType, missing: cp.MissingPct}
		if in.Cleaning != nil {
			if q, ok := in.Cleaning.Quality(cp.Column); ok {
				cf.missing = q.NullPct
			}
		}
		switch {
		case cp.DetectedType.IsNumeric():
			cf.numbers = columns.NumericOf(values)
			cf.skewness = columns.Skewness(cf.numbers)
			if cp.DetectedType == profiling.TypeContinuous {
				f.continuous = append(f.continuous, cp.Column)
			}
		case cp.DetectedType == profiling.TypeCategorical:
			cf.labels = columns.StringValues(values)
			f.categorical = append(f.categorical, cp.Column)
		case cp.DetectedType == profiling.TypeDatetime:
			f.datetime = append(f.datetime, cp.Column)
		}
		f.columns = append(f.columns, cf)
	}
	return f
}

// rawView reads the pre-cleaning shape from the cleaning result. Without one
// the dataset itself is measured.
func rawView(ds *dataset.Dataset, cleaned *cleaning.CleaningResult) (int, []cleaning.ColumnQuality, int) {
	if cleaned != nil {
		return cleaned.Before.Rows, cleaned.QualityMetrics, cleaned.DuplicatesRemoved()
	}
	quality := make([]cleaning.ColumnQuality, 0, ds.NumCols())
	for _, col := range ds.Columns {
		values := ds.Column(col)
		quality = append(quality, cleaning.ColumnQuality{
			Column:       col,
			NullCount:    columns.MissingCount(values),
			NullPct:      columns.Round(columns.MissingPct(values), 2),
			UniqueValues: columns.UniqueCount(values),
		})
	}
	seen := make(map[string]struct{}, ds.NumRows())
	duplicates := 0
	for _, row := range ds.Rows {
		key := row.Key()
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return ds.NumRows(), quality, duplicates
}

func (f facts) skewed(threshold float64) []string {
	var out []string
	for _, c := range f.columns {
		if c.kind == profiling.TypeContinuous && math.Abs(c.skewness) > threshold {
			out = append(out, c.name)
		}
	}
	return out
}

func (f facts) imbalance() float64 {
	if f.pred == nil || f.pred.TargetType != predictive.TaskClassification {
		return 0
	}
	return f.pred.Target.ImbalanceRatio
}

func (f facts) highVIF() []string {
	if f.diag == nil {
		return nil
	}
	var out []string
	for _, w := range f.diag.Multicollinearity {
		if w.Status == domainstats.VIFHigh {
			out = append(out, w.Feature)
		}
	}
	return out
}

func distinctCount(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
