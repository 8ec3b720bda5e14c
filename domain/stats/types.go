package stats

import "autoinsight/domain/datareadiness/profiling"

// NumericStats summarizes a continuous or discrete column.
type NumericStats struct {
	Column   string  `json:"column" yaml:"column"`
	Count    int     `json:"count" yaml:"count"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Median   float64 `json:"median" yaml:"median"`
	Std      float64 `json:"std" yaml:"std"`
	Skewness float64 `json:"skewness" yaml:"skewness"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"`
	CV       float64 `json:"cv" yaml:"cv"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Q25      float64 `json:"q25" yaml:"q25"`
	Q75      float64 `json:"q75" yaml:"q75"`
}

// CategoryCount is one row of a frequency table.
type CategoryCount struct {
	Value      string  `json:"value" yaml:"value"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// CategoricalStats summarizes a categorical column.
type CategoricalStats struct {
	Column           string          `json:"column" yaml:"column"`
	Count            int             `json:"count" yaml:"count"`
	UniqueCount      int             `json:"unique_count" yaml:"unique_count"`
	Entropy          float64         `json:"entropy" yaml:"entropy"`
	TopCategories    []CategoryCount `json:"top_categories" yaml:"top_categories"`
	DominantCategory string          `json:"dominant_category" yaml:"dominant_category"`
	DominantPct      float64         `json:"dominant_pct" yaml:"dominant_pct"`
}

// HistogramBin is a half-open [Lower, Upper) interval; the last bin is closed.
type HistogramBin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Distribution shape labels.
const (
	ShapeSymmetric    = "Approximately Symmetric"
	ShapeRightSkewed  = "Right-Skewed (Positive)"
	ShapeLeftSkewed   = "Left-Skewed (Negative)"
	ShapeInsufficient = "Insufficient Data"
)

// DistributionInsight carries shape and outlier detail for a numeric column.
type DistributionInsight struct {
	Column       string               `json:"column" yaml:"column"`
	Type         profiling.ColumnType `json:"type" yaml:"type"`
	Shape        string               `json:"shape" yaml:"shape"`
	Skewness     float64              `json:"skewness" yaml:"skewness"`
	LowerBound   float64              `json:"lower_bound" yaml:"lower_bound"`
	UpperBound   float64              `json:"upper_bound" yaml:"upper_bound"`
	OutlierCount int                  `json:"outlier_count" yaml:"outlier_count"`
	OutlierPct   float64              `json:"outlier_pct" yaml:"outlier_pct"`
	Histogram    []HistogramBin       `json:"histogram,omitempty" yaml:"histogram,omitempty"`
	ValueCounts  []CategoryCount      `json:"value_counts,omitempty" yaml:"value_counts,omitempty"`
}

// DatasetSummary is the dataset-level overview with a quality score.
type DatasetSummary struct {
	Rows               int      `json:"rows" yaml:"rows"`
	Columns            int      `json:"columns" yaml:"columns"`
	ContinuousColumns  int      `json:"continuous_columns" yaml:"continuous_columns"`
	DiscreteColumns    int      `json:"discrete_columns" yaml:"discrete_columns"`
	CategoricalColumns int      `json:"categorical_columns" yaml:"categorical_columns"`
	DatetimeColumns    int      `json:"datetime_columns" yaml:"datetime_columns"`
	UnknownColumns     int      `json:"unknown_columns" yaml:"unknown_columns"`
	MissingCells       int      `json:"missing_cells" yaml:"missing_cells"`
	MissingPct         float64  `json:"missing_pct" yaml:"missing_pct"`
	DuplicateRows      int      `json:"duplicate_rows" yaml:"duplicate_rows"`
	QualityScore       float64  `json:"quality_score" yaml:"quality_score"`
	QualityRating      string   `json:"quality_rating" yaml:"quality_rating"`
	Issues             []string `json:"issues" yaml:"issues"`
}

// DescriptiveResult is the output of the descriptive stage.
type DescriptiveResult struct {
	Numeric       []NumericStats        `json:"numeric" yaml:"numeric"`
	Categorical   []CategoricalStats    `json:"categorical" yaml:"categorical"`
	Distributions []DistributionInsight `json:"distributions" yaml:"distributions"`
	Summary       DatasetSummary        `json:"summary" yaml:"summary"`
}

// CorrelationPair is one unordered numeric pair with |pearson| above threshold.
type CorrelationPair struct {
	Pair           string  `json:"pair" yaml:"pair"`
	FeatureA       string  `json:"feature_a" yaml:"feature_a"`
	FeatureB       string  `json:"feature_b" yaml:"feature_b"`
	Pearson        float64 `json:"pearson" yaml:"pearson"`
	Spearman       float64 `json:"spearman" yaml:"spearman"`
	Kendall        float64 `json:"kendall" yaml:"kendall"`
	Interpretation string  `json:"interpretation" yaml:"interpretation"`
}

// VIFStatus buckets a VIF score.
type VIFStatus string

const (
	VIFAcceptable VIFStatus = "acceptable"
	VIFModerate   VIFStatus = "moderate"
	VIFHigh       VIFStatus = "high"
)

// MulticollinearityWarning is emitted for every numeric column.
type MulticollinearityWarning struct {
	Feature string    `json:"feature" yaml:"feature"`
	VIF     float64   `json:"vif" yaml:"vif"`
	Status  VIFStatus `json:"status" yaml:"status"`
}

// CorrelationMatrix is a symmetric Pearson matrix over Features.
type CorrelationMatrix struct {
	Features []string    `json:"features" yaml:"features"`
	Values   [][]float64 `json:"values" yaml:"values"`
}

// At returns the coefficient between two named features.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, f := range m.Features {
		if f == a {
			i = k
		}
		if f == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// DiagnosticSummary rolls up the diagnostic findings.
type DiagnosticSummary struct {
	AnalyzedFeatures int     `json:"analyzed_features" yaml:"analyzed_features"`
	StrongPairs      int     `json:"strong_pairs" yaml:"strong_pairs"`
	ModeratePairs    int     `json:"moderate_pairs" yaml:"moderate_pairs"`
	WeakPairs        int     `json:"weak_pairs" yaml:"weak_pairs"`
	HighVIF          int     `json:"high_vif" yaml:"high_vif"`
	ModerateVIF      int     `json:"moderate_vif" yaml:"moderate_vif"`
	HealthScore      float64 `json:"health_score" yaml:"health_score"`
}

// DiagnosticResult is the output of the diagnostic stage.
type DiagnosticResult struct {
	Correlations      []CorrelationPair          `json:"correlations" yaml:"correlations"`
	Multicollinearity []MulticollinearityWarning `json:"multicollinearity" yaml:"multicollinearity"`
	PearsonMatrix     CorrelationMatrix          `json:"pearson_matrix" yaml:"pearson_matrix"`
	Summary           DiagnosticSummary          `json:"summary" yaml:"summary"`
}
