package cleaning

import "autoinsight/domain/dataset"

// Action names in the order the cleaner emits them.
const (
	ActionRemoveDuplicates = "remove_duplicates"
	ActionDropIDColumn     = "drop_id_column"
	ActionDropConstant     = "drop_constant_column"
	ActionImputeMedian     = "impute_median"
	ActionImputeMode       = "impute_mode"
	ActionClipOutliers     = "clip_outliers"
)

// CleaningAction is one audit entry of the cleaning log.
type CleaningAction struct {
	Action       string `json:"action" yaml:"action"`
	Column       string `json:"column,omitempty" yaml:"column,omitempty"`
	Reason       string `json:"reason" yaml:"reason"`
	RowsAffected int    `json:"rows_affected,omitempty" yaml:"rows_affected,omitempty"`
}

// Shape is a rows x columns count.
type Shape struct {
	Rows    int `json:"rows" yaml:"rows"`
	Columns int `json:"columns" yaml:"columns"`
}

// ColumnQuality describes one raw input column before any cleaning.
type ColumnQuality struct {
	Column       string  `json:"column" yaml:"column"`
	ValueKind    string  `json:"value_kind" yaml:"value_kind"`
	NullCount    int     `json:"null_count" yaml:"null_count"`
	NullPct      float64 `json:"null_pct" yaml:"null_pct"`
	OutlierCount int     `json:"outlier_count" yaml:"outlier_count"`
	OutlierPct   float64 `json:"outlier_pct" yaml:"outlier_pct"`
	UniqueValues int     `json:"unique_values" yaml:"unique_values"`
}

// Recommendation priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

// Recommendation is a suggested treatment for the raw input, measured before
// any cleaning stage ran.
type Recommendation struct {
	Priority string `json:"priority" yaml:"priority"`
	Action   string `json:"action" yaml:"action"`
	Column   string `json:"column,omitempty" yaml:"column,omitempty"`
	Reason   string `json:"reason" yaml:"reason"`
	Impact   string `json:"impact" yaml:"impact"`
}

// CleaningResult is the output of one cleaning pass. Recommendations are
// sorted High before Medium.
type CleaningResult struct {
	CleanedData     *dataset.Dataset `json:"cleaned_data" yaml:"cleaned_data"`
	CleaningLog     []CleaningAction `json:"cleaning_log" yaml:"cleaning_log"`
	Before          Shape            `json:"before" yaml:"before"`
	After           Shape            `json:"after" yaml:"after"`
	MissingSummary  map[string]int   `json:"missing_summary" yaml:"missing_summary"`
	OutlierSummary  map[string]int   `json:"outlier_summary" yaml:"outlier_summary"`
	QualityMetrics  []ColumnQuality  `json:"quality_metrics" yaml:"quality_metrics"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
}

// DuplicatesRemoved is the row count of the deduplication action, or 0.
func (r *CleaningResult) DuplicatesRemoved() int {
	for _, a := range r.CleaningLog {
		if a.Action == ActionRemoveDuplicates {
			return a.RowsAffected
		}
	}
	return 0
}

// Quality returns the raw-input metrics of one column.
func (r *CleaningResult) Quality(column string) (ColumnQuality, bool) {
	for _, q := range r.QualityMetrics {
		if q.Column == column {
			return q, true
		}
	}
	return ColumnQuality{}, false
}

// RowsRemoved is Before.Rows - After.Rows.
func (r *CleaningResult) RowsRemoved() int { return r.Before.Rows - r.After.Rows }

// ColumnsRemoved is Before.Columns - After.Columns.
func (r *CleaningResult) ColumnsRemoved() int { return r.Before.Columns - r.After.Columns }
