package cleaner

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"autoinsight/adapters/datareadiness/coercer"
	"autoinsight/domain/core"
	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/dataset"
	"autoinsight/internal/analysis/columns"
	apperrors "autoinsight/internal/errors"
)

// Cleaner implements CleanerPort. Stages run in a fixed order and each one
// works on the output of the previous:
// dedup -> id columns -> constant columns -> imputation -> outlier clipping.
type Cleaner struct {
	coercer *coercer.TypeCoercer
}

// NewCleaner creates a cleaner using the default coercion rules
func NewCleaner() *Cleaner {
	return &Cleaner{coercer: coercer.Default}
}

// Clean runs every cleaning stage. An empty dataset is a fatal precondition.
func (c *Cleaner) Clean(ctx context.Context, ds *dataset.Dataset) (*cleaning.CleaningResult, error) {
	if ds == nil || ds.NumRows() == 0 {
		return nil, apperrors.InvalidInputCause("cannot clean dataset", core.NewEmptyDatasetError("cleaning"))
	}

	result := &cleaning.CleaningResult{
		Before:         cleaning.Shape{Rows: ds.NumRows(), Columns: ds.NumCols()},
		MissingSummary: make(map[string]int),
		OutlierSummary: make(map[string]int),
		QualityMetrics: c.qualityMetrics(ds),
	}

	work := c.deduplicate(ds.Clone(), result)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	work = c.dropIDColumns(work, result)
	work = c.dropConstantColumns(work, result)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.impute(work, result)
	c.clip(work, result)

	result.CleanedData = work
	result.After = cleaning.Shape{Rows: work.NumRows(), Columns: work.NumCols()}
	result.Recommendations = Recommend(ds, result.DuplicatesRemoved())
	return result, nil
}

// deduplicate keeps the first occurrence of each structurally equal row.
func (c *Cleaner) deduplicate(ds *dataset.Dataset, result *cleaning.CleaningResult) *dataset.Dataset {
	seen := make(map[string]struct{}, ds.NumRows())
	kept := make([]dataset.Row, 0, ds.NumRows())
	for _, row := range ds.Rows {
		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	removed := ds.NumRows() - len(kept)
	if removed > 0 {
		result.CleaningLog = append(result.CleaningLog, cleaning.CleaningAction{
			Action:       cleaning.ActionRemoveDuplicates,
			Reason:       fmt.Sprintf("removed %d duplicate rows", removed),
			RowsAffected: removed,
		})
	}
	return &dataset.Dataset{Columns: ds.Columns, Rows: kept}
}

func (c *Cleaner) dropIDColumns(ds *dataset.Dataset, result *cleaning.CleaningResult) *dataset.Dataset {
	var drop []string
	for _, col := range ds.Columns {
		if columns.IsIDLike(ds, col) {
			drop = append(drop, col)
			result.CleaningLog = append(result.CleaningLog, cleaning.CleaningAction{
				Action: cleaning.ActionDropIDColumn,
				Column: col,
				Reason: "ID-like column (high cardinality, no predictive value)",
			})
		}
	}
	if len(drop) == 0 {
		return ds
	}
	return ds.WithoutColumns(drop...)
}

func (c *Cleaner) dropConstantColumns(ds *dataset.Dataset, result *cleaning.CleaningResult) *dataset.Dataset {
	var drop []string
	for _, col := range ds.Columns {
		if columns.IsConstant(ds, col) {
			drop = append(drop, col)
			result.CleaningLog = append(result.CleaningLog, cleaning.CleaningAction{
				Action: cleaning.ActionDropConstant,
				Column: col,
				Reason: "constant column (single unique value, no variance)",
			})
		}
	}
	if len(drop) == 0 {
		return ds
	}
	return ds.WithoutColumns(drop...)
}

// impute fills missing cells in place: median for numeric columns, mode otherwise.
func (c *Cleaner) impute(ds *dataset.Dataset, result *cleaning.CleaningResult) {
	for idx, col := range ds.Columns {
		values := ds.Column(col)
		missing := columns.MissingCount(values)
		if missing == 0 {
			continue
		}

		var fill ingestion.Value
		var action cleaning.CleaningAction
		if columns.IsNumericValues(values) {
			median, err := stats.Median(columns.NumericOf(values))
			if err != nil {
				continue
			}
			fill = ingestion.NewNumericValue(median)
			action = cleaning.CleaningAction{
				Action: cleaning.ActionImputeMedian,
				Column: col,
				Reason: fmt.Sprintf("filled %d missing values with median %s", missing, fill.String()),
			}
		} else {
			mode, ok := Mode(values)
			if !ok {
				continue
			}
			fill = mode
			action = cleaning.CleaningAction{
				Action: cleaning.ActionImputeMode,
				Column: col,
				Reason: fmt.Sprintf("filled %d missing values with mode %q", missing, mode.String()),
			}
		}

		for _, row := range ds.Rows {
			if coercer.IsMissing(row[idx]) {
				row[idx] = fill
			}
		}
		action.RowsAffected = missing
		result.MissingSummary[col] = missing
		result.CleaningLog = append(result.CleaningLog, action)
	}
}

// clip clamps numeric cells of numeric columns to their IQR fences in place.
// Cells that do not coerce are left alone.
func (c *Cleaner) clip(ds *dataset.Dataset, result *cleaning.CleaningResult) {
	for idx, col := range ds.Columns {
		values := ds.Column(col)
		if !columns.IsNumericValues(values) {
			continue
		}

		positions := make([]int, 0, len(values))
		nums := make([]float64, 0, len(values))
		for i, v := range values {
			if coercer.IsMissing(v) {
				continue
			}
			if f, ok := coercer.ToNumber(v); ok {
				positions = append(positions, i)
				nums = append(nums, f)
			}
		}

		clipped, count := columns.ClipOutliers(nums)
		if count == 0 {
			continue
		}
		for k, pos := range positions {
			if clipped[k] != nums[k] {
				ds.Rows[pos][idx] = ingestion.NewNumericValue(clipped[k])
			}
		}
		result.OutlierSummary[col] = count
		result.CleaningLog = append(result.CleaningLog, cleaning.CleaningAction{
			Action:       cleaning.ActionClipOutliers,
			Column:       col,
			Reason:       fmt.Sprintf("clipped %d values outside the IQR fences", count),
			RowsAffected: count,
		})
	}
}

// Mode returns the most frequent present value. Ties go to the value seen
// first in row order.
func Mode(values []ingestion.Value) (ingestion.Value, bool) {
	counts := make(map[ingestion.Value]int)
	for _, v := range values {
		if !coercer.IsMissing(v) {
			counts[v]++
		}
	}
	var best ingestion.Value
	bestCount := 0
	for _, v := range columns.Distinct(values) {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount > 0
}

func (c *Cleaner) qualityMetrics(ds *dataset.Dataset) []cleaning.ColumnQuality {
	out := make([]cleaning.ColumnQuality, 0, ds.NumCols())
	rows := float64(ds.NumRows())
	for _, col := range ds.Columns {
		values := ds.Column(col)
		analysis := c.coercer.AnalyzeTypeDistribution(values)
		q := cleaning.ColumnQuality{
			Column:       col,
			ValueKind:    analysis.RecommendedKind,
			NullCount:    columns.MissingCount(values),
			UniqueValues: columns.UniqueCount(values),
		}
		q.NullPct = columns.Round(float64(q.NullCount)/rows*100, 2)
		if columns.IsNumericValues(values) {
			nums := columns.NumericOf(values)
			_, q.OutlierCount = columns.DetectOutliers(nums)
			if len(nums) > 0 {
				q.OutlierPct = columns.Round(float64(q.OutlierCount)/float64(len(nums))*100, 2)
			}
		}
		out = append(out, q)
	}
	return out
}
