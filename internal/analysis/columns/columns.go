// Package columns holds the column-level primitives shared by every
// pipeline stage: missingness, numeric coercion share, cardinality and the
// identifier, constant and datetime heuristics.
package columns

import (
	"regexp"

	"autoinsight/adapters/datareadiness/coercer"
	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/dataset"
)

const (
	// NumericShare is the share of non-missing values that must coerce for a
	// column to be numeric.
	NumericShare = 0.9
	// IDUniqueRatio is the unique ratio above which a mostly numeric column is a surrogate key.
	IDUniqueRatio = 0.95
)

var idNamePattern = regexp.MustCompile(`(?i)^(id|_id|identifier|key|index|row_num|serial)$`)

// NonMissing drops null and empty-string cells, preserving order.
func NonMissing(values []ingestion.Value) []ingestion.Value {
	out := make([]ingestion.Value, 0, len(values))
	for _, v := range values {
		if !coercer.IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// MissingCount counts null and empty-string cells.
func MissingCount(values []ingestion.Value) int {
	n := 0
	for _, v := range values {
		if coercer.IsMissing(v) {
			n++
		}
	}
	return n
}

// MissingPct is MissingCount as a percentage of all cells.
func MissingPct(values []ingestion.Value) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(MissingCount(values)) / float64(len(values)) * 100
}

// UniqueCount counts distinct non-missing values. Values of different types
// are distinct even when they print alike.
func UniqueCount(values []ingestion.Value) int {
	seen := make(map[ingestion.Value]struct{})
	for _, v := range values {
		if !coercer.IsMissing(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// Distinct returns distinct non-missing values in encounter order.
func Distinct(values []ingestion.Value) []ingestion.Value {
	seen := make(map[ingestion.Value]struct{})
	var out []ingestion.Value
	for _, v := range values {
		if coercer.IsMissing(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// NumericShareOf is the fraction of non-missing values that coerce to numbers.
// It is zero for a column with no present values.
func NumericShareOf(values []ingestion.Value) float64 {
	present, numeric := 0, 0
	for _, v := range values {
		if coercer.IsMissing(v) {
			continue
		}
		present++
		if coercer.IsNumeric(v) {
			numeric++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(numeric) / float64(present)
}

// IsNumericValues reports whether more than 90% of present values are numeric.
func IsNumericValues(values []ingestion.Value) bool {
	return NumericShareOf(values) > NumericShare
}

// IsNumericColumn is IsNumericValues over one dataset column.
func IsNumericColumn(ds *dataset.Dataset, column string) bool {
	return IsNumericValues(ds.Column(column))
}

// NumericOf coerces present numeric cells, preserving order.
func NumericOf(values []ingestion.Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if coercer.IsMissing(v) {
			continue
		}
		if f, ok := coercer.ToNumber(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// NumericValues is NumericOf over one dataset column.
func NumericValues(ds *dataset.Dataset, column string) []float64 {
	return NumericOf(ds.Column(column))
}

// UniqueRatio is UniqueCount over the number of present values.
func UniqueRatio(values []ingestion.Value) float64 {
	present := len(values) - MissingCount(values)
	if present == 0 {
		return 0
	}
	return float64(UniqueCount(values)) / float64(present)
}

// IsIDName reports whether a column name is a conventional key name.
func IsIDName(column string) bool {
	return idNamePattern.MatchString(column)
}

// IsIDLikeValues flags sequential surrogate keys: an identifier name, or a
// mostly numeric column whose values are nearly all distinct.
func IsIDLikeValues(column string, values []ingestion.Value) bool {
	if IsIDName(column) {
		return true
	}
	if len(values)-MissingCount(values) == 0 {
		return false
	}
	return UniqueRatio(values) > IDUniqueRatio && NumericShareOf(values) >= NumericShare
}

// IsIDLike is IsIDLikeValues over one dataset column.
func IsIDLike(ds *dataset.Dataset, column string) bool {
	return IsIDLikeValues(column, ds.Column(column))
}

// IsConstantValues reports at most one distinct present value. An empty
// column is constant.
func IsConstantValues(values []ingestion.Value) bool {
	return UniqueCount(values) <= 1
}

// IsConstant is IsConstantValues over one dataset column.
func IsConstant(ds *dataset.Dataset, column string) bool {
	return IsConstantValues(ds.Column(column))
}

// DateShare is the fraction of present cells in the leading sample that parse
// as dates. Numeric cells stay in the denominator but never count as dates.
func DateShare(c *coercer.TypeCoercer, values []ingestion.Value) float64 {
	limit := c.Config().DateSampleSize
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	present, dates := 0, 0
	for _, v := range values {
		if coercer.IsMissing(v) {
			continue
		}
		present++
		if c.IsDateValue(v) {
			dates++
		}
	}
	if present == 0 {
		return 0
	}
	return float64(dates) / float64(present)
}

// IsDatetimeValues applies the datetime threshold to DateShare.
func IsDatetimeValues(values []ingestion.Value) bool {
	return DateShare(coercer.Default, values) >= coercer.Default.Config().DatetimeThreshold
}

// IsDatetime is IsDatetimeValues over one dataset column.
func IsDatetime(ds *dataset.Dataset, column string) bool {
	return IsDatetimeValues(ds.Column(column))
}

// StringValues renders present cells as text, preserving order.
func StringValues(values []ingestion.Value) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if coercer.IsMissing(v) {
			continue
		}
		out = append(out, v.String())
	}
	return out
}
