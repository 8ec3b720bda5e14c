package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"autoinsight/domain/datareadiness/ingestion"
)

// TypeCoercer applies the shared coercion thresholds to cells and columns.
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold  float64 `json:"numeric_threshold"`  // share of non-missing values that must be numeric
	DatetimeThreshold float64 `json:"datetime_threshold"` // share of sampled values that must parse as dates
	DateSampleSize    int     `json:"date_sample_size"`   // leading rows inspected for dates
	MinYear           int     `json:"min_year"`
	MaxYear           int     `json:"max_year"`
}

// DefaultCoercionConfig returns the pipeline defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:  0.9,
		DatetimeThreshold: 0.7,
		DateSampleSize:    100,
		MinYear:           1900,
		MaxYear:           2100,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Default is the coercer used by the package-level helpers.
var Default = NewTypeCoercer(DefaultCoercionConfig())

// Config returns the coercer's thresholds.
func (c *TypeCoercer) Config() CoercionConfig { return c.config }

// IsMissing reports null or the empty string.
func IsMissing(v ingestion.Value) bool { return v.IsMissing() }

// ToNumber coerces a cell to a finite float. Booleans count as 1 and 0;
// strings are trimmed and must be a complete decimal literal.
func ToNumber(v ingestion.Value) (float64, bool) {
	switch v.Type {
	case ingestion.ValueTypeNumeric:
		return v.Num, true
	case ingestion.ValueTypeBoolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case ingestion.ValueTypeString:
		return parseNumeric(v.Str)
	}
	return 0, false
}

// IsNumeric reports whether ToNumber succeeds.
func IsNumeric(v ingestion.Value) bool {
	_, ok := ToNumber(v)
	return ok
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// hex floats and digit separators are not data
	if strings.ContainsAny(s, "xX_pP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2006.01.02",
	"02-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses text that looks like a calendar date. The text must carry
// a date separator (- / : .) and the year must fall inside the configured range.
func (c *TypeCoercer) ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "-/:.") {
		return time.Time{}, false
	}
	if _, ok := parseNumeric(s); ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() < c.config.MinYear || t.Year() > c.config.MaxYear {
				return time.Time{}, false
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate uses the default coercer.
func ParseDate(s string) (time.Time, bool) { return Default.ParseDate(s) }

// IsDateValue reports whether a cell is a non-numeric string that parses as a date.
func (c *TypeCoercer) IsDateValue(v ingestion.Value) bool {
	if v.Type != ingestion.ValueTypeString {
		return false
	}
	_, ok := c.ParseDate(v.Str)
	return ok
}

// AnalyzeTypeDistribution counts how the non-missing cells of a column coerce.
func (c *TypeCoercer) AnalyzeTypeDistribution(values []ingestion.Value) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		analysis.ValidCount++
		switch {
		case IsNumeric(v):
			analysis.NumericCount++
		case v.IsBoolean():
			analysis.BooleanCount++
		case c.IsDateValue(v):
			analysis.DateCount++
		default:
			analysis.StringCount++
		}
	}

	if analysis.ValidCount > 0 {
		n := float64(analysis.ValidCount)
		analysis.NumericRatio = float64(analysis.NumericCount) / n
		analysis.DateRatio = float64(analysis.DateCount) / n
	}
	analysis.RecommendedKind = c.determineRecommendedKind(analysis)
	return analysis
}

func (c *TypeCoercer) determineRecommendedKind(a TypeAnalysis) string {
	switch {
	case a.ValidCount == 0:
		return "empty"
	case a.NumericRatio > c.config.NumericThreshold:
		return "numeric"
	case a.DateRatio >= c.config.DatetimeThreshold:
		return "datetime"
	case a.BooleanCount == a.ValidCount:
		return "boolean"
	case a.StringCount == a.ValidCount:
		return "text"
	}
	return "mixed"
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int     `json:"total_count"`
	ValidCount      int     `json:"valid_count"`
	NumericCount    int     `json:"numeric_count"`
	BooleanCount    int     `json:"boolean_count"`
	DateCount       int     `json:"date_count"`
	StringCount     int     `json:"string_count"`
	NumericRatio    float64 `json:"numeric_ratio"`
	DateRatio       float64 `json:"date_ratio"`
	RecommendedKind string  `json:"recommended_kind"`
}
