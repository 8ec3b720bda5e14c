package datareadiness

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/domain/datareadiness/ingestion"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
)

func numbers(xs ...float64) []ingestion.Value {
	out := make([]ingestion.Value, len(xs))
	for i, x := range xs {
		out[i] = ingestion.NewNumericValue(x)
	}
	return out
}

func texts(xs ...string) []ingestion.Value {
	out := make([]ingestion.Value, len(xs))
	for i, x := range xs {
		out[i] = ingestion.NewStringValue(x)
	}
	return out
}

func repeat(v []ingestion.Value, times int) []ingestion.Value {
	var out []ingestion.Value
	for i := 0; i < times; i++ {
		out = append(out, v...)
	}
	return out
}

func TestClassifyColumn(t *testing.T) {
	c := NewColumnClassifier()

	var wide []float64
	for i := 0; i < 40; i++ {
		wide = append(wide, float64(i)*1.5)
	}
	var names []string
	for i := 0; i < 60; i++ {
		names = append(names, fmt.Sprintf("user-%d", i))
	}

	tests := []struct {
		name       string
		column     string
		values     []ingestion.Value
		wantType   profiling.ColumnType
		wantReason string
	}{
		{"binary indicator", "flag", repeat(numbers(0, 1), 10), profiling.TypeDiscrete, "binary indicator"},
		{"small integer set", "rooms", repeat(numbers(1, 2, 3, 4), 5), profiling.TypeDiscrete, "unique ratio 0.20"},
		{"continuous", "price", numbers(wide...), profiling.TypeContinuous, "40 unique values"},
		{"numeric id", "seq", numbers(1, 2, 3, 4, 5), profiling.TypeContinuous, "likely identifier"},
		{"categorical by ratio", "city", repeat(texts("a", "b", "c"), 4), profiling.TypeCategorical, "unique ratio 0.25"},
		{"categorical by count", "code", texts("a", "b", "c", "d"), profiling.TypeCategorical, "4 unique values"},
		{"unknown text", "username", texts(names...), profiling.TypeUnknown, "60 unique values"},
		{"datetime", "signup", texts("2024-01-01", "2024-01-02", "2024-01-03"), profiling.TypeDatetime, "parse as dates"},
		{"all missing", "empty", []ingestion.Value{ingestion.NewMissingValue(), ingestion.NewStringValue("")}, profiling.TypeUnknown, "no non-missing values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := c.ClassifyColumn(tt.column, tt.values)
			assert.Equal(t, tt.wantType, p.DetectedType, p.Reasoning)
			assert.Contains(t, p.Reasoning, tt.wantReason)
			assert.GreaterOrEqual(t, p.MissingPct, 0.0)
			assert.LessOrEqual(t, p.MissingPct, 100.0)
			assert.LessOrEqual(t, p.UniqueValues, len(tt.values))
		})
	}
}

func TestClassifyColumnNumericShareBoundary(t *testing.T) {
	c := NewColumnClassifier()
	var xs []float64
	for i := 0; i < 18; i++ {
		xs = append(xs, float64(i)*1.5)
	}

	atBoundary := append(numbers(xs...), texts("abc", "def")...)
	p := c.ClassifyColumn("reading", atBoundary)
	assert.Equal(t, profiling.TypeContinuous, p.DetectedType, p.Reasoning)
	assert.Contains(t, p.Reasoning, "90% numeric")

	below := append(numbers(xs[:17]...), texts("abc", "def", "ghi")...)
	p = c.ClassifyColumn("reading", below)
	assert.False(t, p.DetectedType.IsNumeric(), p.Reasoning)
}

func TestClassifyColumnSideMetrics(t *testing.T) {
	c := NewColumnClassifier()
	values := append(repeat(texts("x", "y"), 3), ingestion.NewMissingValue(), ingestion.NewStringValue(""))

	p := c.ClassifyColumn("letters", values)
	assert.Equal(t, profiling.TypeCategorical, p.DetectedType)
	assert.Equal(t, 2, p.UniqueValues)
	assert.InDelta(t, 25.0, p.MissingPct, 1e-9)
}

func TestClassifyColumnsKeepsSchemaOrder(t *testing.T) {
	ds, err := dataset.FromRecords([]string{"b", "a"}, []map[string]any{
		{"a": 1, "b": "x"},
		{"a": 2, "b": "y"},
	})
	require.NoError(t, err)

	profiles, err := NewColumnClassifier().ClassifyColumns(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "b", profiles[0].Column)
	assert.Equal(t, "a", profiles[1].Column)
}

func TestClassifyColumnsHonoursCancellation(t *testing.T) {
	ds, _ := dataset.FromRecords([]string{"a"}, []map[string]any{{"a": 1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewColumnClassifier().ClassifyColumns(ctx, ds)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewColumnClassifier().ClassifyColumns(context.Background(), nil)
	assert.Error(t, err)
}
