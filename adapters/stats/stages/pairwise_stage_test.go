package stages

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/domain/datareadiness/profiling"
	domainstats "autoinsight/domain/stats"
)

func TestPairwiseAntiCorrelated(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []map[string]any{
		{"a": 1, "b": 10}, {"a": 2, "b": 8}, {"a": 3, "b": 6}, {"a": 4, "b": 4}, {"a": 5, "b": 2},
	})
	profiles := profiling.Profiles{profile("a", profiling.TypeContinuous), profile("b", profiling.TypeContinuous)}

	result, err := NewPairwiseStage().ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)

	require.Len(t, result.Correlations, 1)
	pair := result.Correlations[0]
	assert.Equal(t, "a ↔ b", pair.Pair)
	assert.Equal(t, -1.0, pair.Pearson)
	assert.Equal(t, -1.0, pair.Spearman)
	assert.Equal(t, -1.0, pair.Kendall)
	assert.True(t, strings.Contains(pair.Interpretation, "Strong negative"), pair.Interpretation)

	require.Len(t, result.Multicollinearity, 2)
	for _, w := range result.Multicollinearity {
		assert.GreaterOrEqual(t, w.VIF, 10.0)
		assert.Equal(t, domainstats.VIFHigh, w.Status)
	}
	assert.Equal(t, 1, result.Summary.StrongPairs)
	assert.Equal(t, 2, result.Summary.HighVIF)
	assert.Equal(t, 0.0, result.Summary.HealthScore)
}

func TestPairwiseMatrixSymmetricUnitDiagonal(t *testing.T) {
	records := make([]map[string]any, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, map[string]any{
			"x": i,
			"y": (i * 7) % 11,
			"z": float64(i*i) / 10,
		})
	}
	ds := mustDataset(t, []string{"x", "y", "z"}, records)
	profiles := profiling.Profiles{
		profile("x", profiling.TypeContinuous),
		profile("y", profiling.TypeDiscrete),
		profile("z", profiling.TypeContinuous),
	}

	result, err := NewPairwiseStage().ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)

	m := result.PearsonMatrix
	require.Len(t, m.Values, 3)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, math.Abs(m.Values[i][j]), 1.0)
		}
	}
	assert.Len(t, result.Multicollinearity, 3, "every numeric column gets a VIF entry")

	for k := 1; k < len(result.Correlations); k++ {
		assert.GreaterOrEqual(t, math.Abs(result.Correlations[k-1].Pearson), math.Abs(result.Correlations[k].Pearson))
	}
}

func TestPairwiseThresholdAndCap(t *testing.T) {
	ds := mustDataset(t, []string{"a", "z", "b", "c"}, []map[string]any{
		{"a": 1, "z": 1, "b": 2, "c": 3},
		{"a": 2, "z": -1, "b": 4, "c": 6},
		{"a": 3, "z": 1, "b": 6, "c": 9},
		{"a": 4, "z": -1, "b": 8, "c": 12},
		{"a": 5, "z": 1, "b": 10, "c": 15},
		{"a": 6, "z": -1, "b": 12, "c": 18},
	})
	profiles := profiling.Profiles{
		profile("a", profiling.TypeContinuous),
		profile("z", profiling.TypeDiscrete),
		profile("b", profiling.TypeContinuous),
		profile("c", profiling.TypeContinuous),
	}

	result, err := NewPairwiseStage().ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)
	for _, p := range result.Correlations {
		assert.NotEqual(t, "z", p.FeatureA, "weak pairs are dropped")
		assert.NotEqual(t, "z", p.FeatureB, "weak pairs are dropped")
	}
	assert.Len(t, result.Correlations, 3)

	capped, err := NewPairwiseStageWith(0.3, 1).ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.Len(t, capped.Correlations, 1)
}

func TestPairwiseNeedsTwoNumericColumns(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []map[string]any{{"a": 1, "b": "x"}, {"a": 2, "b": "y"}})
	profiles := profiling.Profiles{profile("a", profiling.TypeContinuous), profile("b", profiling.TypeCategorical)}

	result, err := NewPairwiseStage().ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.Empty(t, result.Correlations)
	assert.Empty(t, result.Multicollinearity)
	assert.Equal(t, 1, result.Summary.AnalyzedFeatures)
	assert.Equal(t, 100.0, result.Summary.HealthScore)
}

func TestPairwiseUnalignedMissingness(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []map[string]any{
		{"a": 1, "b": 2}, {"a": 2, "b": 4}, {"a": nil, "b": 6}, {"a": 4, "b": 8}, {"a": 5, "b": 10},
	})
	profiles := profiling.Profiles{profile("a", profiling.TypeContinuous), profile("b", profiling.TypeContinuous)}

	result, err := NewPairwiseStage().ComputeDiagnostic(context.Background(), ds, profiles)
	require.NoError(t, err)
	r, ok := result.PearsonMatrix.At("a", "b")
	require.True(t, ok)
	assert.LessOrEqual(t, math.Abs(r), 1.0)
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		pearson, spearman float64
		want              string
	}{
		{0.72, 1.0, "Strong positive monotonic relationship"},
		{0.55, 0.6, "Moderate positive linear relationship"},
		{-0.4, -0.45, "Weak negative linear relationship"},
		{0.1, 0.1, "Very weak positive linear relationship"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%v", tt.pearson, tt.spearman), func(t *testing.T) {
			assert.Equal(t, tt.want, Interpret(tt.pearson, tt.spearman))
		})
	}
}
