package prescriptive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/domain/datareadiness/cleaning"
	domainprescriptive "autoinsight/domain/prescriptive"
	domainstats "autoinsight/domain/stats"
)

func TestMissingRiskReadsRawMissingness(t *testing.T) {
	ds, profiles := fixture(t, 200)
	cleaned := &cleaning.CleaningResult{
		Before: cleaning.Shape{Rows: 200, Columns: 4},
		QualityMetrics: []cleaning.ColumnQuality{
			{Column: "spend", NullCount: 60, NullPct: 30, UniqueValues: 10},
			{Column: "visits", NullCount: 140, NullPct: 70, UniqueValues: 7},
			{Column: "flat", UniqueValues: 1},
			{Column: "segment", UniqueValues: 2},
		},
	}

	result, err := NewAdvisor().GeneratePrescriptive(context.Background(), ds, profiles,
		domainprescriptive.Inputs{Cleaning: cleaned})
	require.NoError(t, err)

	missing := risksNamed(result.DataQualityRisks, "Missing values")
	require.Len(t, missing, 2)
	assert.Equal(t, "spend", missing[0].Column)
	assert.Equal(t, domainprescriptive.SeverityMedium, missing[0].Severity)
	assert.Equal(t, "visits", missing[1].Column)
	assert.Equal(t, domainprescriptive.SeverityHigh, missing[1].Severity)
	assert.Equal(t, "70.0% of values are missing", missing[1].Detail)
}

func TestMissingRiskAbsentWithoutRawNulls(t *testing.T) {
	ds, profiles := fixture(t, 200)
	result, err := NewAdvisor().GeneratePrescriptive(context.Background(), ds, profiles,
		domainprescriptive.Inputs{Cleaning: &cleaning.CleaningResult{Before: cleaning.Shape{Rows: 200}}})
	require.NoError(t, err)
	assert.Empty(t, risksNamed(result.DataQualityRisks, "Missing values"))
}

func TestCorrelationActions(t *testing.T) {
	ds, profiles := fixture(t, 200)
	diag := &domainstats.DiagnosticResult{
		Correlations: []domainstats.CorrelationPair{
			{FeatureA: "spend", FeatureB: "visits", Pearson: 0.95},
			{FeatureA: "spend", FeatureB: "flat", Pearson: -0.85},
			{FeatureA: "visits", FeatureB: "flat", Pearson: 0.7},
		},
	}

	result, err := NewAdvisor().GeneratePrescriptive(context.Background(), ds, profiles,
		domainprescriptive.Inputs{Diagnostic: diag})
	require.NoError(t, err)

	require.Len(t, result.CorrelationActions, 2)
	high := result.CorrelationActions[0]
	assert.Equal(t, "visits", high.Feature)
	assert.Equal(t, "spend", high.CorrelatedWith)
	assert.Equal(t, "Drop one feature", high.Action)
	assert.Equal(t, domainprescriptive.SeverityHigh, high.Severity)
	assert.Equal(t, domainprescriptive.PriorityHigh, high.Priority)

	medium := result.CorrelationActions[1]
	assert.InDelta(t, -0.85, medium.Correlation, 1e-9)
	assert.Equal(t, "Consider PCA or feature combination", medium.Action)
	assert.Equal(t, domainprescriptive.PriorityMedium, medium.Priority)
	assert.Equal(t, 2, result.Summary.Categories["correlation_actions"])
}

func TestDatasetActionsFromCleaningResult(t *testing.T) {
	ds, profiles := fixture(t, 200)
	cleaned := &cleaning.CleaningResult{
		CleaningLog: []cleaning.CleaningAction{
			{Action: cleaning.ActionRemoveDuplicates, RowsAffected: 6},
		},
		Before: cleaning.Shape{Rows: 50, Columns: 3},
		QualityMetrics: []cleaning.ColumnQuality{
			{Column: "customer_id", UniqueValues: 50},
			{Column: "flat", UniqueValues: 1},
			{Column: "spend", NullCount: 20, NullPct: 40, UniqueValues: 12},
		},
	}

	result, err := NewAdvisor().GeneratePrescriptive(context.Background(), ds, profiles,
		domainprescriptive.Inputs{Cleaning: cleaned})
	require.NoError(t, err)

	byIssue := make(map[string]domainprescriptive.DatasetAction)
	for _, a := range result.DatasetActions {
		byIssue[a.Issue] = a
	}

	dup := byIssue["Duplicate Rows"]
	assert.Equal(t, 6, dup.Count)
	assert.InDelta(t, 12.0, dup.Percentage, 1e-9)
	assert.Equal(t, domainprescriptive.PriorityHigh, dup.Priority)

	missing := byIssue["Moderate Missing Values"]
	assert.Equal(t, 20, missing.Count)
	assert.InDelta(t, 13.33, missing.Percentage, 1e-9)

	assert.Equal(t, []string{"flat"}, byIssue["Constant Columns"].Columns)
	assert.Equal(t, []string{"customer_id"}, byIssue["ID-like Columns"].Columns)
	assert.Equal(t, 50, byIssue["Small Sample Size"].Count)
	assert.NotContains(t, byIssue, "More Features than Samples")
	assert.Equal(t, len(result.DatasetActions), result.Summary.Categories["dataset_actions"])
}

func TestDatasetActionsMeasureDatasetWithoutCleaning(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b", "c", "d"}, []map[string]any{
		{"a": 1, "b": 2, "c": 3, "d": 4},
		{"a": 1, "b": 2, "c": 3, "d": 4},
		{"a": 5, "b": 6, "c": 7, "d": 8},
	})

	result, err := NewAdvisor().GeneratePrescriptive(context.Background(), ds, nil, domainprescriptive.Inputs{})
	require.NoError(t, err)

	var issues []string
	for _, a := range result.DatasetActions {
		issues = append(issues, a.Issue)
	}
	assert.Equal(t, []string{"Duplicate Rows", "More Features than Samples", "Small Sample Size"}, issues)
	assert.Equal(t, 1, result.DatasetActions[0].Count)
}
