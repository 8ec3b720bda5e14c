package modeling

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoinsight/adapters/rng"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
)

func mustDataset(t *testing.T, header []string, records []map[string]any) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords(header, records)
	require.NoError(t, err)
	return ds
}

func profilesOf(pairs ...any) profiling.Profiles {
	var out profiling.Profiles
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, profiling.ColumnProfile{
			Column:       pairs[i].(string),
			DetectedType: pairs[i+1].(profiling.ColumnType),
		})
	}
	return out
}

func churnData(t *testing.T, n int) (*dataset.Dataset, profiling.Profiles) {
	t.Helper()
	records := make([]map[string]any, n)
	for i := range records {
		churn := "No"
		if i%3 == 0 {
			churn = "Yes"
		}
		records[i] = map[string]any{
			"age":    20 + i%40,
			"income": float64(30000 + (i*7919)%50000),
			"signup": fmt.Sprintf("2024-01-%02d", 1+i%28),
			"churn":  churn,
		}
	}
	ds := mustDataset(t, []string{"age", "income", "signup", "churn"}, records)
	return ds, profilesOf(
		"age", profiling.TypeDiscrete,
		"income", profiling.TypeContinuous,
		"signup", profiling.TypeDatetime,
		"churn", profiling.TypeCategorical,
	)
}

func TestDetectChurnTarget(t *testing.T) {
	ds, profiles := churnData(t, 30)
	info := NewTargetDetector().Detect(ds, profiles)

	assert.Equal(t, "churn", info.Column)
	assert.Equal(t, predictive.TaskClassification, info.Task)
	assert.Equal(t, predictive.RuleNamePattern, info.Rule)
	require.Len(t, info.ClassDistribution, 2)
	assert.Equal(t, "No", info.ClassDistribution[0].Class)
	assert.Equal(t, 20, info.ClassDistribution[0].Count)
	assert.Equal(t, 2.0, info.ImbalanceRatio)
	assert.Empty(t, info.Warnings)
}

func TestDetectPrefersYesNoBinary(t *testing.T) {
	ds := mustDataset(t, []string{"color", "subscribed", "score"}, []map[string]any{
		{"color": "red", "subscribed": "Yes", "score": 1.5},
		{"color": "blue", "subscribed": "No", "score": 2.5},
		{"color": "red", "subscribed": "No", "score": 3.5},
	})
	profiles := profilesOf(
		"color", profiling.TypeCategorical,
		"subscribed", profiling.TypeCategorical,
		"score", profiling.TypeContinuous,
	)

	info := NewTargetDetector().Detect(ds, profiles)
	assert.Equal(t, "subscribed", info.Column)
	assert.Equal(t, predictive.RuleBinaryCategory, info.Rule)
}

func TestDetectFirstBinaryWhenNoPreferredSet(t *testing.T) {
	ds := mustDataset(t, []string{"color", "size"}, []map[string]any{
		{"color": "red", "size": "S"},
		{"color": "blue", "size": "L"},
	})
	profiles := profilesOf("color", profiling.TypeCategorical, "size", profiling.TypeCategorical)

	info := NewTargetDetector().Detect(ds, profiles)
	assert.Equal(t, "color", info.Column)
}

func TestDetectLastColumn(t *testing.T) {
	ds := mustDataset(t, []string{"x", "grade"}, []map[string]any{
		{"x": 1.1, "grade": 1}, {"x": 2.2, "grade": 2}, {"x": 3.3, "grade": 3},
	})
	profiles := profilesOf("x", profiling.TypeContinuous, "grade", profiling.TypeDiscrete)

	info := NewTargetDetector().Detect(ds, profiles)
	assert.Equal(t, "grade", info.Column)
	assert.Equal(t, predictive.RuleLastColumn, info.Rule)
	assert.Equal(t, predictive.TaskClassification, info.Task)
}

func TestDetectNoTarget(t *testing.T) {
	ds := mustDataset(t, []string{"x", "z"}, []map[string]any{{"x": 1.1, "z": 2.2}})
	profiles := profilesOf("x", profiling.TypeContinuous, "z", profiling.TypeContinuous)

	info := NewTargetDetector().Detect(ds, profiles)
	assert.Equal(t, predictive.NoTarget, info.Column)
	assert.Equal(t, predictive.TaskClustering, info.Task)
	assert.Equal(t, predictive.RuleNone, info.Rule)
}

func TestDetectWarnings(t *testing.T) {
	records := make([]map[string]any, 0, 14)
	for i := 0; i < 12; i++ {
		records = append(records, map[string]any{"label": "a"})
	}
	records = append(records, map[string]any{"label": "b"}, map[string]any{"label": nil})
	ds := mustDataset(t, []string{"label"}, records)

	info := NewTargetDetector().Detect(ds, profilesOf("label", profiling.TypeCategorical))
	assert.Equal(t, 12.0, info.ImbalanceRatio)
	assert.Contains(t, info.Warnings, "target has 1 missing values")
	assert.Contains(t, info.Warnings, "classes with fewer than 5 samples: b")
	assert.Contains(t, info.Warnings, "severe class imbalance (ratio 12.0)")
}

func TestConfusionMatrix(t *testing.T) {
	assert.Equal(t, [][]int{{6, 2}, {2, 10}}, ConfusionMatrix(100, 0.8))
	cm := ConfusionMatrix(57, 0.83)
	total := cm[0][0] + cm[0][1] + cm[1][0] + cm[1][1]
	assert.Equal(t, 11, total)
}

func TestClusterCount(t *testing.T) {
	assert.Equal(t, 1, ClusterCount(2))
	assert.Equal(t, 2, ClusterCount(8))
	assert.Equal(t, 3, ClusterCount(18))
	assert.Equal(t, 5, ClusterCount(1000))
}

func TestTrainBaselineClassification(t *testing.T) {
	ds, profiles := churnData(t, 50)
	result, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "churn", result.TargetColumn)
	assert.Equal(t, predictive.TaskClassification, result.TargetType)
	assert.Equal(t, []string{"age", "income"}, result.FeaturesUsed)
	assert.Equal(t, ModelClassifier, result.ModelType)
	assert.True(t, result.Simulated)
	assert.Equal(t, SimulationNote, result.Note)

	m := result.Metrics
	assert.True(t, m["accuracy"] >= 0.75 && m["accuracy"] <= 0.9, "accuracy %v", m["accuracy"])
	assert.True(t, m["precision"] >= 0.65 && m["precision"] <= 0.8, "precision %v", m["precision"])
	assert.True(t, m["recall"] >= 0.55 && m["recall"] <= 0.7, "recall %v", m["recall"])
	f1 := 2 * m["precision"] * m["recall"] / (m["precision"] + m["recall"])
	assert.InDelta(t, f1, m["f1_score"], 1e-3)

	var sum float64
	for i, fi := range result.FeatureImportance {
		sum += fi.Importance
		if i > 0 {
			assert.GreaterOrEqual(t, result.FeatureImportance[i-1].Importance, fi.Importance)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-3)

	require.Len(t, result.ConfusionMatrix, 2)
	total := 0
	for _, row := range result.ConfusionMatrix {
		for _, c := range row {
			total += c
		}
	}
	assert.Equal(t, 10, total)
}

func TestTrainBaselineDeterministic(t *testing.T) {
	ds, profiles := churnData(t, 40)
	a, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	b, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewBaselineModeler(rng.NewSeededRNG(), WithSeed(99)).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.NotEqual(t, a.Metrics, c.Metrics)
}

func TestTrainBaselineRegression(t *testing.T) {
	records := make([]map[string]any, 30)
	prices := make([]float64, 30)
	for i := range records {
		prices[i] = 100 + float64(i)*3.5
		records[i] = map[string]any{"sqft": 500 + i*10, "price": prices[i]}
	}
	ds := mustDataset(t, []string{"sqft", "price"}, records)
	profiles := profilesOf("sqft", profiling.TypeContinuous, "price", profiling.TypeContinuous)

	result, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, predictive.TaskRegression, result.TargetType)
	assert.Equal(t, ModelRegressor, result.ModelType)
	r2 := result.Metrics["r2_score"]
	assert.True(t, r2 >= 0.6 && r2 <= 0.9)
	assert.InDelta(t, 0.8*result.Metrics["rmse"], result.Metrics["mae"], 1e-3)
	assert.Nil(t, result.ConfusionMatrix)

	var mean, ss float64
	for _, p := range prices {
		mean += p
	}
	mean /= float64(len(prices))
	for _, p := range prices {
		ss += (p - mean) * (p - mean)
	}
	variance := ss / float64(len(prices)-1)
	assert.InDelta(t, math.Sqrt(variance*(1-r2*0.5)), result.Metrics["rmse"], 1e-2)
}

func TestTrainBaselineClustering(t *testing.T) {
	records := make([]map[string]any, 50)
	for i := range records {
		records[i] = map[string]any{"x": float64(i) * 1.1, "z": float64(i%7) * 2.3, "note": fmt.Sprintf("n%d", i%4)}
	}
	ds := mustDataset(t, []string{"x", "z", "note"}, records)
	profiles := profilesOf("x", profiling.TypeContinuous, "z", profiling.TypeContinuous, "note", profiling.TypeUnknown)

	result, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, predictive.NoTarget, result.TargetColumn)
	assert.Equal(t, predictive.TaskClustering, result.TargetType)
	assert.Equal(t, []string{"x", "z"}, result.FeaturesUsed)
	assert.Equal(t, 5.0, result.Metrics["n_clusters"])
	assert.Contains(t, result.Metrics, "inertia")
}

func TestTrainBaselineNoFeatures(t *testing.T) {
	ds := mustDataset(t, []string{"churn"}, []map[string]any{{"churn": "Yes"}, {"churn": "No"}})
	result, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profilesOf("churn", profiling.TypeCategorical))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestTrainBaselineUnknownTask(t *testing.T) {
	ds := mustDataset(t, []string{"price", "x"}, []map[string]any{{"price": "2024-01-01", "x": 1.5}})
	profiles := profilesOf("price", profiling.TypeDatetime, "x", profiling.TypeContinuous)

	result, err := NewBaselineModeler(rng.NewSeededRNG()).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.Nil(t, result)
}

type stubModel struct{ calls int }

func (s *stubModel) Name() string              { return "stub" }
func (s *stubModel) Task() predictive.TaskType { return predictive.TaskClassification }
func (s *stubModel) Fit(ctx context.Context, in predictive.TrainingInput) (*predictive.ModelFit, error) {
	s.calls++
	return &predictive.ModelFit{ModelType: "stub", Metrics: map[string]float64{"accuracy": 1}}, nil
}

func TestWithModelReplacesSimulation(t *testing.T) {
	ds, profiles := churnData(t, 10)
	stub := &stubModel{}
	result, err := NewBaselineModeler(rng.NewSeededRNG(), WithModel(stub)).TrainBaseline(context.Background(), ds, profiles)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "stub", result.ModelType)
	assert.False(t, result.Simulated)
	assert.Empty(t, result.Note)
}
