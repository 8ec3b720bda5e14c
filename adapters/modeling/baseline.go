package modeling

import (
	"context"
	"fmt"

	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/internal/analysis/columns"
	apperrors "autoinsight/internal/errors"
	"autoinsight/ports"
)

// SimulationNote is attached to every result produced by a simulated model.
const SimulationNote = "Baseline metrics are simulated placeholders, not a trained model."

// BaselineModeler implements PredictivePort: it detects the target, selects
// features and delegates to the BaselineModel registered for the task.
type BaselineModeler struct {
	detector *TargetDetector
	models   map[predictive.TaskType]ports.BaselineModel
	seed     int64
}

// Option configures a BaselineModeler.
type Option func(*BaselineModeler)

// WithSeed fixes the seed instead of deriving it from the dataset fingerprint.
// Zero keeps the derived seed.
func WithSeed(seed int64) Option {
	return func(m *BaselineModeler) { m.seed = seed }
}

// WithModel registers or replaces the model for its task.
func WithModel(model ports.BaselineModel) Option {
	return func(m *BaselineModeler) { m.models[model.Task()] = model }
}

// NewBaselineModeler wires the simulated classifier, regressor and clusterer.
func NewBaselineModeler(rng ports.RNGPort, opts ...Option) *BaselineModeler {
	m := &BaselineModeler{
		detector: NewTargetDetector(),
		models:   make(map[predictive.TaskType]ports.BaselineModel),
	}
	for _, model := range []ports.BaselineModel{
		NewSimulatedClassifier(rng),
		NewSimulatedRegressor(rng),
		NewSimulatedClusterer(rng),
	} {
		m.models[model.Task()] = model
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TrainBaseline returns nil without error when no model can be trained:
// the target maps to no task, or no usable features remain.
func (m *BaselineModeler) TrainBaseline(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*predictive.PredictiveResult, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("baseline modeling requires a dataset")
	}

	target := m.detector.Detect(ds, profiles)
	model, ok := m.models[target.Task]
	if !ok {
		return nil, nil
	}

	features := SelectFeatures(ds, profiles, target)
	if len(features) == 0 {
		return nil, nil
	}

	in := predictive.TrainingInput{
		Rows:     ds.NumRows(),
		Features: features,
		Seed:     m.seedFor(ds),
	}
	switch target.Task {
	case predictive.TaskRegression:
		in.TargetValues = columns.NumericValues(ds, target.Column)
	case predictive.TaskClassification:
		for _, c := range target.ClassDistribution {
			in.Classes = append(in.Classes, c.Class)
		}
	}

	fit, err := model.Fit(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", model.Name(), err)
	}

	result := &predictive.PredictiveResult{
		TargetColumn:      target.Column,
		TargetType:        target.Task,
		FeaturesUsed:      featureNames(features),
		ModelType:         fit.ModelType,
		Metrics:           fit.Metrics,
		FeatureImportance: fit.FeatureImportance,
		ConfusionMatrix:   fit.ConfusionMatrix,
		Target:            target,
		Simulated:         fit.Simulated,
	}
	if fit.Simulated {
		result.Note = SimulationNote
	}
	result.Plan = NewTrainingPlan(ds.NumRows(), target, ReadyFeatures(ds, profiles, target))
	return result, nil
}

func (m *BaselineModeler) seedFor(ds *dataset.Dataset) int64 {
	if m.seed != 0 {
		return m.seed
	}
	return ds.Fingerprint().Seed()
}

// SelectFeatures returns every column but the target, skipping datetime and
// unknown columns. The unsupervised path keeps numeric columns only.
func SelectFeatures(ds *dataset.Dataset, profiles profiling.Profiles, target predictive.TargetInfo) []predictive.FeatureSpec {
	var out []predictive.FeatureSpec
	for _, col := range ds.Columns {
		if col == target.Column && target.Task != predictive.TaskClustering {
			continue
		}
		kind := profiles.TypeOf(col)
		switch {
		case kind == profiling.TypeDatetime || kind == profiling.TypeUnknown:
			continue
		case target.Task == predictive.TaskClustering && !kind.IsNumeric():
			continue
		}
		out = append(out, predictive.FeatureSpec{Name: col, Numeric: kind.IsNumeric()})
	}
	return out
}

func featureNames(features []predictive.FeatureSpec) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Name
	}
	return out
}
