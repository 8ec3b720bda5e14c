package ports

import (
	"context"

	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/domain/prescriptive"
	"autoinsight/domain/stats"
)

// Stage contracts. Every implementation treats its inputs as read-only and
// returns freshly allocated results.

// ClassifierPort assigns a semantic type to every column.
type ClassifierPort interface {
	ClassifyColumns(ctx context.Context, ds *dataset.Dataset) (profiling.Profiles, error)
}

// CleanerPort deduplicates, drops uninformative columns, imputes and clips.
type CleanerPort interface {
	Clean(ctx context.Context, ds *dataset.Dataset) (*cleaning.CleaningResult, error)
}

// DescriptivePort computes per-column summary statistics.
type DescriptivePort interface {
	ComputeDescriptive(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*stats.DescriptiveResult, error)
}

// DiagnosticPort computes correlations and multicollinearity flags.
type DiagnosticPort interface {
	ComputeDiagnostic(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*stats.DiagnosticResult, error)
}

// PredictivePort detects a target and fits a baseline model. A nil result
// with a nil error means no model was trainable.
type PredictivePort interface {
	TrainBaseline(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles) (*predictive.PredictiveResult, error)
}

// PrescriptivePort turns earlier outputs into recommendations. Any field of
// in may be nil when that stage failed or produced nothing.
type PrescriptivePort interface {
	GeneratePrescriptive(ctx context.Context, ds *dataset.Dataset, profiles profiling.Profiles,
		in prescriptive.Inputs) (*prescriptive.PrescriptiveResult, error)
}

// BaselineModel is the trainer behind PredictivePort. The shipped models
// simulate their output; a real learner can replace them without changing
// the result shape.
type BaselineModel interface {
	Name() string
	Task() predictive.TaskType
	Fit(ctx context.Context, in predictive.TrainingInput) (*predictive.ModelFit, error)
}
