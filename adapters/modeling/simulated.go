package modeling

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"autoinsight/domain/predictive"
	"autoinsight/internal/analysis/columns"
	"autoinsight/ports"
)

// Simulated models draw plausible metrics from fixed ranges instead of
// fitting anything. They stand in for real learners behind BaselineModel.
const (
	ModelClassifier = "RandomForestClassifier"
	ModelRegressor  = "RandomForestRegressor"
	ModelClusterer  = "KMeans"

	testShare      = 0.2
	negativeShare  = 0.4
	maxClusters    = 5
	metricDecimals = 4
)

type uniform struct{ lo, hi float64 }

func (u uniform) draw(r *rand.Rand) float64 {
	return u.lo + r.Float64()*(u.hi-u.lo)
}

var (
	numericImportance     = uniform{0.1, 0.4}
	categoricalImportance = uniform{0.05, 0.25}

	accuracyRange  = uniform{0.75, 0.90}
	precisionRange = uniform{0.65, 0.80}
	recallRange    = uniform{0.55, 0.70}
	r2Range        = uniform{0.6, 0.9}
	inertiaRange   = uniform{100, 1000}
)

// simulated holds the seeded stream shared by the three models.
type simulated struct {
	rng  ports.RNGPort
	name string
}

func (s simulated) stream(ctx context.Context, seed int64) (*rand.Rand, error) {
	return s.rng.SeededStream(ctx, "baseline/"+s.name, seed)
}

// SimulatedClassifier fakes a random forest classifier.
type SimulatedClassifier struct{ simulated }

// NewSimulatedClassifier creates the classification stand-in
func NewSimulatedClassifier(rng ports.RNGPort) *SimulatedClassifier {
	return &SimulatedClassifier{simulated{rng: rng, name: ModelClassifier}}
}

func (m *SimulatedClassifier) Name() string              { return ModelClassifier }
func (m *SimulatedClassifier) Task() predictive.TaskType { return predictive.TaskClassification }

// Fit draws importances, then accuracy, precision and recall. A confusion
// matrix is only produced for two classes.
func (m *SimulatedClassifier) Fit(ctx context.Context, in predictive.TrainingInput) (*predictive.ModelFit, error) {
	r, err := m.stream(ctx, in.Seed)
	if err != nil {
		return nil, err
	}
	importance := drawImportance(r, in.Features)

	accuracy := accuracyRange.draw(r)
	precision := precisionRange.draw(r)
	recall := recallRange.draw(r)
	f1 := 2 * precision * recall / (precision + recall)

	fit := &predictive.ModelFit{
		ModelType: ModelClassifier,
		Metrics: map[string]float64{
			"accuracy":  columns.Round(accuracy, metricDecimals),
			"precision": columns.Round(precision, metricDecimals),
			"recall":    columns.Round(recall, metricDecimals),
			"f1_score":  columns.Round(f1, metricDecimals),
		},
		FeatureImportance: importance,
		Simulated:         true,
	}
	if len(in.Classes) == 2 {
		fit.ConfusionMatrix = ConfusionMatrix(in.Rows, accuracy)
	}
	return fit, nil
}

// ConfusionMatrix splits a 20% test set 40/60 between the negative and
// positive class and marks each class correct at the given accuracy.
// Layout is [[tn, fp], [fn, tp]].
func ConfusionMatrix(rows int, accuracy float64) [][]int {
	test := int(math.Round(float64(rows) * testShare))
	negatives := int(math.Round(float64(test) * negativeShare))
	positives := test - negatives

	tn := int(math.Round(float64(negatives) * accuracy))
	tp := int(math.Round(float64(positives) * accuracy))
	return [][]int{
		{tn, negatives - tn},
		{positives - tp, tp},
	}
}

// SimulatedRegressor fakes a random forest regressor.
type SimulatedRegressor struct{ simulated }

// NewSimulatedRegressor creates the regression stand-in
func NewSimulatedRegressor(rng ports.RNGPort) *SimulatedRegressor {
	return &SimulatedRegressor{simulated{rng: rng, name: ModelRegressor}}
}

func (m *SimulatedRegressor) Name() string              { return ModelRegressor }
func (m *SimulatedRegressor) Task() predictive.TaskType { return predictive.TaskRegression }

// Fit draws R² and derives RMSE from the target variance scaled by
// (1 - R²/2). MAE is 0.8 RMSE.
func (m *SimulatedRegressor) Fit(ctx context.Context, in predictive.TrainingInput) (*predictive.ModelFit, error) {
	r, err := m.stream(ctx, in.Seed)
	if err != nil {
		return nil, err
	}
	importance := drawImportance(r, in.Features)

	r2 := r2Range.draw(r)
	rmse := math.Sqrt(columns.SampleVariance(in.TargetValues) * (1 - r2*0.5))
	return &predictive.ModelFit{
		ModelType: ModelRegressor,
		Metrics: map[string]float64{
			"r2_score": columns.Round(r2, metricDecimals),
			"rmse":     columns.Round(rmse, metricDecimals),
			"mae":      columns.Round(0.8*rmse, metricDecimals),
		},
		FeatureImportance: importance,
		Simulated:         true,
	}, nil
}

// SimulatedClusterer fakes k-means over the numeric features.
type SimulatedClusterer struct{ simulated }

// NewSimulatedClusterer creates the clustering stand-in
func NewSimulatedClusterer(rng ports.RNGPort) *SimulatedClusterer {
	return &SimulatedClusterer{simulated{rng: rng, name: ModelClusterer}}
}

func (m *SimulatedClusterer) Name() string              { return ModelClusterer }
func (m *SimulatedClusterer) Task() predictive.TaskType { return predictive.TaskClustering }

// Fit reports min(5, ceil(sqrt(rows/2))) clusters and a drawn inertia.
func (m *SimulatedClusterer) Fit(ctx context.Context, in predictive.TrainingInput) (*predictive.ModelFit, error) {
	r, err := m.stream(ctx, in.Seed)
	if err != nil {
		return nil, err
	}
	return &predictive.ModelFit{
		ModelType: ModelClusterer,
		Metrics: map[string]float64{
			"n_clusters": float64(ClusterCount(in.Rows)),
			"inertia":    columns.Round(inertiaRange.draw(r), 2),
		},
		FeatureImportance: []predictive.FeatureImportance{},
		Simulated:         true,
	}, nil
}

// ClusterCount is min(5, ceil(sqrt(rows/2))).
func ClusterCount(rows int) int {
	k := int(math.Ceil(math.Sqrt(float64(rows) / 2)))
	if k > maxClusters {
		return maxClusters
	}
	return k
}

// drawImportance draws one weight per feature from its type's range, then
// normalizes to sum 1 and ranks descending.
func drawImportance(r *rand.Rand, features []predictive.FeatureSpec) []predictive.FeatureImportance {
	out := make([]predictive.FeatureImportance, len(features))
	var total float64
	for i, f := range features {
		band := categoricalImportance
		if f.Numeric {
			band = numericImportance
		}
		w := band.draw(r)
		out[i] = predictive.FeatureImportance{Feature: f.Name, Importance: w}
		total += w
	}
	for i := range out {
		out[i].Importance = columns.Round(out[i].Importance/total, metricDecimals)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}
