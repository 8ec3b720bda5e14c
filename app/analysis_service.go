package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"autoinsight/domain/core"
	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/domain/prescriptive"
	"autoinsight/domain/run"
	"autoinsight/domain/stage"
	"autoinsight/domain/stats"
	"autoinsight/internal"
	apperrors "autoinsight/internal/errors"
	"autoinsight/internal/observability"
	"autoinsight/ports"
)

// CodeVersion is recorded in every run manifest.
const CodeVersion = "0.3.0"

// Stages groups the pipeline implementations.
type Stages struct {
	Cleaner      ports.CleanerPort
	Classifier   ports.ClassifierPort
	Descriptive  ports.DescriptivePort
	Diagnostic   ports.DiagnosticPort
	Predictive   ports.PredictivePort
	Prescriptive ports.PrescriptivePort
}

// AnalysisService runs the pipeline for one dataset per call. Calls share no
// state and may run concurrently.
type AnalysisService struct {
	stages      Stages
	runner      *StageRunner
	reports     ports.ReportRepository
	logger      *internal.Logger
	seed        int64
	codeVersion string
}

// ServiceOption configures an AnalysisService.
type ServiceOption func(*AnalysisService)

// WithReportRepository saves every finished report.
func WithReportRepository(repo ports.ReportRepository) ServiceOption {
	return func(s *AnalysisService) { s.reports = repo }
}

// WithRunSeed records a fixed seed in the manifest. Zero derives it from the
// cleaned dataset, matching the modeler.
func WithRunSeed(seed int64) ServiceOption {
	return func(s *AnalysisService) { s.seed = seed }
}

func WithLogger(logger *internal.Logger) ServiceOption {
	return func(s *AnalysisService) { s.logger = logger }
}

// NewAnalysisService creates the orchestrator.
func NewAnalysisService(stages Stages, runner *StageRunner, opts ...ServiceOption) *AnalysisService {
	s := &AnalysisService{
		stages:      stages,
		runner:      runner,
		logger:      internal.DefaultLogger,
		codeVersion: CodeVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze cleans, classifies, runs descriptive, diagnostic and predictive
// concurrently, then builds recommendations. Failures of cleaning or
// classification stop the run: the partial report is returned together with
// the error. Failures of later stages are recorded in the report only.
func (s *AnalysisService) Analyze(ctx context.Context, ds *dataset.Dataset) (*run.Report, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("analysis requires a dataset")
	}

	session := run.NewSession(core.NewRunID(), ds, s.seed)
	log := s.logger.With("run_id", session.ID().String())
	ctx, span := observability.StartRunSpan(ctx, session.ID().String(), ds.NumRows(), ds.NumCols())
	defer span.End()

	log.Info("analysis started: %d rows, %d columns", ds.NumRows(), ds.NumCols())

	if err := s.runSequential(ctx, session); err != nil {
		observability.RecordError(span, err)
		report := s.finish(session)
		return report, err
	}

	s.runIndependent(ctx, session)
	s.runPrescriptive(ctx, session)

	report := s.finish(session)
	log.Info("analysis finished: %d stages, %d failed", len(report.Stages), len(report.Failed()))

	if s.reports != nil {
		if err := s.reports.Save(ctx, report); err != nil {
			observability.RecordError(span, err)
			return report, apperrors.Wrapf(err, "save report %s", report.RunID)
		}
	}
	return report, nil
}

// runSequential runs cleaning then classification. Downstream stages are
// marked skipped when either fails.
func (s *AnalysisService) runSequential(ctx context.Context, session *run.Session) error {
	raw := session.Raw()
	_, err := record(ctx, s, session, stage.StageCleaning,
		func(ctx context.Context) (*cleaning.CleaningResult, error) {
			return s.stages.Cleaner.Clean(ctx, raw)
		}, nil, session.SetCleaning)
	if err != nil {
		s.skipFrom(session, stage.StageClassification)
		return err
	}

	data := session.Data()
	_, err = record(ctx, s, session, stage.StageClassification,
		func(ctx context.Context) (profiling.Profiles, error) {
			return s.stages.Classifier.ClassifyColumns(ctx, data)
		}, noProfiles, session.SetProfiles)
	if err != nil {
		s.skipFrom(session, stage.StageDescriptive)
		return err
	}
	return nil
}

// runIndependent runs the three stages with no mutual dependency. A failure
// in one never cancels the others.
func (s *AnalysisService) runIndependent(ctx context.Context, session *run.Session) {
	data, profiles := session.Data(), session.Profiles()
	var g errgroup.Group

	g.Go(func() error {
		_, _ = record(ctx, s, session, stage.StageDescriptive,
			func(ctx context.Context) (*stats.DescriptiveResult, error) {
				return s.stages.Descriptive.ComputeDescriptive(ctx, data, profiles)
			}, func(res *stats.DescriptiveResult) bool {
				return res == nil || (len(res.Numeric) == 0 && len(res.Categorical) == 0)
			}, session.SetDescriptive)
		return nil
	})
	g.Go(func() error {
		_, _ = record(ctx, s, session, stage.StageDiagnostic,
			func(ctx context.Context) (*stats.DiagnosticResult, error) {
				return s.stages.Diagnostic.ComputeDiagnostic(ctx, data, profiles)
			}, func(res *stats.DiagnosticResult) bool {
				return res == nil || len(res.Multicollinearity) == 0
			}, session.SetDiagnostic)
		return nil
	})
	g.Go(func() error {
		_, _ = record(ctx, s, session, stage.StagePredictive,
			func(ctx context.Context) (*predictive.PredictiveResult, error) {
				return s.stages.Predictive.TrainBaseline(ctx, data, profiles)
			}, func(res *predictive.PredictiveResult) bool {
				return res == nil
			}, session.SetPredictive)
		return nil
	})
	// the closures never return an error
	_ = g.Wait()
}

// runPrescriptive consumes whatever cleaning, diagnostic and predictive
// produced.
func (s *AnalysisService) runPrescriptive(ctx context.Context, session *run.Session) {
	data, profiles := session.Data(), session.Profiles()
	in := prescriptive.Inputs{
		Cleaning:   session.Cleaning(),
		Predictive: session.Predictive(),
		Diagnostic: session.Diagnostic(),
	}
	_, _ = record(ctx, s, session, stage.StagePrescriptive,
		func(ctx context.Context) (*prescriptive.PrescriptiveResult, error) {
			return s.stages.Prescriptive.GeneratePrescriptive(ctx, data, profiles, in)
		}, nil, session.SetPrescriptive)
}

// record runs one stage and records its status. store sees the value only
// after the runner reports success, so an abandoned attempt never reaches the
// session.
func record[T any](ctx context.Context, s *AnalysisService, session *run.Session, name stage.StageName,
	fn func(ctx context.Context) (T, error), empty func(T) bool, store func(T)) (T, error) {
	res, st, err := RunStage(ctx, s.runner, name, fn, empty)
	if err == nil {
		store(res)
	}
	session.RecordStage(st)
	return res, err
}

func noProfiles(p profiling.Profiles) bool { return len(p) == 0 }

func (s *AnalysisService) skipFrom(session *run.Session, from stage.StageName) {
	skipping := false
	for _, name := range stage.DefaultPlan().Stages {
		if name == from {
			skipping = true
		}
		if skipping {
			session.RecordStage(stage.StageStatus{Stage: name, Status: stage.StatusSkipped})
		}
	}
}

func (s *AnalysisService) finish(session *run.Session) *run.Report {
	seed := session.Seed()
	if seed == 0 {
		if data := session.Data(); data != nil {
			seed = data.Fingerprint().Seed()
		}
	}
	raw := session.Raw()
	manifest := run.NewRunManifest(
		session.ID(),
		raw.Fingerprint(),
		raw.NumRows(),
		raw.NumCols(),
		stage.DefaultPlan(),
		seed,
		s.codeVersion,
	)
	return session.Report(manifest)
}

// Classify runs the classifier alone.
func (s *AnalysisService) Classify(ctx context.Context, ds *dataset.Dataset) (profiling.Profiles, error) {
	if ds == nil {
		return nil, apperrors.InvalidInput("classification requires a dataset")
	}
	profiles, _, err := RunStage(ctx, s.runner, stage.StageClassification,
		func(ctx context.Context) (profiling.Profiles, error) {
			return s.stages.Classifier.ClassifyColumns(ctx, ds)
		}, noProfiles)
	return profiles, err
}

// Clean runs the cleaner alone.
func (s *AnalysisService) Clean(ctx context.Context, ds *dataset.Dataset) (*cleaning.CleaningResult, error) {
	res, _, err := RunStage(ctx, s.runner, stage.StageCleaning,
		func(ctx context.Context) (*cleaning.CleaningResult, error) {
			return s.stages.Cleaner.Clean(ctx, ds)
		}, nil)
	return res, err
}

// Report loads a stored report.
func (s *AnalysisService) Report(ctx context.Context, id core.RunID) (*run.Report, error) {
	if s.reports == nil {
		return nil, apperrors.ConfigInvalid("no report store configured")
	}
	return s.reports.Get(ctx, id)
}

// Reports lists stored reports.
func (s *AnalysisService) Reports(ctx context.Context, filters ports.ReportFilters) ([]ports.ReportSummary, error) {
	if s.reports == nil {
		return nil, apperrors.ConfigInvalid("no report store configured")
	}
	return s.reports.List(ctx, filters)
}
