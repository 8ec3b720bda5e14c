package container

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"autoinsight/adapters/datareadiness"
	"autoinsight/adapters/datareadiness/cleaner"
	"autoinsight/adapters/excel"
	"autoinsight/adapters/modeling"
	"autoinsight/adapters/postgres"
	"autoinsight/adapters/prescriptive"
	"autoinsight/adapters/rng"
	"autoinsight/adapters/stats/stages"
	"autoinsight/app"
	"autoinsight/internal"
	"autoinsight/internal/config"
	"autoinsight/internal/observability"
	"autoinsight/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB     *sqlx.DB
	Tracer *observability.TracerProvider

	// Adapters
	Reader  ports.DatasetReader
	Reports ports.ReportRepository

	// Application
	Runner   *app.StageRunner
	Analysis *app.AnalysisService
}

// New wires the pipeline from cfg. The report store is connected only when
// a database URL is configured.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format),
	}

	tp, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	c.Tracer = tp

	if cfg.Database.Enabled() {
		if err := c.InitWithDatabase(ctx); err != nil {
			_ = tp.Shutdown(ctx)
			return nil, err
		}
	}

	c.Reader = excel.NewDataReader(excel.DefaultReaderConfig(), c.Logger)
	c.Runner = app.NewStageRunner(app.RetryPolicyFrom(cfg.Pipeline), c.Logger)
	c.Analysis = app.NewAnalysisService(Stages(cfg.Analysis), c.Runner, c.serviceOptions()...)

	c.Logger.Debug("container initialized (database: %t, tracing: %t)",
		cfg.Database.Enabled(), cfg.Tracing.OTLPEndpoint != "")
	return c, nil
}

// Stages builds the default pipeline for the analysis settings.
func Stages(cfg config.AnalysisConfig) app.Stages {
	return app.Stages{
		Cleaner:      cleaner.NewCleaner(),
		Classifier:   datareadiness.NewColumnClassifier(),
		Descriptive:  stages.NewProfileStage(),
		Diagnostic:   stages.NewPairwiseStageWith(cfg.CorrelationThreshold, cfg.MaxCorrelationPairs),
		Predictive:   modeling.NewBaselineModeler(rng.NewSeededRNG(), modeling.WithSeed(cfg.Seed)),
		Prescriptive: prescriptive.NewAdvisor(),
	}
}

func (c *Container) serviceOptions() []app.ServiceOption {
	opts := []app.ServiceOption{
		app.WithLogger(c.Logger),
		app.WithRunSeed(c.Config.Analysis.Seed),
	}
	if c.Reports != nil {
		opts = append(opts, app.WithReportRepository(c.Reports))
	}
	return opts
}

// InitWithDatabase connects the report store.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	db, err := sqlx.ConnectContext(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.Config.Database.Driver, err)
	}
	c.DB = db
	c.Reports = postgres.NewReportRepository(db, c.Logger)
	return nil
}

// Close releases the database and flushes spans.
func (c *Container) Close(ctx context.Context) error {
	var firstErr error
	if c.Tracer != nil {
		if err := c.Tracer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
