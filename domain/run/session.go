package run

import (
	"sync"

	"autoinsight/domain/core"
	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/dataset"
	"autoinsight/domain/predictive"
	"autoinsight/domain/prescriptive"
	"autoinsight/domain/stage"
	"autoinsight/domain/stats"
)

// Session is the per-run context handed between the orchestrator and the
// stages. Each field has its own accessor pair; all are safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	id        core.RunID
	raw       *dataset.Dataset
	seed      int64
	startedAt core.Timestamp

	cleaning     *cleaning.CleaningResult
	profiles     profiling.Profiles
	descriptive  *stats.DescriptiveResult
	diagnostic   *stats.DiagnosticResult
	predictive   *predictive.PredictiveResult
	prescriptive *prescriptive.PrescriptiveResult

	statuses map[stage.StageName]stage.StageStatus
	order    []stage.StageName
}

// NewSession starts a session over raw input.
func NewSession(id core.RunID, raw *dataset.Dataset, seed int64) *Session {
	return &Session{
		id:        id,
		raw:       raw,
		seed:      seed,
		startedAt: core.Now(),
		statuses:  make(map[stage.StageName]stage.StageStatus),
	}
}

func (s *Session) ID() core.RunID            { return s.id }
func (s *Session) Raw() *dataset.Dataset     { return s.raw }
func (s *Session) Seed() int64               { return s.seed }
func (s *Session) StartedAt() core.Timestamp { return s.startedAt }

func (s *Session) Cleaning() *cleaning.CleaningResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleaning
}

func (s *Session) SetCleaning(r *cleaning.CleaningResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleaning = r
}

// Data returns the cleaned dataset, or nil before cleaning finished.
func (s *Session) Data() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cleaning == nil {
		return nil
	}
	return s.cleaning.CleanedData
}

func (s *Session) Profiles() profiling.Profiles {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles
}

func (s *Session) SetProfiles(p profiling.Profiles) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = p
}

func (s *Session) Descriptive() *stats.DescriptiveResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descriptive
}

func (s *Session) SetDescriptive(r *stats.DescriptiveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptive = r
}

func (s *Session) Diagnostic() *stats.DiagnosticResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagnostic
}

func (s *Session) SetDiagnostic(r *stats.DiagnosticResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostic = r
}

func (s *Session) Predictive() *predictive.PredictiveResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.predictive
}

func (s *Session) SetPredictive(r *predictive.PredictiveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictive = r
}

func (s *Session) Prescriptive() *prescriptive.PrescriptiveResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prescriptive
}

func (s *Session) SetPrescriptive(r *prescriptive.PrescriptiveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prescriptive = r
}

// RecordStage stores the final status of a stage. A stage recorded twice
// keeps its first position in the report.
func (s *Session) RecordStage(st stage.StageStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.statuses[st.Stage]; !ok {
		s.order = append(s.order, st.Stage)
	}
	s.statuses[st.Stage] = st
}

// StageStatus returns the recorded status for a stage.
func (s *Session) StageStatus(name stage.StageName) (stage.StageStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[name]
	return st, ok
}

// Report snapshots the session. Stage statuses follow plan order, so the
// output does not depend on which concurrent stage finished first.
func (s *Session) Report(manifest RunManifest) *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stages := make([]stage.StageStatus, 0, len(s.order))
	seen := make(map[stage.StageName]bool, len(s.order))
	for _, name := range manifest.StagePlan.Stages {
		if st, ok := s.statuses[name]; ok {
			stages = append(stages, st)
			seen[name] = true
		}
	}
	for _, name := range s.order {
		if !seen[name] {
			stages = append(stages, s.statuses[name])
		}
	}

	return &Report{
		RunID:        s.id,
		Manifest:     manifest,
		Profiles:     s.profiles,
		Cleaning:     s.cleaning,
		Descriptive:  s.descriptive,
		Diagnostic:   s.diagnostic,
		Predictive:   s.predictive,
		Prescriptive: s.prescriptive,
		Stages:       stages,
		StartedAt:    s.startedAt,
		CompletedAt:  core.Now(),
	}
}
