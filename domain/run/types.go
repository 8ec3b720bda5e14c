package run

import (
	"crypto/sha256"
	"fmt"

	"autoinsight/domain/core"
	"autoinsight/domain/datareadiness/cleaning"
	"autoinsight/domain/datareadiness/profiling"
	"autoinsight/domain/predictive"
	"autoinsight/domain/prescriptive"
	"autoinsight/domain/stage"
	"autoinsight/domain/stats"
)

// RunFingerprint ensures deterministic replay
type RunFingerprint struct {
	DatasetHash   core.Hash `json:"dataset_hash" yaml:"dataset_hash"`
	StagePlanHash core.Hash `json:"stage_plan_hash" yaml:"stage_plan_hash"`
	Seed          int64     `json:"seed" yaml:"seed"`
	CodeVersion   string    `json:"code_version" yaml:"code_version"`
	Fingerprint   core.Hash `json:"fingerprint" yaml:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from determinism parameters
func NewRunFingerprint(datasetHash, stagePlanHash core.Hash, seed int64, codeVersion string) RunFingerprint {
	data := fmt.Sprintf("dataset:%s|stage_plan:%s|seed:%d|code:%s",
		datasetHash, stagePlanHash, seed, codeVersion)
	sum := sha256.Sum256([]byte(data))

	return RunFingerprint{
		DatasetHash:   datasetHash,
		StagePlanHash: stagePlanHash,
		Seed:          seed,
		CodeVersion:   codeVersion,
		Fingerprint:   core.Hash(fmt.Sprintf("%x", sum)),
	}
}

// Report is everything one analysis session produced.
type Report struct {
	RunID        core.RunID                       `json:"run_id" yaml:"run_id"`
	Manifest     RunManifest                      `json:"manifest" yaml:"manifest"`
	Profiles     profiling.Profiles               `json:"profiles" yaml:"profiles"`
	Cleaning     *cleaning.CleaningResult         `json:"cleaning,omitempty" yaml:"cleaning,omitempty"`
	Descriptive  *stats.DescriptiveResult         `json:"descriptive,omitempty" yaml:"descriptive,omitempty"`
	Diagnostic   *stats.DiagnosticResult          `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Predictive   *predictive.PredictiveResult     `json:"predictive,omitempty" yaml:"predictive,omitempty"`
	Prescriptive *prescriptive.PrescriptiveResult `json:"prescriptive,omitempty" yaml:"prescriptive,omitempty"`
	Stages       []stage.StageStatus              `json:"stages" yaml:"stages"`
	StartedAt    core.Timestamp                   `json:"started_at" yaml:"started_at"`
	CompletedAt  core.Timestamp                   `json:"completed_at" yaml:"completed_at"`
}

// Failed returns the stages that did not finish OK.
func (r *Report) Failed() []stage.StageStatus {
	var out []stage.StageStatus
	for _, s := range r.Stages {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Stage returns the recorded status for a stage.
func (r *Report) Stage(name stage.StageName) (stage.StageStatus, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return stage.StageStatus{}, false
}
