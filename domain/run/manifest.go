package run

import (
	"autoinsight/domain/core"
	"autoinsight/domain/stage"
)

// RunManifest records the inputs that determine a run's output.
// Two runs with the same fingerprint produce the same report body.
type RunManifest struct {
	RunID       core.RunID      `json:"run_id" yaml:"run_id"`
	DatasetHash core.Hash       `json:"dataset_hash" yaml:"dataset_hash"`
	Rows        int             `json:"rows" yaml:"rows"`
	Columns     int             `json:"columns" yaml:"columns"`
	StagePlan   stage.StagePlan `json:"stage_plan" yaml:"stage_plan"`
	Seed        int64           `json:"seed" yaml:"seed"`
	CodeVersion string          `json:"code_version" yaml:"code_version"`
	Fingerprint RunFingerprint  `json:"fingerprint" yaml:"fingerprint"`
	CreatedAt   core.Timestamp  `json:"created_at" yaml:"created_at"`
}

// NewRunManifest creates a run manifest for one dataset.
func NewRunManifest(
	runID core.RunID,
	datasetHash core.Hash,
	rows, columns int,
	plan stage.StagePlan,
	seed int64,
	codeVersion string,
) RunManifest {
	return RunManifest{
		RunID:       runID,
		DatasetHash: datasetHash,
		Rows:        rows,
		Columns:     columns,
		StagePlan:   plan,
		Seed:        seed,
		CodeVersion: codeVersion,
		Fingerprint: NewRunFingerprint(datasetHash, plan.Hash(), seed, codeVersion),
		CreatedAt:   core.Now(),
	}
}

// Validate checks if the manifest is complete
func (r RunManifest) Validate() error {
	if core.ID(r.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if r.DatasetHash.IsEmpty() {
		return core.NewValidationError("run_manifest", "dataset_hash cannot be empty")
	}
	if len(r.StagePlan.Stages) == 0 {
		return core.NewValidationError("run_manifest", "stage plan cannot be empty")
	}
	if r.Fingerprint.Fingerprint.IsEmpty() {
		return core.NewValidationError("run_manifest", "fingerprint cannot be empty")
	}
	return nil
}
