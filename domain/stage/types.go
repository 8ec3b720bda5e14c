package stage

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"autoinsight/domain/core"
)

// StageName represents a named stage in the pipeline
type StageName string

// Pipeline stages in execution order.
const (
	StageCleaning       StageName = "cleaning"
	StageClassification StageName = "classification"
	StageDescriptive    StageName = "descriptive"
	StageDiagnostic     StageName = "diagnostic"
	StagePredictive     StageName = "predictive"
	StagePrescriptive   StageName = "prescriptive"
)

// Status is the terminal state of one stage.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	// StatusEmpty is a successful run that produced no result, e.g. no trainable model.
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StageStatus records how a stage ended.
type StageStatus struct {
	Stage      StageName `json:"stage" yaml:"stage"`
	Status     Status    `json:"status" yaml:"status"`
	Attempts   int       `json:"attempts" yaml:"attempts"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports succeeded or empty.
func (s StageStatus) OK() bool {
	return s.Status == StatusSucceeded || s.Status == StatusEmpty
}

// StagePlan is the ordered list of stages a run executes.
type StagePlan struct {
	Stages []StageName `json:"stages"`
}

// DefaultPlan returns every stage in pipeline order.
func DefaultPlan() StagePlan {
	return StagePlan{Stages: []StageName{
		StageCleaning,
		StageClassification,
		StageDescriptive,
		StageDiagnostic,
		StagePredictive,
		StagePrescriptive,
	}}
}

// Hash computes deterministic hash of the stage plan
func (sp StagePlan) Hash() core.Hash {
	data, err := json.Marshal(sp)
	if err != nil {
		return core.Hash(fmt.Sprintf("error-%v", err))
	}
	sum := sha256.Sum256(data)
	return core.Hash(fmt.Sprintf("%x", sum))
}

// Contains reports whether the plan includes a stage.
func (sp StagePlan) Contains(name StageName) bool {
	for _, s := range sp.Stages {
		if s == name {
			return true
		}
	}
	return false
}
