package ports

import (
	"context"

	"autoinsight/domain/core"
	"autoinsight/domain/run"
)

// ReportRepository persists finished analysis reports.
type ReportRepository interface {
	Save(ctx context.Context, report *run.Report) error
	Get(ctx context.Context, id core.RunID) (*run.Report, error)
	List(ctx context.Context, filters ReportFilters) ([]ReportSummary, error)
}

// ReportFilters for listing reports
type ReportFilters struct {
	DatasetHash core.Hash
	Limit       int
	Offset      int
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID           core.RunID     `json:"id" yaml:"id"`
	DatasetHash  core.Hash      `json:"dataset_hash" yaml:"dataset_hash"`
	Rows         int            `json:"rows" yaml:"rows"`
	Columns      int            `json:"columns" yaml:"columns"`
	FailedStages int            `json:"failed_stages" yaml:"failed_stages"`
	CreatedAt    core.Timestamp `json:"created_at" yaml:"created_at"`
}
