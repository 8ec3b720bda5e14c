// Package postgres stores analysis reports through sqlx. The same queries run
// on PostgreSQL (lib/pq) and SQLite (go-sqlite3).
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"autoinsight/domain/core"
	"autoinsight/domain/run"
	"autoinsight/internal"
	apperrors "autoinsight/internal/errors"
	"autoinsight/ports"
)

// DefaultListLimit applies when ReportFilters.Limit is zero.
const DefaultListLimit = 50

// ReportRepository implements ports.ReportRepository.
type ReportRepository struct {
	db     *sqlx.DB
	logger *internal.Logger
}

// NewReportRepository creates a report repository. A nil logger uses DefaultLogger.
func NewReportRepository(db *sqlx.DB, logger *internal.Logger) *ReportRepository {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportRepository{db: db, logger: logger}
}

type reportRow struct {
	RunID        string    `db:"run_id"`
	DatasetHash  string    `db:"dataset_hash"`
	RowCount     int       `db:"row_count"`
	ColumnCount  int       `db:"column_count"`
	FailedStages int       `db:"failed_stages"`
	CodeVersion  string    `db:"code_version"`
	Report       string    `db:"report"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r reportRow) summary() ports.ReportSummary {
	return ports.ReportSummary{
		ID:           core.RunID(r.RunID),
		DatasetHash:  core.Hash(r.DatasetHash),
		Rows:         r.RowCount,
		Columns:      r.ColumnCount,
		FailedStages: r.FailedStages,
		CreatedAt:    core.NewTimestamp(r.CreatedAt),
	}
}

// Save inserts the report or replaces the stored copy for the same run.
func (r *ReportRepository) Save(ctx context.Context, report *run.Report) error {
	if report == nil || report.RunID == "" {
		return apperrors.InvalidInput("report must have a run id")
	}
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	createdAt := report.CompletedAt.Time()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := r.db.Rebind(`INSERT INTO analysis_reports (
		run_id, dataset_hash, row_count, column_count, failed_stages, code_version, report, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (run_id) DO UPDATE SET
		dataset_hash = excluded.dataset_hash,
		row_count = excluded.row_count,
		column_count = excluded.column_count,
		failed_stages = excluded.failed_stages,
		code_version = excluded.code_version,
		report = excluded.report,
		created_at = excluded.created_at`)

	_, err = r.db.ExecContext(ctx, query,
		report.RunID.String(),
		report.Manifest.DatasetHash.String(),
		report.Manifest.Rows,
		report.Manifest.Columns,
		len(report.Failed()),
		report.Manifest.CodeVersion,
		string(body),
		createdAt,
	)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("save report %s: %w", report.RunID, err))
	}
	r.logger.Debug("saved report %s (%d bytes)", report.RunID, len(body))
	return nil
}

// Get loads one report. A missing run wraps core.ErrReportNotFound.
func (r *ReportRepository) Get(ctx context.Context, id core.RunID) (*run.Report, error) {
	var row reportRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT
		run_id, dataset_hash, row_count, column_count, failed_stages, code_version, report, created_at
	FROM analysis_reports WHERE run_id = ?`), id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WithCode(apperrors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrReportNotFound, id))
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("get report %s: %w", id, err))
	}

	var report run.Report
	if err := json.Unmarshal([]byte(row.Report), &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &report, nil
}

// List returns summaries newest first.
func (r *ReportRepository) List(ctx context.Context, filters ports.ReportFilters) ([]ports.ReportSummary, error) {
	var (
		where []string
		args  []any
	)
	if filters.DatasetHash != "" {
		where = append(where, "dataset_hash = ?")
		args = append(args, filters.DatasetHash.String())
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT run_id, dataset_hash, row_count, column_count, failed_stages, code_version, report, created_at
	FROM analysis_reports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, run_id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("list reports: %w", err))
	}

	out := make([]ports.ReportSummary, len(rows))
	for i, row := range rows {
		out[i] = row.summary()
	}
	return out, nil
}

// Delete removes a stored report.
func (r *ReportRepository) Delete(ctx context.Context, id core.RunID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM analysis_reports WHERE run_id = ?"), id.String())
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, fmt.Errorf("delete report %s: %w", id, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.WithCode(apperrors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrReportNotFound, id))
	}
	return nil
}
