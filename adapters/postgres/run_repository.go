package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nullsim/domain/core"
	"nullsim/domain/hypothesis"
	"nullsim/ports"
)

// RunRepositoryImpl implements RunRepositoryPort for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepositoryPort {
	return &RunRepositoryImpl{db: db}
}

// InitSchema creates the test_runs table when it does not exist yet
func InitSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS test_runs (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			stat_kind TEXT NOT NULL,
			direction TEXT NOT NULL,
			resample_mode TEXT NOT NULL,
			null_value DOUBLE PRECISION NOT NULL,
			replicates INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			sample_size INTEGER NOT NULL,
			observed DOUBLE PRECISION NOT NULL,
			p_value DOUBLE PRECISION NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			decision TEXT NOT NULL,
			reason TEXT NOT NULL,
			summary JSONB NOT NULL,
			histogram JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create test_runs table: %w", err)
	}
	return nil
}

// SaveRun persists a completed test run
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, record *ports.RunRecord) error {
	summaryJSON, err := json.Marshal(record.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	histogramJSON, err := json.Marshal(record.Histogram)
	if err != nil {
		return fmt.Errorf("failed to marshal histogram: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO test_runs (
			id, created_at, stat_kind, direction, resample_mode, null_value,
			replicates, seed, sample_size, observed, p_value, alpha,
			decision, reason, summary, histogram
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			observed = EXCLUDED.observed,
			p_value = EXCLUDED.p_value,
			alpha = EXCLUDED.alpha,
			decision = EXCLUDED.decision,
			reason = EXCLUDED.reason,
			summary = EXCLUDED.summary,
			histogram = EXCLUDED.histogram`,
		record.ID.String(), record.CreatedAt.Time(), record.Stat, record.Direction,
		record.Mode, record.NullValue, record.Replicates, record.Seed,
		record.SampleSize, record.Observed, record.PValue, record.Alpha,
		record.Decision, record.Reason, summaryJSON, histogramJSON)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", record.ID, err)
	}
	return nil
}

// runRow maps a test_runs row for sqlx scanning
type runRow struct {
	ID         string    `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	StatKind   string    `db:"stat_kind"`
	Direction  string    `db:"direction"`
	Mode       string    `db:"resample_mode"`
	NullValue  float64   `db:"null_value"`
	Replicates int       `db:"replicates"`
	Seed       int64     `db:"seed"`
	SampleSize int       `db:"sample_size"`
	Observed   float64   `db:"observed"`
	PValue     float64   `db:"p_value"`
	Alpha      float64   `db:"alpha"`
	Decision   string    `db:"decision"`
	Reason     string    `db:"reason"`
	Summary    []byte    `db:"summary"`
	Histogram  []byte    `db:"histogram"`
}

func (row runRow) toRecord() (*ports.RunRecord, error) {
	record := &ports.RunRecord{
		ID:         core.RunID(row.ID),
		CreatedAt:  core.NewTimestamp(row.CreatedAt),
		Stat:       hypothesis.StatKind(row.StatKind),
		Direction:  hypothesis.Direction(row.Direction),
		Mode:       hypothesis.ResampleMode(row.Mode),
		NullValue:  row.NullValue,
		Replicates: row.Replicates,
		Seed:       row.Seed,
		SampleSize: row.SampleSize,
		Observed:   row.Observed,
		PValue:     row.PValue,
		Alpha:      row.Alpha,
		Decision:   hypothesis.Decision(row.Decision),
		Reason:     hypothesis.DecisionReason(row.Reason),
	}
	if err := json.Unmarshal(row.Summary, &record.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary for run %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Histogram, &record.Histogram); err != nil {
		return nil, fmt.Errorf("failed to unmarshal histogram for run %s: %w", row.ID, err)
	}
	return record, nil
}

// GetRun fetches one run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*ports.RunRecord, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM test_runs WHERE id = $1`, id.String())
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("run", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return row.toRecord()
}

// ListRuns returns the most recent runs, newest first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*ports.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []runRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM test_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	records := make([]*ports.RunRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
