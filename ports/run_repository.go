package ports

import (
	"context"

	"nullsim/domain/core"
	"nullsim/domain/hypothesis"
)

// RunRecord is a persisted hypothesis test run. The full null distribution is
// not stored; the summary and histogram carry what renderers need.
type RunRecord struct {
	ID         core.RunID                         `json:"id"`
	CreatedAt  core.Timestamp                     `json:"created_at"`
	Stat       hypothesis.StatKind                `json:"stat"`
	Direction  hypothesis.Direction               `json:"direction"`
	Mode       hypothesis.ResampleMode            `json:"resample_mode"`
	NullValue  float64                            `json:"null_value"`
	Replicates int                                `json:"replicates"`
	Seed       int64                              `json:"seed"`
	SampleSize int                                `json:"sample_size"`
	Observed   float64                            `json:"observed"`
	PValue     float64                            `json:"p_value"`
	Alpha      float64                            `json:"alpha"`
	Decision   hypothesis.Decision                `json:"decision"`
	Reason     hypothesis.DecisionReason          `json:"reason"`
	Summary    hypothesis.NullDistributionSummary `json:"summary"`
	Histogram  hypothesis.Histogram               `json:"histogram"`
}

// RunRepositoryPort persists completed test runs
type RunRepositoryPort interface {
	SaveRun(ctx context.Context, record *RunRecord) error
	GetRun(ctx context.Context, id core.RunID) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
}
