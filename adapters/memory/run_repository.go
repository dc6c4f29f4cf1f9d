package memory

import (
	"context"
	"sort"
	"sync"

	"nullsim/domain/core"
	"nullsim/ports"
)

// RunRepository is an in-memory RunRepositoryPort used when no database is
// configured and by tests. Safe for concurrent use.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*ports.RunRecord
}

// NewRunRepository creates an empty in-memory run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[core.RunID]*ports.RunRecord)}
}

var _ ports.RunRepositoryPort = (*RunRepository)(nil)

// SaveRun stores a copy of the record
func (r *RunRepository) SaveRun(_ context.Context, record *ports.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.runs[record.ID] = &cp
	return nil
}

// GetRun fetches one run by ID
func (r *RunRepository) GetRun(_ context.Context, id core.RunID) (*ports.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.runs[id]
	if !ok {
		return nil, core.NewNotFoundError("run", id.String())
	}
	cp := *record
	return &cp, nil
}

// ListRuns returns the most recent runs, newest first
func (r *RunRepository) ListRuns(_ context.Context, limit int) ([]*ports.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*ports.RunRecord, 0, len(r.runs))
	for _, record := range r.runs {
		cp := *record
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
