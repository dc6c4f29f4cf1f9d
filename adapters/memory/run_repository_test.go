package memory

import (
	"context"
	"testing"
	"time"

	"nullsim/domain/core"
	"nullsim/domain/hypothesis"
	"nullsim/ports"
)

func record(at time.Time) *ports.RunRecord {
	return &ports.RunRecord{
		ID:        core.NewRunID(),
		CreatedAt: core.NewTimestamp(at),
		Stat:      hypothesis.StatMean,
		Direction: hypothesis.DirectionTwoSided,
		Mode:      hypothesis.ModeBootstrapRecentered,
		PValue:    0.03,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	rec := record(time.Now())
	if err := repo.SaveRun(ctx, rec); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := repo.GetRun(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PValue != rec.PValue {
		t.Errorf("stored p-value %f, got %f", rec.PValue, got.PValue)
	}

	// Mutating the returned record must not affect the store
	got.PValue = 0.9
	again, _ := repo.GetRun(ctx, rec.ID)
	if again.PValue != rec.PValue {
		t.Error("repository should hand out copies")
	}
}

func TestGet_Unknown(t *testing.T) {
	repo := NewRunRepository()
	_, err := repo.GetRun(context.Background(), core.NewRunID())
	if !core.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		if err := repo.SaveRun(ctx, record(base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	records, err := repo.ListRuns(ctx, 3)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Error("records should be ordered newest first")
		}
	}
}
