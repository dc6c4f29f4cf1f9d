package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"nullsim/domain/core"
	"nullsim/domain/hypothesis"
	"nullsim/domain/sample"
	"nullsim/internal"
	"nullsim/internal/config"
	"nullsim/ports"
)

// histogramBins is the bucket count for persisted null-distribution histograms
const histogramBins = 20

// TestRequest is the caller-facing configuration of one hypothesis test.
// Exactly one of Values or Labels must be set. Zero-valued optional fields
// fall back to configured defaults.
type TestRequest struct {
	Values       []float64 `json:"values,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	SuccessLabel string    `json:"success_label,omitempty"`
	Stat         string    `json:"stat"`
	Direction    string    `json:"direction"`
	NullValue    float64   `json:"null_value"`
	Replicates   int       `json:"replicates,omitempty"`
	Mode         string    `json:"resample_mode,omitempty"`
	Seed         int64     `json:"seed"`
	Alpha        float64   `json:"alpha,omitempty"`
}

// TestService orchestrates hypothesis test runs: it builds validated specs
// from requests, drives the engine, applies the significance decision, and
// persists the outcome.
type TestService struct {
	engine   ports.EnginePort
	runs     ports.RunRepositoryPort
	renderer ports.ReportPort
	cfg      config.EngineConfig
	logger   *internal.Logger
	batchSem *semaphore.Weighted
}

// NewTestService creates a new test service
func NewTestService(engine ports.EnginePort, runs ports.RunRepositoryPort, renderer ports.ReportPort, cfg config.EngineConfig, logger *internal.Logger) *TestService {
	return &TestService{
		engine:   engine,
		runs:     runs,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
		batchSem: semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

// Run executes one hypothesis test and persists the outcome
func (s *TestService) Run(ctx context.Context, req TestRequest) (*ports.RunRecord, error) {
	spec, alpha, err := s.buildSpec(req)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.RunTest(ctx, spec)
	if err != nil {
		return nil, err
	}

	decision, reason := hypothesis.Decide(result.PValue, alpha)
	record := &ports.RunRecord{
		ID:         core.NewRunID(),
		CreatedAt:  core.Now(),
		Stat:       spec.Stat,
		Direction:  spec.Direction,
		Mode:       spec.Mode,
		NullValue:  spec.NullValue,
		Replicates: spec.Replicates,
		Seed:       spec.Seed,
		SampleSize: spec.Sample.Len(),
		Observed:   result.Observed,
		PValue:     result.PValue,
		Alpha:      alpha,
		Decision:   decision,
		Reason:     reason,
		Summary:    result.Summary,
		Histogram:  hypothesis.NewHistogram(result.NullDistribution, histogramBins, result.Observed, spec.Direction),
	}

	if err := s.runs.SaveRun(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	s.logger.Info("run %s: %s test, n=%d, observed=%.6g, p=%.4g, %s",
		record.ID, record.Stat, record.SampleSize, record.Observed, record.PValue, record.Decision)
	return record, nil
}

// RunBatch executes several tests with bounded concurrency. Results keep
// request order; the first failure aborts the batch.
func (s *TestService) RunBatch(ctx context.Context, reqs []TestRequest) ([]*ports.RunRecord, error) {
	records := make([]*ports.RunRecord, len(reqs))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, req := range reqs {
		if err := s.batchSem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, req TestRequest) {
			defer wg.Done()
			defer s.batchSem.Release(1)

			record, err := s.Run(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("batch item %d: %w", i, err)
				return
			}
			records[i] = record
		}(i, req)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return records, nil
}

// Get fetches a persisted run by ID
func (s *TestService) Get(ctx context.Context, id string) (*ports.RunRecord, error) {
	runID, err := core.ParseRunID(id)
	if err != nil {
		return nil, core.NewInvalidInputError("run_id", err.Error())
	}
	return s.runs.GetRun(ctx, runID)
}

// List returns recent runs, newest first
func (s *TestService) List(ctx context.Context, limit int) ([]*ports.RunRecord, error) {
	return s.runs.ListRuns(ctx, limit)
}

// ReportMarkdown renders the markdown report for a persisted run
func (s *TestService) ReportMarkdown(ctx context.Context, id string) (string, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderMarkdown(record), nil
}

// ReportHTML renders the HTML report for a persisted run
func (s *TestService) ReportHTML(ctx context.Context, id string) ([]byte, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderHTML(record), nil
}

// buildSpec turns a request into a validated TestSpec plus the effective
// significance level
func (s *TestService) buildSpec(req TestRequest) (hypothesis.TestSpec, float64, error) {
	var zero hypothesis.TestSpec

	stat, err := hypothesis.ParseStatKind(req.Stat)
	if err != nil {
		return zero, 0, err
	}
	direction, err := hypothesis.ParseDirection(req.Direction)
	if err != nil {
		return zero, 0, err
	}

	mode := hypothesis.DefaultModeFor(stat)
	if req.Mode != "" {
		mode, err = hypothesis.ParseResampleMode(req.Mode)
		if err != nil {
			return zero, 0, err
		}
	}

	if len(req.Values) > 0 && len(req.Labels) > 0 {
		return zero, 0, core.NewInvalidInputError("sample", "provide either values or labels, not both")
	}
	var smpl sample.Sample
	if len(req.Labels) > 0 {
		smpl = sample.Categorical(req.Labels, req.SuccessLabel)
	} else {
		smpl = sample.Numeric(req.Values)
	}

	replicates := req.Replicates
	if replicates == 0 {
		replicates = s.cfg.DefaultReplicates
	}
	if replicates > s.cfg.MaxReplicates {
		return zero, 0, core.NewInvalidInputError("replicate_count",
			fmt.Sprintf("must not exceed %d", s.cfg.MaxReplicates))
	}

	alpha := req.Alpha
	if alpha == 0 {
		alpha = s.cfg.Alpha
	}
	if alpha <= 0 || alpha >= 1 {
		return zero, 0, core.NewInvalidInputError("alpha", "must lie strictly between 0 and 1")
	}

	spec := hypothesis.TestSpec{
		Sample:     smpl,
		NullValue:  req.NullValue,
		Stat:       stat,
		Direction:  direction,
		Replicates: replicates,
		Mode:       mode,
		Seed:       req.Seed,
	}
	if err := spec.Validate(); err != nil {
		return zero, 0, err
	}
	return spec, alpha, nil
}
