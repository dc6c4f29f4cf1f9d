package engine

import (
	"context"
	"sync"

	"nullsim/domain/hypothesis"
	"nullsim/domain/sample"
	"nullsim/ports"
)

// nullStreamName names the RNG stream feeding the null distribution. Replicate
// i always draws from substream i of this stream, so the distribution is
// bit-identical for a fixed seed regardless of worker count.
const nullStreamName = "null-distribution"

// ResamplingEngine implements simulation-based hypothesis testing: it builds a
// null distribution by resampling under the null hypothesis and evaluates the
// observed statistic's empirical p-value against it.
type ResamplingEngine struct {
	rngPort    ports.RNGPort
	numWorkers int
}

// NewResamplingEngine creates an engine with the default worker count
func NewResamplingEngine(rngPort ports.RNGPort) *ResamplingEngine {
	return &ResamplingEngine{
		rngPort:    rngPort,
		numWorkers: 4,
	}
}

// SetNumWorkers configures the replicate worker pool size (1-64)
func (e *ResamplingEngine) SetNumWorkers(num int) {
	if num < 1 {
		num = 1
	}
	if num > 64 {
		num = 64
	}
	e.numWorkers = num
}

var _ ports.EnginePort = (*ResamplingEngine)(nil)

// RunTest validates the spec, simulates the null distribution, and computes
// the observed statistic and its p-value.
func (e *ResamplingEngine) RunTest(ctx context.Context, spec hypothesis.TestSpec) (*hypothesis.TestResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	observed, err := observedStatistic(spec.Sample, spec.Stat)
	if err != nil {
		return nil, err
	}

	null, err := e.simulateNull(ctx, spec, observed)
	if err != nil {
		return nil, err
	}

	return &hypothesis.TestResult{
		Spec:             spec,
		NullDistribution: null,
		Observed:         observed,
		PValue:           pValue(null, observed, spec.Direction),
		Summary:          summarize(null),
	}, nil
}

// simulateNull generates the null distribution with a worker pool. Each
// replicate draws from its own seed substream and lands at its own index, so
// results do not depend on scheduling.
func (e *ResamplingEngine) simulateNull(ctx context.Context, spec hypothesis.TestSpec, observed float64) ([]float64, error) {
	null := make([]float64, spec.Replicates)

	numWorkers := e.numWorkers
	if spec.Replicates < 100 {
		numWorkers = 1
	}

	workChan := make(chan int, spec.Replicates)
	errChan := make(chan error, numWorkers)

	var values []float64
	if spec.Sample.Kind() == sample.KindNumeric {
		values = spec.Sample.Values()
	}
	n := spec.Sample.Len()

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				select {
				case <-ctx.Done():
					errChan <- ctx.Err()
					return
				default:
				}

				seed := e.rngPort.ReplicateSeed(nullStreamName, i, spec.Seed)

				var stat float64
				var err error
				switch spec.Mode {
				case hypothesis.ModeNullModelDraw:
					stat = nullModelReplicate(n, spec.NullValue, seed)
				default:
					stat, err = bootstrapReplicate(values, spec.Stat, observed, spec.NullValue, seed)
					if err != nil {
						errChan <- err
						return
					}
				}
				null[i] = stat
			}
		}()
	}

	for i := 0; i < spec.Replicates; i++ {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	select {
	case err := <-errChan:
		return nil, err
	default:
	}

	return null, nil
}
