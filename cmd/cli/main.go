package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"nullsim/adapters/engine"
	"nullsim/adapters/memory"
	"nullsim/adapters/report"
	"nullsim/adapters/rng"
	"nullsim/adapters/tabular"
	"nullsim/app"
	"nullsim/domain/sample"
	"nullsim/internal"
	"nullsim/internal/config"
)

func main() {
	var (
		file       = flag.String("file", "", "csv or xlsx data file (required)")
		column     = flag.String("column", "", "column to test (required)")
		kind       = flag.String("kind", "numeric", "response kind: numeric or categorical")
		success    = flag.String("success", "", "success label for categorical columns")
		stat       = flag.String("stat", "mean", "statistic: mean, median or prop")
		direction  = flag.String("direction", "two-sided", "direction: less, greater or two-sided")
		nullValue  = flag.Float64("null", 0, "hypothesized parameter value (required)")
		replicates = flag.Int("replicates", 10000, "number of simulated resamples")
		mode       = flag.String("mode", "", "resample mode (default depends on statistic)")
		seed       = flag.Int64("seed", 42, "random seed")
		alpha      = flag.Float64("alpha", 0.05, "significance level")
	)
	flag.Parse()

	if *file == "" || *column == "" {
		flag.Usage()
		os.Exit(2)
	}

	reader := tabular.NewReader(*file)

	var smpl sample.Sample
	var err error
	switch sample.Kind(*kind) {
	case sample.KindNumeric:
		smpl, err = reader.NumericColumn(*column)
	case sample.KindCategorical:
		smpl, err = reader.CategoricalColumn(*column, *success)
	default:
		log.Fatalf("Unknown response kind %q", *kind)
	}
	if err != nil {
		log.Fatalf("Failed to read column %s: %v", *column, err)
	}

	req := app.TestRequest{
		Stat:       *stat,
		Direction:  *direction,
		NullValue:  *nullValue,
		Replicates: *replicates,
		Mode:       *mode,
		Seed:       *seed,
		Alpha:      *alpha,
	}
	if smpl.Kind() == sample.KindCategorical {
		req.Labels = smpl.Labels()
		req.SuccessLabel = smpl.SuccessLabel()
	} else {
		req.Values = smpl.Values()
	}

	logger := internal.NewLogger(internal.LogLevelWarn)
	service := app.NewTestService(
		engine.NewResamplingEngine(rng.NewStreamAdapter()),
		memory.NewRunRepository(),
		report.NewMarkdownRenderer(),
		config.EngineConfig{DefaultReplicates: 1000, MaxReplicates: 1000000, Workers: 4, Alpha: 0.05},
		logger,
	)

	record, err := service.Run(context.Background(), req)
	if err != nil {
		log.Fatalf("Test failed: %v", err)
	}

	md, err := service.ReportMarkdown(context.Background(), record.ID.String())
	if err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}
	fmt.Print(md)
}
