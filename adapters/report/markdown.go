package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gonum.org/v1/gonum/stat/distuv"

	"nullsim/domain/hypothesis"
	"nullsim/ports"
)

// barWidth is the widest histogram bar in characters
const barWidth = 40

// MarkdownRenderer renders completed runs as markdown reports, with HTML
// conversion for the web surface.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a new markdown report renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

var _ ports.ReportPort = (*MarkdownRenderer)(nil)

// RenderMarkdown produces a markdown report for the run: configuration table,
// null-distribution histogram with the extremity region shaded, and the
// decision at the run's significance level.
func (r *MarkdownRenderer) RenderMarkdown(record *ports.RunRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Hypothesis Test Report\n\n")
	fmt.Fprintf(&b, "Run `%s` — %s statistic, %s, %s\n\n", record.ID, record.Stat, record.Direction, record.Mode)

	fmt.Fprintf(&b, "| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Null value | %g |\n", record.NullValue)
	fmt.Fprintf(&b, "| Sample size | %d |\n", record.SampleSize)
	fmt.Fprintf(&b, "| Replicates | %d |\n", record.Replicates)
	fmt.Fprintf(&b, "| Seed | %d |\n", record.Seed)
	fmt.Fprintf(&b, "| Observed statistic | %.6g |\n", record.Observed)
	fmt.Fprintf(&b, "| P-value | %.4g |\n", record.PValue)
	fmt.Fprintf(&b, "| Significance level | %g |\n\n", record.Alpha)

	fmt.Fprintf(&b, "## Null distribution\n\n")
	fmt.Fprintf(&b, "Mean %.6g, std dev %.4g, range [%.6g, %.6g], central 95%% [%.6g, %.6g].\n\n",
		record.Summary.Mean, record.Summary.StdDev, record.Summary.Min, record.Summary.Max,
		record.Summary.Percentile025, record.Summary.Percentile975)

	r.writeHistogram(&b, record.Histogram)

	fmt.Fprintf(&b, "## Decision\n\n")
	fmt.Fprintf(&b, "At α = %g: **%s** (%s).\n\n", record.Alpha,
		decisionText(record.Decision), reasonText(record.Reason))

	if p, ok := normalApproxPValue(record); ok {
		fmt.Fprintf(&b, "Normal approximation cross-check: p ≈ %.4g.\n", p)
	}

	return b.String()
}

// RenderHTML converts the markdown report to HTML
func (r *MarkdownRenderer) RenderHTML(record *ports.RunRecord) []byte {
	md := r.RenderMarkdown(record)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// writeHistogram draws the null distribution as a fenced bar chart. Bins in
// the extremity region carry a trailing asterisk.
func (r *MarkdownRenderer) writeHistogram(b *strings.Builder, h hypothesis.Histogram) {
	if len(h.Bins) == 0 {
		return
	}

	maxCount := 0
	for _, bin := range h.Bins {
		if bin.Count > maxCount {
			maxCount = bin.Count
		}
	}
	if maxCount == 0 {
		return
	}

	fmt.Fprintf(b, "```\n")
	for _, bin := range h.Bins {
		bar := strings.Repeat("█", bin.Count*barWidth/maxCount)
		mark := ""
		if bin.Extreme {
			mark = " *"
		}
		fmt.Fprintf(b, "[%10.4g, %10.4g) %-*s %d%s\n", bin.Lo, bin.Hi, barWidth, bar, bin.Count, mark)
	}
	fmt.Fprintf(b, "```\n\n")
	fmt.Fprintf(b, "Bins marked `*` are at least as extreme as the observed statistic %.6g.\n\n", h.Observed)
}

// normalApproxPValue computes the p-value a normal fit to the null
// distribution would give, as a sanity cross-check for the empirical one. Not
// available when the null distribution is degenerate.
func normalApproxPValue(record *ports.RunRecord) (float64, bool) {
	if record.Summary.StdDev == 0 {
		return 0, false
	}
	normal := distuv.Normal{Mu: record.Summary.Mean, Sigma: record.Summary.StdDev}
	lower := normal.CDF(record.Observed)
	upper := 1 - lower

	switch record.Direction {
	case hypothesis.DirectionLess:
		return lower, true
	case hypothesis.DirectionGreater:
		return upper, true
	default:
		smaller := lower
		if upper < smaller {
			smaller = upper
		}
		p := 2 * smaller
		if p > 1 {
			p = 1
		}
		return p, true
	}
}

func decisionText(d hypothesis.Decision) string {
	if d == hypothesis.DecisionRejectNull {
		return "reject the null hypothesis"
	}
	return "fail to reject the null hypothesis"
}

func reasonText(r hypothesis.DecisionReason) string {
	switch r {
	case hypothesis.ReasonStrongEvidence:
		return "strong evidence against the null"
	case hypothesis.ReasonMarginalEvidence:
		return "evidence is marginal"
	default:
		return "observed statistic is consistent with the null"
	}
}
