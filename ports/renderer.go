package ports

// ReportPort renders a completed run into a human-readable report document
type ReportPort interface {
	// RenderMarkdown produces a markdown report for the run
	RenderMarkdown(record *RunRecord) string

	// RenderHTML produces an HTML report for the run
	RenderHTML(record *RunRecord) []byte
}
