package ports

import (
	"nullsim/domain/sample"
)

// DatasetReaderPort supplies raw samples from a tabular data source. The
// engine never reads files itself; any sequence-of-records source that can
// expose a numeric or categorical column satisfies this port.
type DatasetReaderPort interface {
	// NumericColumn extracts the named column as a numeric sample
	NumericColumn(column string) (sample.Sample, error)

	// CategoricalColumn extracts the named column as a categorical sample
	// with the given success label
	CategoricalColumn(column, successLabel string) (sample.Sample, error)

	// Columns lists the column names available in the source
	Columns() []string
}
