package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"nullsim/domain/core"
	"nullsim/domain/sample"
	"nullsim/ports"
)

// Reader extracts sample columns from Excel or CSV files. The file is read
// once on first access and cached; samples handed out are immutable copies.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"

	headers []string
	rows    [][]string
	loaded  bool
}

// NewReader creates a reader for the given file, dispatching on extension
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

var _ ports.DatasetReaderPort = (*Reader)(nil)

// Columns lists the column names available in the source
func (r *Reader) Columns() []string {
	if err := r.load(); err != nil {
		return nil
	}
	cp := make([]string, len(r.headers))
	copy(cp, r.headers)
	return cp
}

// NumericColumn extracts the named column as a numeric sample. Blank cells are
// skipped; any other unparseable cell fails the whole extraction rather than
// silently shrinking the sample.
func (r *Reader) NumericColumn(column string) (sample.Sample, error) {
	cells, err := r.columnCells(column)
	if err != nil {
		return sample.Sample{}, err
	}

	values := make([]float64, 0, len(cells))
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return sample.Sample{}, core.NewInvalidInputError("sample",
				fmt.Sprintf("column %s row %d: %q is not numeric", column, i+2, cell))
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return sample.Sample{}, core.ErrEmptySample
	}
	return sample.Numeric(values), nil
}

// CategoricalColumn extracts the named column as a categorical sample with the
// given success label
func (r *Reader) CategoricalColumn(column, successLabel string) (sample.Sample, error) {
	cells, err := r.columnCells(column)
	if err != nil {
		return sample.Sample{}, err
	}

	labels := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		labels = append(labels, strings.TrimSpace(cell))
	}
	if len(labels) == 0 {
		return sample.Sample{}, core.ErrEmptySample
	}
	return sample.Categorical(labels, successLabel), nil
}

// columnCells returns the raw cells of the named column, excluding the header
func (r *Reader) columnCells(column string) ([]string, error) {
	if err := r.load(); err != nil {
		return nil, err
	}

	idx := -1
	for i, h := range r.headers {
		if strings.EqualFold(h, column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, core.NewInvalidInputError("column",
			fmt.Sprintf("%q not found in %s (available: %s)", column, filepath.Base(r.filePath), strings.Join(r.headers, ", ")))
	}

	cells := make([]string, 0, len(r.rows))
	for _, row := range r.rows {
		if idx < len(row) {
			cells = append(cells, row[idx])
		} else {
			cells = append(cells, "")
		}
	}
	return cells, nil
}

// load reads the file into headers and rows, once
func (r *Reader) load() error {
	if r.loaded {
		return nil
	}

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return fmt.Errorf("data file not found: %s", r.filePath)
	}

	var err error
	switch r.fileType {
	case "csv":
		err = r.loadCSV()
	case "xlsx":
		err = r.loadExcel()
	default:
		return fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return err
	}

	r.loaded = true
	return nil
}

func (r *Reader) loadCSV() error {
	f, err := os.Open(r.filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV file: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("CSV file must have a header row and at least one data row")
	}

	r.headers = records[0]
	r.rows = records[1:]
	return nil
}

func (r *Reader) loadExcel() error {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("sheet %s must have a header row and at least one data row", sheets[0])
	}

	r.headers = rows[0]
	r.rows = rows[1:]
	return nil
}
