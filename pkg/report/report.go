// Package report turns pipeline results into labelled tables and writes them as CSV.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"segmentgeometry/pkg/metrics"
	"segmentgeometry/pkg/pipeline"
)

// Table is a flattened run result. Cells of values that were not computed are empty.
type Table struct {
	Columns []metrics.Column
	Rows    [][]string
}

// Build lays out the records of result under the columns enabled by set
func Build(result *pipeline.Result, set metrics.Set) *Table {
	t := &Table{Columns: metrics.Columns(set)}
	for _, r := range result.Records {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			switch c.Name {
			case metrics.SliceIndex:
				row[i] = strconv.Itoa(r.Index)
			case metrics.Percent:
				row[i] = formatValue(r.Percent)
			default:
				if v, ok := r.Get(c.Name); ok {
					row[i] = formatValue(v)
				}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Header returns the column names in output order
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = string(c.Name)
	}
	return names
}

// Values returns one column as numbers. Empty cells are skipped; ok is false for a
// column the table does not have.
func (t *Table) Values(name metrics.Name) (values []float64, ok bool) {
	col := -1
	for i, c := range t.Columns {
		if c.Name == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, false
	}
	for _, row := range t.Rows {
		if row[col] == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, true
}

// WriteCSV writes the header and every row
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "failed to write rows")
	}
	return nil
}

// WriteColumnInfo writes one line per column with its unit and description
func (t *Table) WriteColumnInfo(w io.Writer) error {
	cw := csv.NewWriter(w)
	records := [][]string{{"Column", "Unit", "Description"}}
	for _, c := range t.Columns {
		records = append(records, []string{string(c.Name), c.Unit, c.Description})
	}
	return errors.Wrap(cw.WriteAll(records), "failed to write column info")
}

// Save writes the table to path and the column descriptions next to it as
// <name>_columns.csv. It returns the path of the description file.
func (t *Table) Save(path string) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrap(err, "failed to create output directory")
		}
	}
	if err := writeFile(path, t.WriteCSV); err != nil {
		return "", err
	}
	infoPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_columns.csv"
	if err := writeFile(infoPath, t.WriteColumnInfo); err != nil {
		return "", err
	}
	return infoPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
