package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/cleared-dev/sanad/internal/model"
)

const (
	numFields = 5
	colCode   = 0
	colName   = 1
	colType   = 2
	colParent = 3
	colDesc   = 4
)

// ReadChart reads a chart-of-accounts CSV.
func ReadChart(r io.Reader) ([]ChartEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var chart []ChartEntry
	for i, rec := range records[1:] {
		e, err := UnmarshalChartEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		chart = append(chart, e)
	}
	return chart, nil
}

// WriteChart writes a chart-of-accounts CSV.
func WriteChart(w io.Writer, chart []ChartEntry) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name", "type", "parent_code", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range chart {
		if err := cw.Write(MarshalChartEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// LoadChartFile reads a chart-of-accounts CSV from disk.
func LoadChartFile(path string) ([]ChartEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	chart, err := ReadChart(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return chart, nil
}

// MarshalChartEntry converts a ChartEntry to a CSV row.
func MarshalChartEntry(e ChartEntry) []string {
	row := make([]string, numFields)
	row[colCode] = e.Code
	row[colName] = e.Name
	row[colType] = string(e.Type)
	row[colParent] = e.ParentCode
	row[colDesc] = e.Description
	return row
}

// UnmarshalChartEntry converts a CSV row to a ChartEntry.
func UnmarshalChartEntry(record []string) (ChartEntry, error) {
	if len(record) != numFields {
		return ChartEntry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	t := model.AccountType(record[colType])
	if !t.Valid() {
		return ChartEntry{}, fmt.Errorf("unknown account type %q", record[colType])
	}
	if record[colCode] == "" {
		return ChartEntry{}, fmt.Errorf("empty account code")
	}
	return ChartEntry{
		Code:        record[colCode],
		Name:        record[colName],
		Type:        t,
		ParentCode:  record[colParent],
		Description: record[colDesc],
	}, nil
}
