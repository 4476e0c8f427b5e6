package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Record is a single input CSV row keyed by column name
type Record map[string]string

// Get returns the trimmed value of a column, or "" if absent
func (r Record) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// ReadRecords reads an input CSV and verifies that all required columns
// are present. A missing file or missing columns is a setup error.
func ReadRecords(path string, required []string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse input CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input CSV %s is empty", path)
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for name, i := range index {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}
