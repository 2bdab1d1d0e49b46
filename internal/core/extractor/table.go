package extractor

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/tables"

	"github.com/kevinkley/API-Extrator/internal/config"
)

// tableRow is a loosely typed sequence of cells read from the page.
type tableRow []string

// Cell returns the trimmed cell at index i, or false when the row is too short.
func (r tableRow) Cell(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return strings.TrimSpace(r[i]), true
}

// detectorConfig maps the extraction settings onto the geometric detector.
func detectorConfig(opts config.ExtractionConfig) tables.Config {
	cfg := tables.DefaultConfig()
	cfg.MinRows = opts.MinRows
	cfg.MinCols = opts.MinColumns
	cfg.MinConfidence = opts.MinConfidence
	cfg.AlignmentTolerance = opts.AlignmentTolerance
	cfg.UseLines = true
	cfg.UseWhitespace = true
	return cfg
}

// rowsFromTable flattens a detected table into rows, rows[0] being the
// header. Each row is cut after its last non-empty cell, so a line with a
// single value in the first column is a one-cell row.
func rowsFromTable(t *model.Table) ([]tableRow, error) {
	if t == nil || t.RowCount() == 0 {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(t.ToCSV()))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabela ilegível: %w", err)
	}

	rows := make([]tableRow, 0, len(records))
	for _, rec := range records {
		last := -1
		for j := range rec {
			rec[j] = cleanChunk(rec[j])
			if rec[j] != "" {
				last = j
			}
		}
		rows = append(rows, tableRow(rec[:last+1]))
	}
	return rows, nil
}
