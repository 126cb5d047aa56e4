package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

// CSVSource reads raw rows from a 4-column CSV dump. Header lines are kept
// as rows; the extractor recognizes and skips them.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Rows(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv dump: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv dump %s: %w", s.path, err)
	}

	rows := make([]domain.RawRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, domain.RawRow{Cells: record})
	}
	return rows, nil
}
