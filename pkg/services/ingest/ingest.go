package ingest

import (
	"context"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

// Source produces raw table rows from an artifact the scraping layer left
// behind. Sources never parse values; they only carry cell text through.
type Source interface {
	Rows(ctx context.Context) ([]domain.RawRow, error)
}
