package domain

import "time"

// ExtractionReport is the result of running the parser over one batch of
// scraped rows. Failures are kept alongside successes; one bad row never
// discards the rest of the batch.
type ExtractionReport struct {
	ID        string
	Date      time.Time
	Source    string
	CreatedAt time.Time

	Rows     []ReportRow
	Failures []RowFailure
	Warnings []ConsistencyWarning
	Skipped  int
}

func (r *ExtractionReport) ParsedCount() int {
	return len(r.Rows)
}

func (r *ExtractionReport) FailedCount() int {
	return len(r.Failures)
}

// TotalNetRevenue sums net revenue over all parsed rows.
func (r *ExtractionReport) TotalNetRevenue() float64 {
	var total float64
	for _, row := range r.Rows {
		total += row.NetRevenue
	}
	return total
}
