package store

import "time"

// ExtractionRun is the persisted header of one extraction batch.
type ExtractionRun struct {
	ID         string
	ReportDate time.Time
	Source     string
	CreatedAt  time.Time
	Parsed     int
	Failed     int
	Skipped    int
}

// ReportRow is one parsed table entry as stored.
type ReportRow struct {
	RunID             string
	Category          string
	NetRevenue        float64
	AverageOrderValue float64
	OrderCount        int64
}
