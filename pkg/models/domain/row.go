package domain

// RawRow holds the scraped cell texts of a single table row in fixed
// column order: category, net revenue, average order value, count.
type RawRow struct {
	Cells []string
}

// ReportRow is one parsed table entry. Values are immutable once built:
// amounts are in the report currency unit, free of symbols and suffixes.
type ReportRow struct {
	Category          string
	NetRevenue        float64
	AverageOrderValue float64
	Count             int64
}

// ParseResult is the outcome of parsing one raw row: a row or a typed
// failure, never both.
type ParseResult struct {
	Row *ReportRow
	Err error
}

func (r ParseResult) OK() bool {
	return r.Err == nil
}

// RowFailure ties a parse failure back to its position in the source batch.
type RowFailure struct {
	Index int
	Raw   RawRow
	Err   error
}

// ConsistencyWarning signals that net revenue disagrees with
// averageOrderValue * count beyond the configured tolerance. Non-fatal,
// source data is expected to be independently rounded.
type ConsistencyWarning struct {
	Category string
	Expected float64
	Actual   float64
}

// SummaryMetric is a parsed scorecard value from the top of a report page.
type SummaryMetric struct {
	Name    string
	Value   float64
	RawText string
}
