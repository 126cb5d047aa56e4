package api

import "time"

type RawRow struct {
	Cells []string `json:"cells"`
}

// ParseRequest is the body of the parse and run-creation endpoints.
type ParseRequest struct {
	// Date is the report date in DD-MMM-YYYY form; defaults to the
	// previous day when empty.
	Date   string   `json:"date,omitempty"`
	Source string   `json:"source,omitempty"`
	Rows   []RawRow `json:"rows"`
}

type ReportRow struct {
	Category          string  `json:"category"`
	NetRevenue        float64 `json:"net_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	Count             int64   `json:"count"`
}

type RowFailure struct {
	Index int      `json:"index"`
	Cells []string `json:"cells"`
	Error string   `json:"error"`
}

type ConsistencyWarning struct {
	Category string  `json:"category"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
}

type ExtractionReport struct {
	ID        string               `json:"id"`
	Date      time.Time            `json:"date"`
	Source    string               `json:"source,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	Rows      []ReportRow          `json:"rows"`
	Failures  []RowFailure         `json:"failures,omitempty"`
	Warnings  []ConsistencyWarning `json:"warnings,omitempty"`
	Parsed    int                  `json:"parsed"`
	Failed    int                  `json:"failed"`
	Skipped   int                  `json:"skipped"`
}

// ExtractionRun is a stored run; Rows is populated on the detail endpoint
// only.
type ExtractionRun struct {
	ID        string      `json:"id"`
	Date      time.Time   `json:"date"`
	Source    string      `json:"source,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Parsed    int         `json:"parsed"`
	Failed    int         `json:"failed"`
	Skipped   int         `json:"skipped"`
	Rows      []ReportRow `json:"rows,omitempty"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
