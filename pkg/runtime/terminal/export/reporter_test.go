package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	report := &domain.ExtractionReport{
		ID:     "run-1",
		Date:   time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		Source: "report.html",
		Rows: []domain.ReportRow{
			{Category: "Subscription", NetRevenue: 1234.56, AverageOrderValue: 61.73, Count: 20},
			{Category: "One-off", NetRevenue: 980, AverageOrderValue: 49, Count: 20},
		},
	}

	require.NoError(t, reporter.Handle(report))

	out := buf.String()
	assert.Contains(t, out, "Report extraction for 2025-11-02 (source: report.html)")
	assert.Contains(t, out, "Run: run-1")
	assert.Contains(t, out, "Total Net Revenue: 2214.56")
	assert.Contains(t, out, "| Category")
	assert.Contains(t, out, "| Subscription")
	assert.Contains(t, out, "1234.56")
	assert.NotContains(t, out, "Failures:")
	assert.NotContains(t, out, "Consistency warnings:")
}
