package adapters

import (
	"github.com/dash-tools/report-atlas/pkg/models/api"
	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/models/store"
)

func MapRawRowsApiToDomain(rows []api.RawRow) []domain.RawRow {
	out := make([]domain.RawRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.RawRow{Cells: r.Cells})
	}
	return out
}

func MapReportRowDomainToApi(row domain.ReportRow) api.ReportRow {
	return api.ReportRow{
		Category:          row.Category,
		NetRevenue:        row.NetRevenue,
		AverageOrderValue: row.AverageOrderValue,
		Count:             row.Count,
	}
}

func MapExtractionReportDomainToApi(report *domain.ExtractionReport) api.ExtractionReport {
	out := api.ExtractionReport{
		ID:        report.ID,
		Date:      report.Date,
		Source:    report.Source,
		CreatedAt: report.CreatedAt,
		Rows:      []api.ReportRow{},
		Parsed:    report.ParsedCount(),
		Failed:    report.FailedCount(),
		Skipped:   report.Skipped,
	}

	for _, row := range report.Rows {
		out.Rows = append(out.Rows, MapReportRowDomainToApi(row))
	}
	for _, failure := range report.Failures {
		out.Failures = append(out.Failures, api.RowFailure{
			Index: failure.Index,
			Cells: failure.Raw.Cells,
			Error: failure.Err.Error(),
		})
	}
	for _, warning := range report.Warnings {
		out.Warnings = append(out.Warnings, api.ConsistencyWarning{
			Category: warning.Category,
			Expected: warning.Expected,
			Actual:   warning.Actual,
		})
	}

	return out
}

func MapExtractionReportDomainToStore(report *domain.ExtractionReport) (store.ExtractionRun, []store.ReportRow) {
	run := store.ExtractionRun{
		ID:         report.ID,
		ReportDate: report.Date,
		Source:     report.Source,
		CreatedAt:  report.CreatedAt,
		Parsed:     report.ParsedCount(),
		Failed:     report.FailedCount(),
		Skipped:    report.Skipped,
	}

	rows := make([]store.ReportRow, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, store.ReportRow{
			RunID:             report.ID,
			Category:          row.Category,
			NetRevenue:        row.NetRevenue,
			AverageOrderValue: row.AverageOrderValue,
			OrderCount:        row.Count,
		})
	}
	return run, rows
}

func MapExtractionRunStoreToApi(run store.ExtractionRun, rows []store.ReportRow) api.ExtractionRun {
	out := api.ExtractionRun{
		ID:        run.ID,
		Date:      run.ReportDate,
		Source:    run.Source,
		CreatedAt: run.CreatedAt,
		Parsed:    run.Parsed,
		Failed:    run.Failed,
		Skipped:   run.Skipped,
	}

	for _, row := range rows {
		out.Rows = append(out.Rows, api.ReportRow{
			Category:          row.Category,
			NetRevenue:        row.NetRevenue,
			AverageOrderValue: row.AverageOrderValue,
			Count:             row.OrderCount,
		})
	}
	return out
}
