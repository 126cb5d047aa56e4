package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

type TableConfig struct {
	CategoryWidth int
	RevenueWidth  int
	AOVWidth      int
	CountWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		CategoryWidth: 26,
		RevenueWidth:  14,
		AOVWidth:      12,
		CountWidth:    10,
	}
}

// Reporter renders an extraction report as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (r *Reporter) Handle(report *domain.ExtractionReport) error {
	funcMap := template.FuncMap{
		"headerRow": func() string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				r.config.CategoryWidth, "Category",
				r.config.RevenueWidth, "Net Revenue",
				r.config.AOVWidth, "AOV",
				r.config.CountWidth, "Count")
		},
		"formatRow": func(row domain.ReportRow) string {
			return fmt.Sprintf("| %-*s | %*.2f | %*.2f | %*d |",
				r.config.CategoryWidth, row.Category,
				r.config.RevenueWidth, row.NetRevenue,
				r.config.AOVWidth, row.AverageOrderValue,
				r.config.CountWidth, row.Count)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.CategoryWidth+2),
				strings.Repeat("-", r.config.RevenueWidth+2),
				strings.Repeat("-", r.config.AOVWidth+2),
				strings.Repeat("-", r.config.CountWidth+2))
		},
	}

	tmpl := `
Report extraction for {{.Date.Format "2006-01-02"}}{{if .Source}} (source: {{.Source}}){{end}}
Run: {{.ID}}
Parsed: {{.ParsedCount}}  Failed: {{.FailedCount}}  Skipped: {{.Skipped}}  Total Net Revenue: {{printf "%.2f" .TotalNetRevenue}}

{{separator}}
{{headerRow}}
{{separator}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator}}
{{if .Failures}}
Failures:
{{range .Failures}}- row {{.Index}}: {{.Err}}
{{end}}{{end}}{{if .Warnings}}
Consistency warnings:
{{range .Warnings}}- {{.Category}}: expected {{printf "%.2f" .Expected}}, reported {{printf "%.2f" .Actual}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, report)
}
