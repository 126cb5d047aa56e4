package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/models/store"
	"github.com/dash-tools/report-atlas/pkg/services/dates"
)

// Reporter outputs results to the console in a plain text form.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.ExtractionReport) error {
	tmpl := `
Report extraction for {{.Date.Format "2006-01-02"}}{{if .Source}} (source: {{.Source}}){{end}}
Parsed: {{.ParsedCount}}, Failed: {{.FailedCount}}, Skipped: {{.Skipped}}

{{range .Rows}}- {{.Category}}: revenue={{printf "%.2f" .NetRevenue}} aov={{printf "%.2f" .AverageOrderValue}} count={{.Count}}
{{end}}{{if .Failures}}
Failures:
{{range .Failures}}- row {{.Index}}: {{.Err}}
{{end}}{{end}}{{if .Warnings}}
Consistency warnings:
{{range .Warnings}}- {{.Category}}: expected {{printf "%.2f" .Expected}}, reported {{printf "%.2f" .Actual}}
{{end}}{{end}}`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func (c *Reporter) HandleScorecards(metrics []domain.SummaryMetric, failures []domain.RowFailure) error {
	tmpl := `
{{range .Metrics}}{{.Name}}: {{printf "%.2f" .Value}} (raw: {{.RawText}})
{{end}}{{if .Failures}}
Failures:
{{range .Failures}}- block {{.Index}}: {{.Err}}
{{end}}{{end}}`

	t, err := template.New("scorecards").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Metrics  []domain.SummaryMetric
		Failures []domain.RowFailure
	}{Metrics: metrics, Failures: failures})
}

func (c *Reporter) HandleRuns(runList []store.ExtractionRun) error {
	funcMap := template.FuncMap{
		"label": dates.Label,
	}

	tmpl := `{{if not .}}No extraction runs stored.
{{end}}{{range .}}{{.ReportDate.Format "2006-01-02"}} ({{label .ReportDate}})  {{.ID}}  source={{if .Source}}{{.Source}}{{else}}-{{end}}  parsed={{.Parsed}} failed={{.Failed}} skipped={{.Skipped}}
{{end}}`

	t, err := template.New("runs").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, runList)
}
