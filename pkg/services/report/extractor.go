package report

import (
	"context"
	"strings"
	"time"

	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/services/parse"
	"github.com/dash-tools/report-atlas/pkg/services/validate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// headerLabels are cell values that mark a table header row rather than
// data. Compared case-insensitively.
var headerLabels = map[string]struct{}{
	"order type":  {},
	"net revenue": {},
	"aov":         {},
	"#":           {},
}

// Extractor runs the parser over a batch of scraped rows and assembles an
// extraction report: parsed rows, per-row failures, and consistency
// warnings. One bad row never aborts the batch.
type Extractor struct {
	parser    *parse.Parser
	validator *validate.Validator
	allowed   map[string]struct{}
}

func NewExtractor(cfg Config) *Extractor {
	var allowed map[string]struct{}
	if len(cfg.AllowedCategories) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedCategories))
		for _, c := range cfg.AllowedCategories {
			allowed[c] = struct{}{}
		}
	}

	return &Extractor{
		parser:    parse.NewParser(cfg.Parser),
		validator: validate.NewValidator(cfg.ConsistencyTolerance),
		allowed:   allowed,
	}
}

// Extract parses every raw row independently. Header rows, rows outside
// the allow-list, dash-placeholder rows and all-zero rows are skipped;
// everything else either parses or lands in Failures with its raw text.
func (e *Extractor) Extract(
	ctx context.Context,
	date time.Time,
	source string,
	rawRows []domain.RawRow,
) *domain.ExtractionReport {
	logger := zerolog.Ctx(ctx)

	result := &domain.ExtractionReport{
		ID:        uuid.NewString(),
		Date:      date,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}

	for i, raw := range rawRows {
		if e.skippable(raw) {
			result.Skipped++
			logger.Debug().Int("row", i).Msg("skipping non-data row")
			continue
		}

		parsed := e.parser.ParseRow(raw.Cells)
		if !parsed.OK() {
			result.Failures = append(result.Failures, domain.RowFailure{
				Index: i,
				Raw:   raw,
				Err:   parsed.Err,
			})
			logger.Warn().Int("row", i).Err(parsed.Err).Msg("row failed to parse")
			continue
		}

		row := *parsed.Row
		if e.allowed != nil {
			if _, ok := e.allowed[row.Category]; !ok {
				result.Skipped++
				logger.Debug().Int("row", i).Str("category", row.Category).
					Msg("category not in allow list")
				continue
			}
		}
		if row.NetRevenue == 0 && row.AverageOrderValue == 0 && row.Count == 0 {
			result.Skipped++
			continue
		}

		result.Rows = append(result.Rows, row)
	}

	result.Warnings = e.validator.Validate(result.Rows)

	logger.Info().
		Str("run_id", result.ID).
		Int("parsed", result.ParsedCount()).
		Int("failed", result.FailedCount()).
		Int("skipped", result.Skipped).
		Int("warnings", len(result.Warnings)).
		Msg("extraction finished")

	return result
}

// ExtractScorecards parses summary metric blocks from the top of a report
// page. Each block is the card's text: a label line followed by a value
// line. Unparseable blocks are reported next to successes.
func (e *Extractor) ExtractScorecards(blocks []string) ([]domain.SummaryMetric, []domain.RowFailure) {
	var (
		metrics  []domain.SummaryMetric
		failures []domain.RowFailure
	)

	for i, block := range blocks {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}

		if len(lines) < 2 {
			failures = append(failures, domain.RowFailure{
				Index: i,
				Raw:   domain.RawRow{Cells: lines},
				Err:   &parse.EmptyFieldError{Field: "value"},
			})
			continue
		}

		name, rawValue := lines[0], lines[1]
		value, err := e.parser.Amount(name, rawValue)
		if err != nil {
			failures = append(failures, domain.RowFailure{
				Index: i,
				Raw:   domain.RawRow{Cells: lines},
				Err:   err,
			})
			continue
		}

		metrics = append(metrics, domain.SummaryMetric{
			Name:    name,
			Value:   value,
			RawText: rawValue,
		})
	}

	return metrics, failures
}

// skippable marks rows that are layout noise rather than data: fully
// blank rows, header rows, and rows whose numeric cells are all dash
// placeholders.
func (e *Extractor) skippable(raw domain.RawRow) bool {
	blank := true
	for _, cell := range raw.Cells {
		if strings.TrimSpace(cell) != "" {
			blank = false
			break
		}
	}
	if blank {
		return true
	}

	if len(raw.Cells) != 4 {
		return false
	}

	category := strings.ToLower(strings.TrimSpace(raw.Cells[0]))
	if _, ok := headerLabels[category]; ok {
		return true
	}

	dashes := 0
	for _, cell := range raw.Cells[1:] {
		if strings.TrimSpace(cell) == "-" {
			dashes++
		}
	}
	return dashes == 3
}
