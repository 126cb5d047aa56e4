package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dash-tools/report-atlas/pkg/adapters"
	"github.com/dash-tools/report-atlas/pkg/models/domain"
	"github.com/dash-tools/report-atlas/pkg/services/dates"
	"github.com/dash-tools/report-atlas/pkg/services/ingest"
	"github.com/dash-tools/report-atlas/pkg/services/report"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/runs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ReportRenderer renders a finished extraction report to the terminal.
type ReportRenderer interface {
	Handle(report *domain.ExtractionReport) error
}

type ParseCmd struct {
	input      string
	format     string
	date       string
	configPath string
	dbPath     string
	renderer   ReportRenderer
}

func NewParseCmd(renderer ReportRenderer) *cobra.Command {
	pc := &ParseCmd{renderer: renderer}
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a scraped report dump into typed rows",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.input, "input", "", "Path to the report dump (CSV or saved HTML page)")
	cmd.Flags().StringVar(&pc.format, "format", "", "Input format: csv or html (default: by file extension)")
	cmd.Flags().StringVar(&pc.date, "date", "", "Report date as DD-MMM-YYYY (default: previous day)")
	cmd.Flags().StringVar(&pc.configPath, "config", "", "Path to the extraction config file")
	cmd.Flags().StringVar(&pc.dbPath, "db", "", "DuckDB path; when set the run is persisted")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (pc *ParseCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg := report.DefaultConfig()
	if pc.configPath != "" {
		loaded, err := report.LoadConfig(pc.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	date := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if pc.date != "" {
		parsed, err := dates.ParseReportDate(pc.date)
		if err != nil {
			return err
		}
		date = parsed
	}

	source, err := pc.source()
	if err != nil {
		return err
	}

	rawRows, err := source.Rows(ctx)
	if err != nil {
		return err
	}

	result := report.NewExtractor(cfg).Extract(ctx, date, filepath.Base(pc.input), rawRows)

	if pc.dbPath != "" {
		if err := pc.persist(ctx, result); err != nil {
			return err
		}
	}

	return pc.renderer.Handle(result)
}

func (pc *ParseCmd) source() (ingest.Source, error) {
	format := pc.format
	if format == "" {
		switch strings.ToLower(filepath.Ext(pc.input)) {
		case ".html", ".htm":
			format = "html"
		default:
			format = "csv"
		}
	}

	switch format {
	case "csv":
		return ingest.NewCSVSource(pc.input), nil
	case "html":
		return ingest.NewHTMLSource(pc.input), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q, expected csv or html", format)
	}
}

func (pc *ParseCmd) persist(ctx context.Context, result *domain.ExtractionReport) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: pc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", pc.dbPath, err)
	}
	defer db.Close()

	runStore, err := runs.NewStore(db)
	if err != nil {
		return err
	}

	run, rows := adapters.MapExtractionReportDomainToStore(result)
	if err := runStore.Add(ctx, run, rows); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("run_id", run.ID).Str("db", pc.dbPath).Msg("run persisted")
	return nil
}
