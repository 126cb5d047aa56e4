package commands

import (
	"fmt"

	"github.com/dash-tools/report-atlas/pkg/models/store"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/runs"
	"github.com/spf13/cobra"
)

// RunRenderer renders persisted extraction runs to the terminal.
type RunRenderer interface {
	HandleRuns(runs []store.ExtractionRun) error
}

type RunsCmd struct {
	dbPath   string
	renderer RunRenderer
}

func NewRunsCmd(renderer RunRenderer) *cobra.Command {
	rc := &RunsCmd{renderer: renderer}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted extraction runs",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.dbPath, "db", "", "DuckDB path holding persisted runs")

	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func (rc *RunsCmd) run(cmd *cobra.Command, _ []string) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: rc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", rc.dbPath, err)
	}
	defer db.Close()

	runStore, err := runs.NewStore(db)
	if err != nil {
		return err
	}

	persisted, err := runStore.List(cmd.Context())
	if err != nil {
		return err
	}

	return rc.renderer.HandleRuns(persisted)
}
