package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dash-tools/report-atlas/pkg/models/store"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb"
)

// ErrNotFound is returned when no run matches the requested id or date.
var ErrNotFound = errors.New("extraction run not found")

// Store persists extraction runs and their parsed rows.
type Store interface {
	Add(ctx context.Context, run store.ExtractionRun, rows []store.ReportRow) error
	List(ctx context.Context) ([]store.ExtractionRun, error)
	Get(ctx context.Context, id string) (*store.ExtractionRun, []store.ReportRow, error)
	FindByDate(ctx context.Context, date time.Time) (*store.ExtractionRun, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{db: db}, nil
}

// Add stores a run and its rows atomically. When the context already
// carries a transaction it joins it; otherwise it opens its own.
func (s *runStore) Add(ctx context.Context, run store.ExtractionRun, rows []store.ReportRow) error {
	if tx := duckdb.TransactionFrom(ctx); tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := s.add(duckdb.WithTransaction(ctx, tx), run, rows); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	}
	return s.add(ctx, run, rows)
}

func (s *runStore) add(ctx context.Context, run store.ExtractionRun, rows []store.ReportRow) error {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO extraction_runs (id, report_date, source, created_at, parsed, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.ReportDate, run.Source, run.CreatedAt, run.Parsed, run.Failed, run.Skipped)
	if err != nil {
		return fmt.Errorf("failed to insert extraction run %s: %w", run.ID, err)
	}

	for _, row := range rows {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO report_rows (run_id, category, net_revenue, average_order_value, order_count)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, row.Category, row.NetRevenue, row.AverageOrderValue, row.OrderCount)
		if err != nil {
			return fmt.Errorf("failed to insert report row %q for run %s: %w", row.Category, run.ID, err)
		}
	}
	return nil
}

func (s *runStore) List(ctx context.Context) ([]store.ExtractionRun, error) {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, report_date, source, created_at, parsed, failed, skipped
		FROM extraction_runs
		ORDER BY report_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list extraction runs: %w", err)
	}
	defer rows.Close()

	var runs []store.ExtractionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *runStore) Get(ctx context.Context, id string) (*store.ExtractionRun, []store.ReportRow, error) {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	row := exec.QueryRowContext(ctx, `
		SELECT id, report_date, source, created_at, parsed, failed, skipped
		FROM extraction_runs WHERE id = ?`, id)

	var run store.ExtractionRun
	err := row.Scan(&run.ID, &run.ReportDate, &run.Source, &run.CreatedAt,
		&run.Parsed, &run.Failed, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read extraction run %s: %w", id, err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT run_id, category, net_revenue, average_order_value, order_count
		FROM report_rows WHERE run_id = ? ORDER BY category`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read report rows for run %s: %w", id, err)
	}
	defer rows.Close()

	var reportRows []store.ReportRow
	for rows.Next() {
		var r store.ReportRow
		err := rows.Scan(&r.RunID, &r.Category, &r.NetRevenue, &r.AverageOrderValue, &r.OrderCount)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reportRows = append(reportRows, r)
	}
	return &run, reportRows, rows.Err()
}

// FindByDate returns the most recent run for a report date, matching on
// the calendar day.
func (s *runStore) FindByDate(ctx context.Context, date time.Time) (*store.ExtractionRun, error) {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	row := exec.QueryRowContext(ctx, `
		SELECT id, report_date, source, created_at, parsed, failed, skipped
		FROM extraction_runs
		WHERE report_date >= ? AND report_date < ?
		ORDER BY created_at DESC
		LIMIT 1`, dayStart, dayEnd)

	var run store.ExtractionRun
	err := row.Scan(&run.ID, &run.ReportDate, &run.Source, &run.CreatedAt,
		&run.Parsed, &run.Failed, &run.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find run for %s: %w", date.Format("2006-01-02"), err)
	}
	return &run, nil
}

func scanRun(rows *sql.Rows) (store.ExtractionRun, error) {
	var run store.ExtractionRun
	err := rows.Scan(&run.ID, &run.ReportDate, &run.Source, &run.CreatedAt,
		&run.Parsed, &run.Failed, &run.Skipped)
	if err != nil {
		return store.ExtractionRun{}, fmt.Errorf("failed to scan extraction run: %w", err)
	}
	return run, nil
}
