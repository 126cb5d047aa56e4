package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SettingsSchema = `
	CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR PRIMARY KEY,
		value VARCHAR NOT NULL
	);
`

const ExtractionRunsSchema = `
	CREATE TABLE IF NOT EXISTS extraction_runs (
		id VARCHAR PRIMARY KEY,
		report_date TIMESTAMP NOT NULL,
		source VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		parsed INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);
`

const ReportRowsSchema = `
	CREATE TABLE IF NOT EXISTS report_rows (
		run_id VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		net_revenue DOUBLE NOT NULL,
		average_order_value DOUBLE NOT NULL,
		order_count BIGINT NOT NULL,
		PRIMARY KEY (run_id, category)
	);
`

var bootQueries = []string{
	SettingsSchema,
	ExtractionRunsSchema,
	ReportRowsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
