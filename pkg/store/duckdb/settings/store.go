package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/dash-tools/report-atlas/pkg/store/duckdb"
)

// Store persists tool settings as key/value pairs. When a key is missing
// but present in the environment, the env value is seeded into the store
// on first read so existing setups keep working without manual re-entry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type settingsStore struct {
	db *sql.DB
	// env is swappable for tests; defaults to os.LookupEnv.
	env func(string) (string, bool)
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &settingsStore{db: db, env: os.LookupEnv}, nil
}

// Get returns the stored value for key, seeding from the environment when
// the store has none. A key absent from both yields an empty string.
func (s *settingsStore) Get(ctx context.Context, key string) (string, error) {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	var value string
	err := exec.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}

	envValue, ok := s.env(key)
	if !ok {
		return "", nil
	}
	if err := s.Set(ctx, key, envValue); err != nil {
		return "", err
	}
	return envValue, nil
}

func (s *settingsStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	exec := duckdb.ExecutorFrom(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store setting %q: %w", key, err)
	}
	return nil
}

func (s *settingsStore) All(ctx context.Context) (map[string]string, error) {
	exec := duckdb.ExecutorFrom(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result[key] = value
	}
	return result, rows.Err()
}
