package main

import (
	"fmt"
	"net"
	"os"

	"github.com/dash-tools/report-atlas/pkg/server"
	"github.com/dash-tools/report-atlas/pkg/services/report"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/runs"
	"github.com/dash-tools/report-atlas/pkg/store/duckdb/settings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dbPath  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Report Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the extraction config file (default: built-in config)")
	rootCmd.Flags().StringVar(&dbPath, "db", "report-atlas.db",
		"Path to the DuckDB database file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := report.DefaultConfig()
	if cfgPath != "" {
		loaded, err := report.LoadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load extraction config: %w", err)
		}
		cfg = *loaded
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	runStore, err := runs.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}
	settingsStore, err := settings.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create settings store: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Extractor: report.NewExtractor(cfg),
			Runs:      runStore,
			Settings:  settingsStore,
		},
	})

	return api.Start()
}
