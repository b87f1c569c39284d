package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hr360/screening-agent/internal/config"
	"github.com/hr360/screening-agent/internal/db"
	"github.com/hr360/screening-agent/internal/screening"
	"github.com/hr360/screening-agent/internal/server"
)

var (
	servePort       int
	serveInitSchema bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server that exposes the candidate, notification and processing endpoints without the email monitor.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var)")
	serveCmd.Flags().BoolVar(&serveInitSchema, "init-schema", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if serveInitSchema {
		if err := database.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	analyzer, closeLLM := newAnalyzer(ctx, cfg)
	defer closeLLM()

	port := servePort
	if port == 0 {
		port = cfg.Port
	}

	srv := server.New(server.Config{Port: port}, server.Deps{
		Store:    database,
		Batcher:  screening.NewProcessor(database),
		Analyzer: analyzer,
	})

	return srv.Run(ctx)
}
