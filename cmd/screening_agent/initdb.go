package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hr360/screening-agent/internal/config"
	"github.com/hr360/screening-agent/internal/db"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Apply the database schema",
	Long:  `Create the candidates, users, notifications, processed_emails and email_configs tables if they do not exist.`,
	RunE:  runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

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

	if err := database.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	fmt.Println("Schema applied")
	return nil
}
