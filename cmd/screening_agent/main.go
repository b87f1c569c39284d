// Package main provides the entry point for the HR360 screening agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screening_agent",
	Short: "HR360 Automatic Resume Screening Agent",
	Long:  "Screening agent polls a recruiting mailbox, extracts and scores resume attachments, and maintains the HR360 candidate pipeline via a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
