package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hr360/screening-agent/internal/config"
	"github.com/hr360/screening-agent/internal/resume"
)

var (
	analyzeJobDescription string
	analyzeJobFile        string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Analyze a resume file locally",
	Long: `Parse a PDF or Word resume from disk and print the screening analysis as JSON.

Uses the Gemini model when GEMINI_API_KEY is set, otherwise the deterministic
keyword scorer. Nothing is written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJobDescription, "job-description", "j", "", "Job description text to score against")
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job-file", "", "Path to a job description text file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	text, err := resume.Parse(filepath.Base(path), "", data)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	jobDescription := analyzeJobDescription
	if jobDescription == "" && analyzeJobFile != "" {
		jd, err := os.ReadFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description file: %w", err)
		}
		jobDescription = string(jd)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	analyzer, closeLLM := newAnalyzer(ctx, cfg)
	defer closeLLM()

	result := analyzer.Analyze(ctx, text, jobDescription)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
