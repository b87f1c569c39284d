package main

import (
	"context"
	"log"

	"github.com/hr360/screening-agent/internal/analysis"
	"github.com/hr360/screening-agent/internal/config"
	"github.com/hr360/screening-agent/internal/llm"
)

// newAnalyzer builds the resume analyzer, falling back to the deterministic
// scorer when no Gemini key is configured or the client cannot be created.
// The returned func releases the model client.
func newAnalyzer(ctx context.Context, cfg *config.Config) (*analysis.Analyzer, func()) {
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set; using deterministic fallback analysis")
		return analysis.New(nil), func() {}
	}

	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("Gemini client unavailable, using deterministic fallback analysis: %v", err)
		return analysis.New(nil), func() {}
	}

	return analysis.New(client), func() { _ = client.Close() }
}
