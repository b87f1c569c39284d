package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hr360/screening-agent/internal/llm"
)

// DefaultTimeout bounds a single model call. The heuristic takes over when
// the model does not answer in time.
const DefaultTimeout = 60 * time.Second

// Analyzer produces a ResumeAnalysis for resume text. With a nil client it
// always uses the deterministic fallback, which is the demo/offline mode.
type Analyzer struct {
	client  llm.Client
	timeout time.Duration
}

// New creates an Analyzer. client may be nil.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-call model timeout.
func (a *Analyzer) WithTimeout(d time.Duration) *Analyzer {
	a.timeout = d
	return a
}

// Analyze assesses resume text, optionally against a job description.
// Model and parse failures are substituted with the fallback heuristic and
// never surfaced to the caller.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) *ResumeAnalysis {
	if a.client == nil {
		return FallbackAnalysis(resumeText, jobDescription)
	}

	result, err := a.analyzeWithModel(ctx, resumeText, jobDescription)
	if err != nil {
		log.Printf("resume analysis falling back to heuristic: %v", err)
		return FallbackAnalysis(resumeText, jobDescription)
	}
	return result
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, resumeText, jobDescription string) (*ResumeAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.client.GenerateJSON(ctx, buildAnalysisPrompt(resumeText, jobDescription))
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	raw = llm.CleanJSONBlock(raw)
	if err := validateAnalysisJSON(raw); err != nil {
		return nil, err
	}

	var result ResumeAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	result.AIScore = clampScore(result.AIScore)
	return &result, nil
}

// buildAnalysisPrompt constructs the model prompt requesting a strict JSON
// object matching the ResumeAnalysis shape.
func buildAnalysisPrompt(resumeText, jobDescription string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this resume and provide a detailed assessment.\n\n")
	sb.WriteString("RESUME TEXT:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\n")

	if jobDescription != "" {
		sb.WriteString("JOB DESCRIPTION:\n")
		sb.WriteString(jobDescription)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return ONLY a JSON object in this exact format:\n")
	sb.WriteString(`{
  "skills": ["skill1", "skill2", "skill3"],
  "experience": "Brief experience summary",
  "education": "Education background",
  "aiScore": 85,
  "strengths": ["strength1", "strength2"],
  "weaknesses": ["weakness1", "weakness2"],
  "recommendation": "Hiring recommendation",
  "summary": "Overall candidate summary"
}`)
	sb.WriteString("\n\nScore from 0-100 based on:\n")
	sb.WriteString("- Technical skills relevance (30%)\n")
	sb.WriteString("- Experience level (25%)\n")
	sb.WriteString("- Education background (20%)\n")
	sb.WriteString("- Communication skills (15%)\n")
	sb.WriteString("- Cultural fit indicators (10%)\n")

	return sb.String()
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
