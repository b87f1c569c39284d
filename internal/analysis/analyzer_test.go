package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

const validResponse = `{
  "skills": ["Go", "PostgreSQL"],
  "experience": "8 years of backend development",
  "education": "Master level education identified",
  "aiScore": 88,
  "strengths": ["Deep backend expertise"],
  "weaknesses": ["No frontend experience"],
  "recommendation": "Strong candidate - recommend immediate interview",
  "summary": "Experienced backend engineer."
}`

func TestAnalyzeUsesModelResponse(t *testing.T) {
	client := &fakeClient{response: validResponse}
	analyzer := New(client)

	result := analyzer.Analyze(context.Background(), sampleResume, sampleJobDescription)

	require.NotNil(t, result)
	assert.Equal(t, 88, result.AIScore)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.Skills)
	assert.Equal(t, "8 years of backend development", result.Experience)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], sampleResume)
	assert.Contains(t, client.prompts[0], sampleJobDescription)
}

func TestAnalyzeStripsCodeFences(t *testing.T) {
	client := &fakeClient{response: "```json\n" + validResponse + "\n```"}
	analyzer := New(client)

	result := analyzer.Analyze(context.Background(), sampleResume, "")

	assert.Equal(t, 88, result.AIScore)
}

func TestAnalyzeFallsBackOnModelError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	analyzer := New(client)

	result := analyzer.Analyze(context.Background(), sampleResume, sampleJobDescription)

	assert.Equal(t, FallbackAnalysis(sampleResume, sampleJobDescription), result)
}

func TestAnalyzeFallsBackOnMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "I cannot analyze this resume."},
		{"missing fields", `{"skills": ["Go"]}`},
		{"score out of range", `{
			"skills": [], "experience": "x", "education": "x",
			"aiScore": 150, "strengths": [], "weaknesses": [],
			"recommendation": "x", "summary": "x"
		}`},
	}

	fallback := FallbackAnalysis(sampleResume, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := New(&fakeClient{response: tt.response})
			result := analyzer.Analyze(context.Background(), sampleResume, "")
			assert.Equal(t, fallback, result)
		})
	}
}

func TestBuildAnalysisPromptOmitsEmptyJobDescription(t *testing.T) {
	prompt := buildAnalysisPrompt("resume body", "")
	assert.NotContains(t, prompt, "JOB DESCRIPTION")
}
