package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal Word document for CLI tests.
func writeDocx(t *testing.T, path, text string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestAnalyzeCommand_MissingFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "analyze", filepath.Join(t.TempDir(), "missing.pdf"))
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read resume file")
}

func TestAnalyzeCommand_FallbackScore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	resumePath := filepath.Join(t.TempDir(), "resume.docx")
	writeDocx(t, resumePath, "Jane Doe. 5 years experience with Python and SQL projects.")

	cmd := exec.Command(binaryPath, "analyze", resumePath,
		"--job-description", "Python developer")
	// Force the deterministic scorer.
	cmd.Env = append(os.Environ(), "GEMINI_API_KEY=")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	// Log lines go to stderr; the JSON result starts at the first brace.
	idx := bytes.IndexByte(output, '{')
	require.GreaterOrEqual(t, idx, 0, string(output))

	var result struct {
		Skills  []string `json:"skills"`
		AIScore int      `json:"aiScore"`
	}
	require.NoError(t, json.Unmarshal(output[idx:], &result))

	assert.Contains(t, result.Skills, "Python")
	assert.GreaterOrEqual(t, result.AIScore, 0)
	assert.LessOrEqual(t, result.AIScore, 100)
}

func TestAnalyzeCommand_RequiresArg(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "analyze")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "arg")
}
