package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pdfdigest/internal/samplepdf"
)

// isolate pins the provider keys so the developer's environment and .env
// never reach the binary under test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "CHUNK_SIZE", "CHUNK_OVERLAP", "OTEL_ENABLED"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestRun_MissingFile(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"nope.pdf"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "PDF Research Document Summarizer\n"+strings.Repeat("-", 30)+"\n") {
		t.Errorf("expected banner, got %q", out)
	}
	if !strings.Contains(out, "Error: The specified PDF file 'nope.pdf' does not exist.") {
		t.Errorf("expected missing file message, got %q", out)
	}
}

func TestRun_DefaultPathMissing(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	run(context.Background(), nil, &stdout, &stderr)

	if !strings.Contains(stdout.String(), "'sample_research.pdf' does not exist") {
		t.Errorf("expected default path in message, got %q", stdout.String())
	}
}

func TestRun_NotAPDF(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{path}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Error: The file must be a PDF document.") {
		t.Errorf("expected extension message, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "Processing PDF") {
		t.Error("expected no processing for a non-PDF")
	}
}

func TestRun_MissingCredential(t *testing.T) {
	isolate(t)
	if err := samplepdf.WriteFile(samplepdf.DefaultPath); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "\nProcessing PDF: sample_research.pdf\n") {
		t.Errorf("expected processing line, got %q", out)
	}
	if !strings.Contains(out, "\nConfiguration Error: API credential not found") {
		t.Errorf("expected configuration error, got %q", out)
	}
	if !strings.Contains(out, "OPENAI_API_KEY=your_api_key_here") {
		t.Errorf("expected .env hint, got %q", out)
	}
	if strings.Contains(out, "Summary of the PDF document") {
		t.Error("expected no summary on error")
	}
}

func TestRun_InvalidChunking(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")
	if err := samplepdf.WriteFile(samplepdf.DefaultPath); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Configuration Error:") {
		t.Errorf("expected configuration error, got %q", stdout.String())
	}
}
