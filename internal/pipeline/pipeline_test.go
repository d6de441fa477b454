package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/pdfdigest/internal/chunker"
	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/document"
	"github.com/dgallion1/pdfdigest/internal/parser"
	"github.com/dgallion1/pdfdigest/internal/samplepdf"
	"github.com/dgallion1/pdfdigest/internal/summarize"
)

const (
	testMapPrompt     = "map:{text}"
	testCombinePrompt = "combine:{text}"
)

type fakeService struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt, text string) (string, error)
}

func (f *fakeService) Complete(_ context.Context, prompt, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(prompt, text)
	}
	if strings.HasPrefix(prompt, "combine:") {
		return "final summary", nil
	}
	return "partial", nil
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(t *testing.T, svc completion.Service, chunking chunker.Config) *Pipeline {
	t.Helper()
	s := summarize.New(svc, nil, summarize.Config{
		MapPrompt:            testMapPrompt,
		CombinePrompt:        testCombinePrompt,
		Concurrency:          2,
		MaxRetries:           1,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     time.Millisecond,
		RequestTimeout:       time.Second,
	}, testLogger())
	p, err := New(chunking, s, parser.Options{}, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

type recordingObserver struct {
	mu    sync.Mutex
	total int
	done  []int
}

func (r *recordingObserver) Chunked(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func (r *recordingObserver) Summarized(done, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, done)
}

func TestNew_RejectsInvalidChunking(t *testing.T) {
	_, err := New(chunker.Config{ChunkSize: 100, ChunkOverlap: 100}, nil, parser.Options{}, testLogger())
	if !errors.Is(err, chunker.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestWithChunking(t *testing.T) {
	p := newTestPipeline(t, &fakeService{}, chunker.DefaultConfig())

	cp, err := p.WithChunking(chunker.Config{ChunkSize: 300, ChunkOverlap: 30})
	if err != nil {
		t.Fatalf("WithChunking: %v", err)
	}
	if cp.Chunking().ChunkSize != 300 {
		t.Errorf("expected chunk size 300, got %d", cp.Chunking().ChunkSize)
	}
	if p.Chunking() != chunker.DefaultConfig() {
		t.Error("expected source pipeline to keep its chunking")
	}
	if _, err := p.WithChunking(chunker.Config{ChunkSize: 0}); !errors.Is(err, chunker.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSummarizeDocument_ReportsProgress(t *testing.T) {
	svc := &fakeService{}
	p := newTestPipeline(t, svc, chunker.Config{ChunkSize: 100, ChunkOverlap: 10})

	doc := &document.Document{Title: "Long"}
	for range 5 {
		doc.Sections = append(doc.Sections, document.Section{Text: strings.Repeat("Sentence here. ", 6)})
	}

	obs := &recordingObserver{}
	got, err := p.SummarizeDocument(context.Background(), doc, obs)
	if err != nil {
		t.Fatalf("SummarizeDocument: %v", err)
	}
	if got != "final summary" {
		t.Errorf("expected final summary, got %q", got)
	}
	if obs.total < 2 {
		t.Fatalf("expected several chunks, got %d", obs.total)
	}
	if len(obs.done) != obs.total {
		t.Errorf("expected %d progress callbacks, got %d", obs.total, len(obs.done))
	}
	if svc.callCount() != obs.total+1 {
		t.Errorf("expected %d calls, got %d", obs.total+1, svc.callCount())
	}
}

func TestSummarizeDocument_EmptyDocument(t *testing.T) {
	svc := &fakeService{}
	p := newTestPipeline(t, svc, chunker.DefaultConfig())

	obs := &recordingObserver{total: -1}
	got, err := p.SummarizeDocument(context.Background(), &document.Document{}, obs)
	if err != nil {
		t.Fatalf("SummarizeDocument: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
	if obs.total != 0 {
		t.Errorf("expected 0 chunks, got %d", obs.total)
	}
	if svc.callCount() != 0 {
		t.Errorf("expected no completion calls, got %d", svc.callCount())
	}
}

func TestSummarizeFile_MissingFile(t *testing.T) {
	svc := &fakeService{}
	p := newTestPipeline(t, svc, chunker.DefaultConfig())

	_, err := p.SummarizeFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, parser.ErrFileNotReadable) {
		t.Fatalf("expected ErrFileNotReadable, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "error processing PDF: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if svc.callCount() != 0 {
		t.Errorf("expected no completion calls, got %d", svc.callCount())
	}
}

func TestSummarizeFile_SamplePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), samplepdf.DefaultPath)
	if err := samplepdf.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	svc := &fakeService{}
	p := newTestPipeline(t, svc, chunker.Config{ChunkSize: 600, ChunkOverlap: 60})

	got, err := p.SummarizeFile(context.Background(), path)
	if err != nil {
		t.Fatalf("SummarizeFile: %v", err)
	}
	if got != "final summary" {
		t.Errorf("expected final summary, got %q", got)
	}
	if svc.callCount() < 3 {
		t.Errorf("expected at least two map calls and one combine, got %d calls", svc.callCount())
	}
}

func TestSummarizeFile_CompletionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), samplepdf.DefaultPath)
	if err := samplepdf.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	svc := &fakeService{fn: func(string, string) (string, error) {
		return "", completion.ErrInvalidCredentials
	}}
	p := newTestPipeline(t, svc, chunker.DefaultConfig())

	_, err := p.SummarizeFile(context.Background(), path)
	if !errors.Is(err, summarize.ErrSummarizationFailed) {
		t.Fatalf("expected ErrSummarizationFailed, got %v", err)
	}
	if !errors.Is(err, completion.ErrInvalidCredentials) {
		t.Errorf("expected provider error to be preserved, got %v", err)
	}
}

func TestSummarizeFile_LogsPagesAndChunkSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), samplepdf.DefaultPath)
	if err := samplepdf.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	s := summarize.New(&fakeService{}, nil, summarize.Config{
		MapPrompt:      testMapPrompt,
		CombinePrompt:  testCombinePrompt,
		RequestTimeout: time.Second,
	}, log)
	p, err := New(chunker.Config{ChunkSize: 600, ChunkOverlap: 60}, s, parser.Options{}, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.SummarizeFile(context.Background(), path); err != nil {
		t.Fatalf("SummarizeFile: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pages=") || strings.Contains(out, "pages=0 ") {
		t.Errorf("expected a page count in the log, got %q", out)
	}
	if !strings.Contains(out, "largest_chunk=") || strings.Contains(out, "largest_chunk=0 ") {
		t.Errorf("expected the largest chunk size in the log, got %q", out)
	}
}
