// Command pdfdigest prints a summary of a PDF research document.
//
// Usage:
//
//	pdfdigest [file.pdf]
//
// The file defaults to sample_research.pdf. The completion provider and its
// API key come from the environment or a .env file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dgallion1/pdfdigest/internal/chunker"
	"github.com/dgallion1/pdfdigest/internal/completion"
	"github.com/dgallion1/pdfdigest/internal/config"
	"github.com/dgallion1/pdfdigest/internal/pipeline"
	"github.com/dgallion1/pdfdigest/internal/samplepdf"
	"github.com/dgallion1/pdfdigest/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pdfdigest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pdfdigest [file.pdf]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Fprintln(stdout, "PDF Research Document Summarizer")
	fmt.Fprintln(stdout, strings.Repeat("-", 30))

	path := samplepdf.DefaultPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(stdout, "Error: The specified PDF file '%s' does not exist.\n", path)
		return 1
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		fmt.Fprintln(stdout, "Error: The file must be a PDF document.")
		return 1
	}

	fmt.Fprintf(stdout, "\nProcessing PDF: %s\n", path)
	fmt.Fprintln(stdout, "This may take a few minutes depending on the document size...")

	summary, err := summarizeFile(ctx, path, stderr)
	if err != nil {
		if isConfigError(err) {
			fmt.Fprintf(stdout, "\nConfiguration Error: %v\n", err)
		} else {
			fmt.Fprintf(stdout, "\nAn error occurred: %v\n", err)
		}
		return 1
	}

	fmt.Fprintln(stdout, "\nSummary of the PDF document:")
	fmt.Fprintln(stdout, strings.Repeat("-", 50))
	fmt.Fprintln(stdout, summary)
	return 0
}

func summarizeFile(ctx context.Context, path string, stderr io.Writer) (string, error) {
	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	log := cfg.NewLogger(stderr)

	if err := cfg.Validate(); err != nil {
		return "", err
	}

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "pdfdigest",
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		Writer:      stderr,
		Logger:      log,
	})
	if err != nil {
		return "", err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	p, llm, err := pipeline.FromConfig(ctx, cfg, log)
	if err != nil {
		return "", err
	}
	defer completion.Close(llm)

	summary, err := p.SummarizeFile(ctx, path)
	log.Info("llm latency", "model", llm.Model(), "stats", llm.Stats().Snapshot())
	return summary, err
}

func isConfigError(err error) bool {
	return errors.Is(err, config.ErrMissingCredential) ||
		errors.Is(err, config.ErrInvalid) ||
		errors.Is(err, chunker.ErrInvalidConfiguration)
}
