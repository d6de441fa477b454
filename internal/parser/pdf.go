package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/pdfdigest/internal/document"
)

var pdfMagic = []byte("%PDF-")

// PDFParser handles PDF files. It tries the Go library first, then falls
// back to pdftotext when enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

// OpenPDF reads and parses the PDF at path. A missing or unreadable file
// yields ErrFileNotReadable. A wrong extension, a missing PDF header or an
// unparseable body yields ErrNotAPdf.
func OpenPDF(path string, opts Options) (*document.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotReadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotReadable, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s does not have a .pdf extension", ErrNotAPdf, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotReadable, err)
	}
	defer f.Close()

	p := &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}
	return p.Parse(f, filepath.Base(path))
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotReadable, err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", ErrNotAPdf)
	}

	pages, title, err := extractPDFPages(data)
	if err != nil && p.FallbackPdftotext {
		var text string
		text, err = extractPdftotext(data)
		pages = strings.Split(text, "\f")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAPdf, err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	if title != "" {
		doc.Title = title
	}
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		doc.Sections = append(doc.Sections, document.Section{Text: page, Page: i + 1})
	}
	return doc, nil
}

// extractPDFPages returns the plain text of each page and the Info title.
// The library panics on some malformed inputs, so panics become errors.
func extractPDFPages(data []byte) (pages []string, title string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", err
	}
	title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, title, nil
}

// extractPdftotext runs the poppler pdftotext binary over data.
func extractPdftotext(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "pdfdigest-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.CommandContext(context.Background(), "pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("pdftotext not installed: %w", err)
		}
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
