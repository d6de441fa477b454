package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeSections(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	want := []struct{ heading, text string }{
		{"Title", "Intro text."},
		{"Section A", "Section A content."},
		{"Subsection A1", "Subsection A1 content."},
		{"Section B", "Section B content."},
	}
	if len(doc.Sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(doc.Sections))
	}
	for i, w := range want {
		if doc.Sections[i].Heading != w.heading {
			t.Errorf("section %d: expected heading %q, got %q", i, w.heading, doc.Sections[i].Heading)
		}
		if doc.Sections[i].Text != w.text {
			t.Errorf("section %d: expected text %q, got %q", i, w.text, doc.Sections[i].Text)
		}
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No headings: all text should be collected into a single section.
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section for headingless markdown, got %d", len(doc.Sections))
	}
	want := "Just some plain text.\n\nAnother paragraph here."
	if doc.Sections[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Sections[0].Text)
	}
}

func TestMarkdownParser_HeadingWithoutBodyIsKept(t *testing.T) {
	doc, err := (&MarkdownParser{}).Parse(strings.NewReader("# Title\n## Methods\n\nWe measured."), "m.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Text() != "Title\n\nMethods\nWe measured." {
		t.Errorf("unexpected document text %q", doc.Text())
	}
}

func TestMarkdownParser_MixedContentWithCodeBlocks(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	endpoints := doc.Sections[1]
	if endpoints.Heading != "Endpoints" {
		t.Errorf("expected heading %q, got %q", "Endpoints", endpoints.Heading)
	}
	if !strings.Contains(endpoints.Text, "GET /api/users") {
		t.Errorf("expected code block content in text, got %q", endpoints.Text)
	}
	if !strings.Contains(endpoints.Text, "More text after code.") {
		t.Errorf("expected post-code text, got %q", endpoints.Text)
	}
	if strings.Count(endpoints.Text, "List of endpoints:") != 1 {
		t.Errorf("expected paragraph text once, got %q", endpoints.Text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"docs/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}
