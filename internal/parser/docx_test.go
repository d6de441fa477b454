package parser

import (
	"bytes"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestDOCXParser_HeadingsAndParagraphs(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().Style("Heading1").AddText("Abstract")
	w.AddParagraph().AddText("AI improves diagnosis.")
	w.AddParagraph().AddText("It also speeds up triage.")
	w.AddParagraph().Style("Heading2").AddText("Challenges")
	w.AddParagraph().AddText("Privacy remains a concern.")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	doc, err := (&DOCXParser{}).Parse(&buf, "review.docx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Title != "review" {
		t.Errorf("expected title %q, got %q", "review", doc.Title)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "Abstract" || doc.Sections[0].Text != "AI improves diagnosis.\n\nIt also speeds up triage." {
		t.Errorf("unexpected first section %+v", doc.Sections[0])
	}
	if doc.Sections[1].Heading != "Challenges" {
		t.Errorf("unexpected second heading %q", doc.Sections[1].Heading)
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 3", 3},
		{"Title", 1},
		{"Normal", 0},
		{"Heading10", 0},
	}
	for _, tt := range tests {
		p := &docx.Paragraph{}
		p.Style(tt.style)
		if got := docxHeadingLevel(p); got != tt.want {
			t.Errorf("style %q: expected %d, got %d", tt.style, tt.want, got)
		}
	}
}
