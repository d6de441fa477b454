package document

import "testing"

func TestDocument_TextJoinsSections(t *testing.T) {
	doc := &Document{
		Title: "Report",
		Sections: []Section{
			{Text: "Page one.", Page: 1},
			{Text: "", Page: 2},
			{Text: "Page three.", Page: 3},
		},
	}
	want := "Page one.\n\nPage three."
	if got := doc.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocument_TextIncludesHeadings(t *testing.T) {
	doc := &Document{
		Sections: []Section{
			{Heading: "Intro", Text: "Hello."},
			{Heading: "Empty"},
			{Text: "Tail."},
		},
	}
	want := "Intro\nHello.\n\nEmpty\n\nTail."
	if got := doc.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocument_Pages(t *testing.T) {
	doc := &Document{
		Sections: []Section{
			{Text: "a", Page: 1},
			{Text: "heading text"},
			{Text: "b", Page: 2},
		},
	}
	pages := doc.Pages()
	if len(pages) != 2 || pages[0] != "a" || pages[1] != "b" {
		t.Errorf("expected [a b], got %v", pages)
	}
}

func TestDocument_NilIsEmpty(t *testing.T) {
	var doc *Document
	if doc.Text() != "" {
		t.Error("expected empty text for nil document")
	}
	if doc.Pages() != nil {
		t.Error("expected nil pages for nil document")
	}
}

func TestChunk_Len(t *testing.T) {
	c := Chunk{Start: 1800, End: 3800}
	if c.Len() != 2000 {
		t.Errorf("expected 2000, got %d", c.Len())
	}
}
