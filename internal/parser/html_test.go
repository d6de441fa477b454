package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_SectionsFromHeadings(t *testing.T) {
	input := `<html><head><title>AI Review</title><style>p{}</style></head>
<body>
<nav><p>Home</p></nav>
<h1>Abstract</h1>
<p>This paper reviews AI.</p>
<h2>Methods</h2>
<p>We surveyed <b>papers</b>.</p>
<ul><li>One</li><li>Two</li></ul>
<script>var x = 1;</script>
</body></html>`

	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "review.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "AI Review" {
		t.Errorf("expected <title> as document title, got %q", doc.Title)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Heading != "Abstract" || doc.Sections[0].Text != "This paper reviews AI." {
		t.Errorf("unexpected first section %+v", doc.Sections[0])
	}
	if doc.Sections[1].Text != "We surveyed papers.\n\nOne\n\nTwo" {
		t.Errorf("unexpected second section text %q", doc.Sections[1].Text)
	}
	if strings.Contains(doc.Text(), "Home") || strings.Contains(doc.Text(), "var x") {
		t.Errorf("navigation and scripts should be skipped: %q", doc.Text())
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<p>Body only.</p>"), "page.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "page" {
		t.Errorf("expected filename title, got %q", doc.Title)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Text != "Body only." {
		t.Errorf("unexpected sections %+v", doc.Sections)
	}
}
