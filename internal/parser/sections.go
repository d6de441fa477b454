package parser

import (
	"strings"

	"github.com/dgallion1/pdfdigest/internal/document"
)

// sectionBuilder turns a stream of headings and text blocks into ordered
// sections. Each heading opens a new section; text accumulates into the
// most recent one.
type sectionBuilder struct {
	sections []document.Section
	heading  string
	open     bool
	pending  strings.Builder
}

func (b *sectionBuilder) addHeading(title string) {
	b.flush()
	b.heading = strings.TrimSpace(title)
	b.open = b.heading != ""
}

func (b *sectionBuilder) addText(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.pending.Len() > 0 {
		b.pending.WriteString("\n\n")
	}
	b.pending.WriteString(t)
}

func (b *sectionBuilder) flush() {
	text := b.pending.String()
	if text != "" || b.open {
		b.sections = append(b.sections, document.Section{Heading: b.heading, Text: text})
	}
	b.pending.Reset()
	b.heading = ""
	b.open = false
}

func (b *sectionBuilder) done() []document.Section {
	b.flush()
	return b.sections
}
