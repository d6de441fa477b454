package document

import "strings"

// Document is the extracted text of one source file.
type Document struct {
	Title    string    // Document title (from metadata or filename)
	Sections []Section // Sections in read order
}

// Section is a contiguous run of document text: a PDF page, a heading
// section of a markdown/html/docx file, or a paragraph of plain text.
type Section struct {
	Heading string // Section heading (empty for pages and plain paragraphs)
	Text    string // Text content
	Page    int    // Source page (0 if N/A)
}

// Text returns the concatenated document text. Sections are separated by a
// blank line so the chunker sees them as paragraph boundaries.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	for _, s := range d.Sections {
		body := s.Text
		if s.Heading != "" {
			if body != "" {
				body = s.Heading + "\n" + body
			} else {
				body = s.Heading
			}
		}
		if body == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(body)
	}
	return sb.String()
}

// Pages returns the page texts in order. Sections without a page number are
// skipped; an unpaged document returns nil.
func (d *Document) Pages() []string {
	if d == nil {
		return nil
	}
	var pages []string
	for _, s := range d.Sections {
		if s.Page > 0 {
			pages = append(pages, s.Text)
		}
	}
	return pages
}

// Chunk is a bounded text segment of a document. Start and End are rune
// offsets into Document.Text(); End is exclusive.
type Chunk struct {
	Index int    // Sequence number within document
	Start int    // Rune offset of the first character
	End   int    // Rune offset one past the last character
	Text  string // Chunk text content
}

// Len returns the chunk length in runes.
func (c Chunk) Len() int {
	return c.End - c.Start
}
