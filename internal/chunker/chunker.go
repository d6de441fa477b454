package chunker

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/dgallion1/pdfdigest/internal/document"
)

// ErrInvalidConfiguration is returned for chunk sizes or overlaps that cannot
// produce a forward-moving split.
var ErrInvalidConfiguration = errors.New("invalid chunking configuration")

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Maximum chunk size in characters.
	ChunkOverlap int // Characters shared by consecutive chunks.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    2000,
		ChunkOverlap: 200,
	}
}

// Validate checks that the configuration can split text.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidConfiguration, c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// Split splits text using this configuration.
func (c Config) Split(text string) ([]document.Chunk, error) {
	return Split(text, c.ChunkSize, c.ChunkOverlap)
}

// Split breaks text into chunks of at most maxChunkSize characters. Each
// chunk after the first starts overlap characters before the previous one
// ended. Cuts land on a paragraph, line, sentence or word boundary when one
// exists in the last tenth of the window.
func Split(text string, maxChunkSize, overlap int) ([]document.Chunk, error) {
	cfg := Config{ChunkSize: maxChunkSize, ChunkOverlap: overlap}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}

	lookback := maxChunkSize / 10
	var chunks []document.Chunk
	start := 0
	for {
		end := start + maxChunkSize
		if end >= n {
			chunks = append(chunks, newChunk(runes, len(chunks), start, n))
			return chunks, nil
		}
		end = findBoundary(runes, start, end, overlap, lookback)
		chunks = append(chunks, newChunk(runes, len(chunks), start, end))
		start = end - overlap
	}
}

func newChunk(runes []rune, index, start, end int) document.Chunk {
	return document.Chunk{
		Index: index,
		Start: start,
		End:   end,
		Text:  string(runes[start:end]),
	}
}

// boundaries are tried in order; each reports whether a cut at i (so the
// chunk ends with runes[i-1]) lands on that kind of boundary.
var boundaries = []func(runes []rune, i int) bool{
	// Paragraph break.
	func(r []rune, i int) bool { return i >= 2 && r[i-1] == '\n' && r[i-2] == '\n' },
	// Line break.
	func(r []rune, i int) bool { return r[i-1] == '\n' },
	// Sentence end followed by whitespace.
	func(r []rune, i int) bool {
		if i < 2 || !unicode.IsSpace(r[i-1]) {
			return false
		}
		switch r[i-2] {
		case '.', '!', '?':
			return true
		}
		return false
	},
	// Word break.
	func(r []rune, i int) bool { return unicode.IsSpace(r[i-1]) },
}

// findBoundary returns the cut position for a chunk starting at start whose
// hard limit is end. The cut must leave the next start (cut-overlap) past
// the current start.
func findBoundary(runes []rune, start, end, overlap, lookback int) int {
	floor := start + overlap + 1
	if lo := end - lookback; lo > floor {
		floor = lo
	}
	if floor >= end {
		return end
	}
	for _, isBoundary := range boundaries {
		for i := end; i >= floor; i-- {
			if isBoundary(runes, i) {
				return i
			}
		}
	}
	return end
}
