package chunker

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Default sizes in bytes. 500 characters keeps a chunk comfortably inside a
// sentence-embedding model's input window while staying large enough to hold
// a couple of dialogue turns.
const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Chunker splits a transcript into overlapping, paragraph-aligned chunks.
type Chunker struct {
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in bytes.
// Non-positive values fall back to the default.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets how many trailing bytes of a flushed chunk are carried
// into the next one. Negative values fall back to zero.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a Chunker with the default chunk size and overlap.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits text into overlapping chunks aligned to paragraph boundaries.
//
// Paragraphs (blank-line separated blocks) are accumulated greedily; when
// appending the next paragraph would push the buffer past the chunk size,
// the buffer is flushed and the next chunk is seeded with the tail of the
// flushed one so that answers spanning a boundary stay retrievable.
//
// A single paragraph longer than the chunk size is kept whole rather than
// split mid-sentence; it becomes one oversized chunk.
//
// Empty or whitespace-only input returns nil.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("empty text provided for chunking")
		return nil
	}

	paragraphs := splitParagraphs(text)

	var chunks []string
	var current string

	for _, paragraph := range paragraphs {
		// Flush when this paragraph would push the buffer past the limit
		if len(current)+len(paragraph) > c.chunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			// Seed the next chunk with the tail of the one just flushed
			current = c.overlapTail(current) + " " + paragraph
			continue
		}
		if current == "" {
			current = paragraph
		} else {
			current += "\n\n" + paragraph
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	c.logger.Debug("chunked text", "textLength", len(text), "chunks", len(chunks))
	return chunks
}

// overlapTail returns the trailing overlap bytes of buf, or the whole buffer
// when it is shorter than the overlap. The cut is moved forward to the next
// rune boundary so chunks are always valid UTF-8.
func (c *Chunker) overlapTail(buf string) string {
	if len(buf) <= c.overlap {
		return buf
	}
	tail := buf[len(buf)-c.overlap:]
	for len(tail) > 0 && !utf8.RuneStart(tail[0]) {
		tail = tail[1:]
	}
	return tail
}

// splitParagraphs splits on blank lines, trims each block, and drops empties.
func splitParagraphs(text string) []string {
	blocks := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
