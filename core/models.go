package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic transcript id from text content
// using BLAKE2b hashing. Identical content always produces the same id, so
// re-ingesting an unchanged transcript never creates a duplicate record.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return fmt.Sprintf("%016x", binary.LittleEndian.Uint64(sum))
}

// Transcript is a processed meeting transcript. Contents are immutable once
// the transcript has been stored; re-chunking always starts from Contents.
type Transcript struct {
	Id         string
	Title      string
	Contents   string            // Structured transcript text, the unit of retrieval
	InsertedAt time.Time         // When the transcript was stored
	UpdatedAt  time.Time         // When the record was last touched
	Metadata   map[string]string // Optional metadata (e.g., "source", "duration")
}

// Chunk is a contiguous, possibly overlapping segment of a transcript.
// Index is the chunk's stable zero-based position within its transcript.
type Chunk struct {
	Index int
	Text  string
}

// ScoredChunk is a chunk paired with its similarity score for a query.
// Scores are cosine similarities computed as inner products of unit vectors.
type ScoredChunk struct {
	Chunk Chunk
	Score float32
}
