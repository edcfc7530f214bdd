package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_EmptyInput(t *testing.T) {
	c := New()

	t.Run("empty string", func(t *testing.T) {
		assert.Nil(t, c.Chunk(""))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Nil(t, c.Chunk("   "))
	})

	t.Run("blank lines only", func(t *testing.T) {
		assert.Nil(t, c.Chunk("\n\n\n\n"))
	})
}

func TestChunk_SingleChunk(t *testing.T) {
	c := New()

	t.Run("short text without paragraph breaks", func(t *testing.T) {
		chunks := c.Chunk("  The budget review moved to Thursday.  ")
		require.Len(t, chunks, 1)
		assert.Equal(t, "The budget review moved to Thursday.", chunks[0])
	})

	t.Run("two paragraphs under the chunk size join with a blank line", func(t *testing.T) {
		text := "Alpha project kicks off next week.\n\nBob will own the budget review."
		chunks := c.Chunk(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Alpha project kicks off next week.\n\nBob will own the budget review.", chunks[0])
	})
}

func TestChunk_MultipleChunks(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(20))

	paragraphs := []string{
		"Speaker 1 opened the meeting with a review of the quarterly numbers.",
		"Speaker 2 raised a concern about the hiring pipeline slowing down.",
		"Speaker 1 agreed to follow up with recruiting before Friday.",
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	t.Run("every paragraph lands in some chunk", func(t *testing.T) {
		joined := strings.Join(chunks, "\n")
		for _, p := range paragraphs {
			assert.Contains(t, joined, p)
		}
	})

	t.Run("each chunk begins with at most overlap bytes of the previous one", func(t *testing.T) {
		for i := 1; i < len(chunks); i++ {
			prev := chunks[i-1]
			// The seed is the previous chunk's tail followed by a space.
			seed := strings.SplitN(chunks[i], " ", 2)[0]
			assert.LessOrEqual(t, len(seed), 20)
			assert.True(t, strings.Contains(prev, seed),
				"chunk %d should start with a tail of chunk %d", i, i-1)
		}
	})
}

func TestChunk_OversizedParagraph(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(10))

	// A single paragraph longer than the chunk size is kept whole.
	long := strings.Repeat("all hands recap ", 20)
	chunks := c.Chunk(long)
	require.Len(t, chunks, 1)
	assert.Greater(t, len(chunks[0]), 50)
}

func TestChunk_OverlapShorterThanBuffer(t *testing.T) {
	// When the flushed buffer is shorter than the overlap, the whole buffer
	// seeds the next chunk.
	c := New(WithChunkSize(30), WithOverlap(100))

	text := "First short paragraph here.\n\nSecond short paragraph follows."
	chunks := c.Chunk(text)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First short paragraph here.", chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "First short paragraph here. "))
}

func TestChunk_RuneSafeOverlap(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(7))

	text := "Résumé discussion covered the café rollout plan in depth.\n\nNästa möte sker på fredag eftermiddag."
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.True(t, strings.ToValidUTF8(chunk, "") == chunk, "chunk %d is not valid UTF-8", i)
	}
}

func TestChunk_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultOverlap, c.overlap)

	t.Run("non-positive chunk size is ignored", func(t *testing.T) {
		c := New(WithChunkSize(0))
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
	})

	t.Run("negative overlap is ignored", func(t *testing.T) {
		c := New(WithOverlap(-1))
		assert.Equal(t, DefaultOverlap, c.overlap)
	})
}
