package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/core"
)

// Index is a flat in-memory vector store over the chunks of one transcript.
// It is append-free: all vectors are built in one shot and the index is
// read-only afterwards, so it may be shared across concurrent searches.
type Index struct {
	embedder ai.Embedder
	vectors  [][]float32
	chunks   []core.Chunk
	logger   *slog.Logger
}

// Option configures index construction.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// Build embeds every chunk in one batched call and constructs an index over
// the normalized vectors. Vectors are L2-normalized so that inner product
// equals cosine similarity; a zero vector is stored as-is.
//
// Returns ErrNoChunks when chunks is empty. An embedder fault propagates
// unchanged and is fatal to the build.
func Build(ctx context.Context, embedder ai.Embedder, chunks []string, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	ix := &Index{
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}

	ix.logger.Debug("creating embeddings for chunks", "chunks", len(chunks))

	vectors, err := embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		ix.logger.Error("error embedding chunks", "err", err)
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(vectors))
	}

	ix.vectors = make([][]float32, len(vectors))
	ix.chunks = make([]core.Chunk, len(chunks))
	for i, vector := range vectors {
		ix.vectors[i] = NormalizeVector(vector)
		ix.chunks[i] = core.Chunk{Index: i, Text: chunks[i]}
	}

	ix.logger.Debug("vector index built", "vectors", len(ix.vectors))
	return ix, nil
}

// Len returns the number of stored vectors, which always equals the number
// of stored chunks.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Chunks returns the indexed chunks in their original order.
func (ix *Index) Chunks() []core.Chunk {
	return ix.chunks
}

// Search embeds the query and scores it against every stored vector by
// inner product, returning the min(topK, Len()) best chunks ordered by
// descending score. Ties keep original chunk order.
//
// An empty or whitespace-only query returns an empty result without error;
// absence of a query is not a fault.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]core.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		ix.logger.Warn("empty query provided for search")
		return nil, nil
	}
	if topK <= 0 {
		return nil, nil
	}

	queryVector, err := ix.embedder.EmbedText(ctx, query)
	if err != nil {
		ix.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	queryVector = NormalizeVector(queryVector)

	// Exact linear scan. At single-transcript scale (hundreds of chunks)
	// this beats any approximate structure.
	order := make([]int, len(ix.vectors))
	scores := make([]float32, len(ix.vectors))
	for i, vector := range ix.vectors {
		order[i] = i
		scores[i] = dotProduct(queryVector, vector)
	}

	// Stable sort keeps earlier chunks first on equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}

	results := make([]core.ScoredChunk, 0, topK)
	for _, idx := range order[:topK] {
		// Guard against stale indices if a store were ever rebuilt under us.
		if idx >= len(ix.chunks) {
			continue
		}
		results = append(results, core.ScoredChunk{
			Chunk: ix.chunks[idx],
			Score: scores[idx],
		})
	}

	ix.logger.Debug("search complete", "query", truncate(query, 50), "results", len(results))
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
