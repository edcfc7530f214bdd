package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/index"
)

// Retrieval defaults. TopK bounds how many candidates are considered;
// MinSimilarity decides how good a candidate must be to matter. The two are
// deliberately separate: a transcript with only weak matches should produce
// no context rather than noisy context.
const (
	DefaultTopK          = 3
	DefaultMinSimilarity = 0.3
)

// sectionSeparator joins formatted context sections.
const sectionSeparator = "\n\n---\n\n"

// Assembler turns search results into a single context block for a
// downstream generative call.
type Assembler struct {
	topK          int
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithTopK sets how many candidates the search considers.
// Non-positive values fall back to the default.
func WithTopK(topK int) Option {
	return func(a *Assembler) {
		if topK > 0 {
			a.topK = topK
		}
	}
}

// WithMinSimilarity sets the relevance threshold. Candidates scoring
// strictly below it are discarded.
func WithMinSimilarity(min float32) Option {
	return func(a *Assembler) {
		a.minSimilarity = min
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAssembler creates an assembler with the default topK and threshold.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		topK:          DefaultTopK,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Context retrieves the topK candidates for the query, drops those under
// the similarity threshold, and formats the survivors into one context
// block. An empty string means nothing relevant was found; that is a valid
// first-class outcome, not an error, and is the caller's cue to fall back
// to a canned response instead of generating from noise.
func (a *Assembler) Context(ctx context.Context, ix *index.Index, query string) (string, error) {
	return a.ContextWithMonitor(ctx, ix, query, nil)
}

// ContextWithMonitor is Context with observation hooks at each stage.
func (a *Assembler) ContextWithMonitor(ctx context.Context, ix *index.Index, query string, monitor RetrievalMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	results, err := ix.Search(ctx, query, a.topK)
	if err != nil {
		return "", err
	}
	monitor.AfterSearch(results)

	filtered := make([]core.ScoredChunk, 0, len(results))
	for _, result := range results {
		if result.Score >= a.minSimilarity {
			filtered = append(filtered, result)
			continue
		}
		monitor.Discarded(result, a.minSimilarity)
	}

	if len(filtered) == 0 {
		a.logger.Warn("no results above similarity threshold",
			"threshold", a.minSimilarity, "candidates", len(results))
		monitor.Finish("")
		return "", nil
	}

	sections := make([]string, len(filtered))
	for i, result := range filtered {
		sections[i] = fmt.Sprintf("[Relevant Section %d] (Relevance: %.2f)\n%s",
			i+1, result.Score, result.Chunk.Text)
	}
	assembled := strings.Join(sections, sectionSeparator)

	a.logger.Debug("assembled context",
		"length", len(assembled), "sections", len(filtered))
	monitor.Finish(assembled)

	return assembled, nil
}
