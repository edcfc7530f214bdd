package retrieval

import (
	"log/slog"

	"github.com/lucerna/colloquy/core"
)

// RetrievalMonitor provides hooks to observe context assembly.
// Implement this interface to track intermediate steps during retrieval.
type RetrievalMonitor interface {
	Start(query string)
	AfterSearch(results []core.ScoredChunk)
	Discarded(result core.ScoredChunk, threshold float32)
	Finish(context string)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterSearch(_ []core.ScoredChunk)        {}
func (n *noopMonitor) Discarded(_ core.ScoredChunk, _ float32) {}
func (n *noopMonitor) Finish(_ string)                         {}

// LoggingMonitor reports each retrieval stage through a slog.Logger.
// Useful for CLI verbose mode and debugging relevance thresholds.
type LoggingMonitor struct {
	Logger *slog.Logger
}

var _ RetrievalMonitor = (*LoggingMonitor)(nil)

func (m *LoggingMonitor) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *LoggingMonitor) Start(query string) {
	m.logger().Info("retrieval started", "query", query)
}

func (m *LoggingMonitor) AfterSearch(results []core.ScoredChunk) {
	for _, result := range results {
		m.logger().Info("candidate",
			"chunk", result.Chunk.Index, "score", result.Score)
	}
}

func (m *LoggingMonitor) Discarded(result core.ScoredChunk, threshold float32) {
	m.logger().Info("discarded below threshold",
		"chunk", result.Chunk.Index, "score", result.Score, "threshold", threshold)
}

func (m *LoggingMonitor) Finish(context string) {
	m.logger().Info("retrieval finished", "contextLength", len(context))
}
