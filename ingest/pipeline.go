package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/prompts"
	"github.com/lucerna/colloquy/retrieval"
	"github.com/lucerna/colloquy/storage"
)

// Structuring retry policy. The structuring call is the longest generative
// request in the system and transient model errors are common, so it gets
// a bounded exponential backoff.
const (
	structuringMaxAttempts = 3
	structuringBaseDelay   = 500 * time.Millisecond
)

// Pipeline orchestrates transcript ingestion: optional LLM structuring,
// content-hash id assignment, storage, and asynchronous index warm-up.
type Pipeline struct {
	repository storage.TranscriptRepository
	generator  ai.Generator
	cache      *retrieval.Cache
	warmPool   *ants.Pool
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous index warm-up.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.warmPool != nil {
			p.warmPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.warmPool = pool
		return nil
	}
}

// WithWarmCache sets the index cache that ingested transcripts are warmed
// into. Without it, warm-up is skipped and the first question pays the
// embedding cost.
func WithWarmCache(cache *retrieval.Cache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(repository storage.TranscriptRepository, provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		generator:  provider.Generator(),
		warmPool:   pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.logger = p.logger.With("component", "ingest")
	return p, nil
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	Title           string
	Metadata        map[string]string
	SkipStructuring bool // Store the raw text verbatim instead of structuring it
}

// Ingest processes a raw transcript: structures it through the model unless
// disabled, derives a content-hash id, stores the result, and submits an
// asynchronous index warm-up. Warm-up errors are logged but never fail the
// ingestion. Identical contents always map to the same id, so re-ingesting
// an unchanged transcript overwrites rather than duplicates.
func (p *Pipeline) Ingest(ctx context.Context, raw string, opts *IngestOptions) (*core.Transcript, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyTranscript
	}

	contents := raw
	if !opts.SkipStructuring {
		structured, err := p.structure(ctx, raw)
		if err != nil {
			return nil, err
		}
		contents = structured
	}

	transcript := &core.Transcript{
		Id:       core.IDFromContent(contents),
		Title:    opts.Title,
		Contents: contents,
		Metadata: opts.Metadata,
	}

	stored, err := p.repository.PutTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	p.logger.Info("transcript ingested",
		"id", stored.Id, "title", stored.Title, "length", len(stored.Contents))

	p.submitWarmup(stored.Id, stored.Contents)

	return stored, nil
}

// structure runs the structuring prompt with retry. A transcript that still
// fails after all attempts is not stored; the caller decides whether to
// retry later or ingest with SkipStructuring.
func (p *Pipeline) structure(ctx context.Context, raw string) (string, error) {
	prompt, err := prompts.RenderStructuring(raw)
	if err != nil {
		return "", err
	}

	var structured string
	err = RetryWithBackoff(ctx, func() error {
		result, genErr := p.generator.Generate(ctx, prompt)
		if genErr != nil {
			return genErr
		}
		if strings.TrimSpace(result) == "" {
			return ErrEmptyTranscript
		}
		structured = result
		return nil
	}, structuringMaxAttempts, structuringBaseDelay)
	if err != nil {
		return "", err
	}

	return structured, nil
}

// submitWarmup schedules an index build so the first question about the
// transcript finds a warm cache.
func (p *Pipeline) submitWarmup(id, contents string) {
	if p.cache == nil {
		return
	}

	err := p.warmPool.Submit(func() {
		if _, warmErr := p.cache.GetOrBuild(context.Background(), id, contents); warmErr != nil {
			p.logger.Error("error warming index cache", "id", id, "err", warmErr)
			return
		}
		p.logger.Debug("index cache warmed", "id", id)
	})
	if err != nil {
		p.logger.Error("error submitting warm-up task", "id", id, "err", err)
	}
}

// Release releases the warm-up worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.warmPool != nil {
		p.warmPool.Release()
	}
}
