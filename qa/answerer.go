// Copyright 2026 Lucerna Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qa

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/prompts"
	"github.com/lucerna/colloquy/retrieval"
	"github.com/lucerna/colloquy/storage"
)

// Answer is the outcome of a question against one transcript. Fallback is
// true when retrieval found nothing relevant and the canned response was
// served without a generative call.
type Answer struct {
	TranscriptId string
	Text         string
	Context      string
	Fallback     bool
}

// Answerer orchestrates question answering over stored transcripts:
// repository lookup, cached index retrieval, context assembly and the final
// generative call.
type Answerer struct {
	repository storage.TranscriptRepository
	cache      *retrieval.Cache
	assembler  *retrieval.Assembler
	generator  ai.Generator
	logger     *slog.Logger
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithAssembler replaces the default context assembler, e.g. to change the
// topK or similarity threshold.
func WithAssembler(assembler *retrieval.Assembler) Option {
	return func(a *Answerer) {
		if assembler != nil {
			a.assembler = assembler
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Answerer) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAnswerer creates an answerer over the given repository, index cache
// and generator.
func NewAnswerer(repository storage.TranscriptRepository, cache *retrieval.Cache, generator ai.Generator, opts ...Option) (*Answerer, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	a := &Answerer{
		repository: repository,
		cache:      cache,
		assembler:  retrieval.NewAssembler(),
		generator:  generator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "qa")
	return a, nil
}

// Ask answers a question about the transcript with the given id.
// When no context clears the relevance threshold, the canned fallback is
// returned and the generator is never called.
func (a *Answerer) Ask(ctx context.Context, transcriptId, query string) (*Answer, error) {
	return a.AskWithMonitor(ctx, transcriptId, query, nil)
}

// AskWithMonitor is Ask with retrieval observation hooks.
func (a *Answerer) AskWithMonitor(ctx context.Context, transcriptId, query string, monitor retrieval.RetrievalMonitor) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	assembled, err := a.retrieve(ctx, transcriptId, query, monitor)
	if err != nil {
		return nil, err
	}

	if assembled == "" {
		a.logger.Info("serving fallback response", "id", transcriptId, "query", query)
		return &Answer{
			TranscriptId: transcriptId,
			Text:         prompts.FallbackResponse,
			Fallback:     true,
		}, nil
	}

	prompt, err := prompts.RenderAnswer(assembled, query)
	if err != nil {
		return nil, err
	}

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &Answer{
		TranscriptId: transcriptId,
		Text:         text,
		Context:      assembled,
	}, nil
}

// Context returns only the assembled retrieval context for a query, without
// a generative call. An empty string means nothing cleared the threshold.
func (a *Answerer) Context(ctx context.Context, transcriptId, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	return a.retrieve(ctx, transcriptId, query, nil)
}

// Summarize generates an executive summary of the whole transcript.
// Summaries skip retrieval; the full contents go into the prompt.
func (a *Answerer) Summarize(ctx context.Context, transcriptId string) (string, error) {
	transcript, err := a.repository.GetTranscript(ctx, transcriptId)
	if err != nil {
		return "", err
	}

	prompt, err := prompts.RenderSummary(transcript.Contents)
	if err != nil {
		return "", err
	}

	return a.generator.Generate(ctx, prompt)
}

func (a *Answerer) retrieve(ctx context.Context, transcriptId, query string, monitor retrieval.RetrievalMonitor) (string, error) {
	transcript, err := a.repository.GetTranscript(ctx, transcriptId)
	if err != nil {
		return "", err
	}

	ix, err := a.cache.GetOrBuild(ctx, transcript.Id, transcript.Contents)
	if err != nil {
		return "", err
	}

	return a.assembler.ContextWithMonitor(ctx, ix, query, monitor)
}
