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


package colloquy

import (
	"log/slog"

	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/ai/openai"
	"github.com/lucerna/colloquy/chunker"
	"github.com/lucerna/colloquy/ingest"
	"github.com/lucerna/colloquy/prompts"
	"github.com/lucerna/colloquy/qa"
	"github.com/lucerna/colloquy/retrieval"
	"github.com/lucerna/colloquy/storage"
	"github.com/lucerna/colloquy/storage/badger"
)

// Assistant aggregates the storage backend, AI provider and retrieval cache
// behind one handle. It is the entry point for embedding colloquy in a
// program; cmd/colloquy builds everything through it.
type Assistant struct {
	backend    *badger.Backend
	repository storage.TranscriptRepository
	provider   ai.Provider
	cache      *retrieval.Cache
	logger     *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a pre-built AI provider, e.g. a mock in tests.
// Takes precedence over WithAIConfig.
func WithProvider(provider ai.Provider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all transcripts in memory instead of on disk.
// The filePath argument is ignored.
func WithInMemoryStorage() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant opens the storage backend at filePath and wires the
// repository, AI provider and index cache together.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repository, err := badger.NewTranscriptRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repository.Close()
			backend.Close()
			return nil, err
		}
	}

	cache, err := retrieval.NewCache(chunker.New(), provider.Embedder())
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:    backend,
		repository: repository,
		provider:   provider,
		cache:      cache,
		logger:     slog.Default(),
	}, nil
}

// Close releases the AI provider, repository and storage backend in order.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.repository.Close(); err != nil {
		a.logger.Error("error closing transcript repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Repository returns the transcript repository.
func (a *Assistant) Repository() storage.TranscriptRepository {
	return a.repository
}

// Cache returns the shared index cache.
func (a *Assistant) Cache() *retrieval.Cache {
	return a.cache
}

// NewPipeline creates an ingestion pipeline that warms the shared cache.
func (a *Assistant) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	opts = append([]ingest.Option{ingest.WithWarmCache(a.cache)}, opts...)
	return ingest.NewPipeline(a.repository, a.provider, opts...)
}

// NewAnswerer creates an answerer over the shared repository and cache.
func (a *Assistant) NewAnswerer(opts ...qa.Option) (*qa.Answerer, error) {
	return qa.NewAnswerer(a.repository, a.cache, a.provider.Generator(), opts...)
}
