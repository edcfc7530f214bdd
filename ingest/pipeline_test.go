package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucerna/colloquy/ai/mock"
	"github.com/lucerna/colloquy/chunker"
	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/retrieval"
	badgerstore "github.com/lucerna/colloquy/storage/badger"
)

const rawTranscript = "[00:01] so um let's start with the budget\n\n[00:14] right, the review moves to Friday"

func TestNewPipeline(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrRepositoryRequired)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewPipeline(repo, nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("pool size floor", func(t *testing.T) {
		p, err := NewPipeline(repo, mock.NewMockProvider(), WithPoolSize(-1))
		require.NoError(t, err)
		defer p.Release()
		assert.NotNil(t, p.warmPool)
	})
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, opts ...Option) (*Pipeline, *mock.MockProvider, func()) {
		t.Helper()

		repo, backend, err := badgerstore.NewMemoryRepository()
		require.NoError(t, err)

		provider := mock.NewMockProvider().(*mock.MockProvider)
		p, err := NewPipeline(repo, provider, opts...)
		require.NoError(t, err)

		return p, provider, func() {
			p.Release()
			repo.Close()
			backend.Close()
		}
	}

	t.Run("blank transcript", func(t *testing.T) {
		p, _, done := setup(t)
		defer done()

		_, err := p.Ingest(ctx, "  \n ", nil)
		assert.ErrorIs(t, err, ErrEmptyTranscript)
	})

	t.Run("structures through the generator by default", func(t *testing.T) {
		p, provider, done := setup(t)
		defer done()

		structured := "# Meeting Summary\n\nSpeaker 1: The budget review moves to Friday."
		provider.GetMockGenerator().GenerateFunc = func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, rawTranscript)
			return structured, nil
		}

		transcript, err := p.Ingest(ctx, rawTranscript, &IngestOptions{Title: "sync"})
		require.NoError(t, err)

		assert.Equal(t, structured, transcript.Contents)
		assert.Equal(t, core.IDFromContent(structured), transcript.Id)
		assert.Equal(t, "sync", transcript.Title)
		assert.False(t, transcript.InsertedAt.IsZero())

		stored, err := p.repository.GetTranscript(ctx, transcript.Id)
		require.NoError(t, err)
		assert.Equal(t, structured, stored.Contents)
	})

	t.Run("skip structuring stores raw text verbatim", func(t *testing.T) {
		p, provider, done := setup(t)
		defer done()

		transcript, err := p.Ingest(ctx, rawTranscript, &IngestOptions{SkipStructuring: true})
		require.NoError(t, err)

		assert.Equal(t, rawTranscript, transcript.Contents)
		assert.Equal(t, core.IDFromContent(rawTranscript), transcript.Id)
		assert.Equal(t, 0, provider.GetMockGenerator().CallCount())
	})

	t.Run("structuring retries transient failures", func(t *testing.T) {
		p, provider, done := setup(t)
		defer done()

		calls := 0
		provider.GetMockGenerator().GenerateFunc = func(context.Context, string) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("model busy")
			}
			return "structured", nil
		}

		transcript, err := p.Ingest(ctx, rawTranscript, nil)
		require.NoError(t, err)
		assert.Equal(t, "structured", transcript.Contents)
		assert.Equal(t, 2, calls)
	})

	t.Run("structuring failure does not store anything", func(t *testing.T) {
		p, provider, done := setup(t)
		defer done()

		boom := errors.New("model unavailable")
		provider.GetMockGenerator().GenerateFunc = func(context.Context, string) (string, error) {
			return "", boom
		}

		_, err := p.Ingest(ctx, rawTranscript, nil)
		assert.ErrorIs(t, err, boom)

		listed, err := p.repository.ListTranscripts(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("re-ingesting identical contents overwrites", func(t *testing.T) {
		p, _, done := setup(t)
		defer done()

		first, err := p.Ingest(ctx, rawTranscript, &IngestOptions{SkipStructuring: true})
		require.NoError(t, err)
		second, err := p.Ingest(ctx, rawTranscript, &IngestOptions{SkipStructuring: true})
		require.NoError(t, err)

		assert.Equal(t, first.Id, second.Id)

		listed, err := p.repository.ListTranscripts(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("warm cache gets the index built asynchronously", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		cache, err := retrieval.NewCache(chunker.New(), embedder)
		require.NoError(t, err)

		p, _, done := setup(t, WithWarmCache(cache))
		defer done()

		_, err = p.Ingest(ctx, rawTranscript, &IngestOptions{SkipStructuring: true})
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return cache.Len() == 1
		}, 2*time.Second, 10*time.Millisecond, "warm-up should build the index")
		assert.Greater(t, embedder.CallCount(), 0)
	})

	t.Run("warm-up failure never fails ingestion", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, errors.New("embedder down")
		}
		cache, err := retrieval.NewCache(chunker.New(), embedder)
		require.NoError(t, err)

		p, _, done := setup(t, WithWarmCache(cache))
		defer done()

		transcript, err := p.Ingest(ctx, rawTranscript, &IngestOptions{SkipStructuring: true})
		require.NoError(t, err)
		assert.NotEmpty(t, transcript.Id)
	})
}
