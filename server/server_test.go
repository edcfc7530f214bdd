package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucerna/colloquy/ai/mock"
	"github.com/lucerna/colloquy/chunker"
	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/ingest"
	"github.com/lucerna/colloquy/qa"
	"github.com/lucerna/colloquy/retrieval"
	badgerstore "github.com/lucerna/colloquy/storage/badger"
)

type testServer struct {
	handler  http.Handler
	provider *mock.MockProvider
	cleanup  func()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)

	provider := mock.NewMockProvider().(*mock.MockProvider)

	cache, err := retrieval.NewCache(chunker.New(), provider.Embedder())
	require.NoError(t, err)

	pipeline, err := ingest.NewPipeline(repo, provider)
	require.NoError(t, err)

	answerer, err := qa.NewAnswerer(repo, cache, provider.Generator())
	require.NoError(t, err)

	srv, err := NewServer(":0", repo, pipeline, answerer)
	require.NoError(t, err)

	return &testServer{
		handler:  srv.Handler(),
		provider: provider,
		cleanup: func() {
			pipeline.Release()
			repo.Close()
			backend.Close()
		},
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec, decoded
}

// matchEverything makes retrieval always clear the threshold.
func matchEverything(m *mock.MockEmbedder) {
	same := []float32{1, 0, 0}
	m.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return same, nil
	}
	m.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = same
		}
		return out, nil
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	defer ts.cleanup()

	rec, body := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["status"])
}

func TestIngestEndpoint(t *testing.T) {
	t.Run("stores raw text when structuring is disabled", func(t *testing.T) {
		ts := newTestServer(t)
		defer ts.cleanup()

		structure := false
		rec, body := ts.do(t, http.MethodPost, "/transcripts", ingestRequest{
			Title:     "standup",
			Text:      "Speaker 1: we shipped the feature",
			Structure: &structure,
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, true, body["success"])

		view := body["transcript"].(map[string]any)
		assert.Equal(t, core.IDFromContent("Speaker 1: we shipped the feature"), view["id"])
		assert.Equal(t, "standup", view["title"])
		assert.Equal(t, 0, ts.provider.GetMockGenerator().CallCount())
	})

	t.Run("structures by default", func(t *testing.T) {
		ts := newTestServer(t)
		defer ts.cleanup()

		ts.provider.GetMockGenerator().GenerateFunc = func(context.Context, string) (string, error) {
			return "structured document", nil
		}

		rec, body := ts.do(t, http.MethodPost, "/transcripts", ingestRequest{Text: "raw text"})
		require.Equal(t, http.StatusCreated, rec.Code)

		view := body["transcript"].(map[string]any)
		assert.Equal(t, core.IDFromContent("structured document"), view["id"])
	})

	t.Run("missing text is a 400", func(t *testing.T) {
		ts := newTestServer(t)
		defer ts.cleanup()

		rec, body := ts.do(t, http.MethodPost, "/transcripts", ingestRequest{Title: "no text"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		ts := newTestServer(t)
		defer ts.cleanup()

		req := httptest.NewRequest(http.MethodPost, "/transcripts", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTranscriptEndpoint(t *testing.T) {
	ts := newTestServer(t)
	defer ts.cleanup()

	structure := false
	_, created := ts.do(t, http.MethodPost, "/transcripts", ingestRequest{
		Text:      "Speaker 1: hello",
		Structure: &structure,
	})
	id := created["transcript"].(map[string]any)["id"].(string)

	t.Run("found", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodGet, "/transcripts/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		view := body["transcript"].(map[string]any)
		assert.Equal(t, "Speaker 1: hello", view["contents"])
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		rec, body := ts.do(t, http.MethodGet, "/transcripts/deadbeef00000000", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, body["success"])
	})
}

func TestListEndpoint(t *testing.T) {
	ts := newTestServer(t)
	defer ts.cleanup()

	structure := false
	ts.do(t, http.MethodPost, "/transcripts", ingestRequest{Text: "first", Structure: &structure})
	ts.do(t, http.MethodPost, "/transcripts", ingestRequest{Text: "second", Structure: &structure})

	rec, body := ts.do(t, http.MethodGet, "/transcripts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	views := body["transcripts"].([]any)
	assert.Len(t, views, 2)
	// Listings omit contents
	first := views[0].(map[string]any)
	_, hasContents := first["contents"]
	assert.False(t, hasContents)
}

func TestChatEndpoint(t *testing.T) {
	setup := func(t *testing.T) (*testServer, string) {
		t.Helper()
		ts := newTestServer(t)

		structure := false
		_, created := ts.do(t, http.MethodPost, "/transcripts", ingestRequest{
			Text:      "Speaker 1: the launch is on Monday",
			Structure: &structure,
		})
		id := created["transcript"].(map[string]any)["id"].(string)
		return ts, id
	}

	t.Run("answers with context", func(t *testing.T) {
		ts, id := setup(t)
		defer ts.cleanup()
		matchEverything(ts.provider.GetMockEmbedder())

		ts.provider.GetMockGenerator().GenerateFunc = func(context.Context, string) (string, error) {
			return "Monday.", nil
		}

		rec, body := ts.do(t, http.MethodPost, "/chat", chatRequest{TranscriptId: id, Query: "When is the launch?"})
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Monday.", body["answer"])
		assert.Equal(t, false, body["fallback"])
		assert.Equal(t, id, body["transcript_id"])
	})

	t.Run("fallback when nothing is relevant", func(t *testing.T) {
		ts, id := setup(t)
		defer ts.cleanup()

		// Queries orthogonal to every chunk, so retrieval comes back empty.
		embedder := ts.provider.GetMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return []float32{0, 0, 1}, nil
		}
		embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
			out := make([][]float32, len(texts))
			for i := range texts {
				out[i] = []float32{1, 0, 0}
			}
			return out, nil
		}

		rec, body := ts.do(t, http.MethodPost, "/chat", chatRequest{TranscriptId: id, Query: "Something unrelated entirely?"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["fallback"])
	})

	t.Run("unknown transcript is a 404", func(t *testing.T) {
		ts, id := setup(t)
		defer ts.cleanup()
		_ = id

		rec, _ := ts.do(t, http.MethodPost, "/chat", chatRequest{TranscriptId: "missing", Query: "q"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		ts, id := setup(t)
		defer ts.cleanup()

		rec, _ := ts.do(t, http.MethodPost, "/chat", chatRequest{Query: "q"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = ts.do(t, http.MethodPost, "/chat", chatRequest{TranscriptId: id})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
