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


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lucerna/colloquy/ingest"
	"github.com/lucerna/colloquy/qa"
	"github.com/lucerna/colloquy/storage"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 5 * time.Minute // generative calls are slow
)

// Server exposes ingestion and question answering over HTTP.
type Server struct {
	repository storage.TranscriptRepository
	pipeline   *ingest.Pipeline
	answerer   *qa.Answerer
	httpServer *http.Server
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewServer creates an HTTP server bound to addr.
func NewServer(addr string, repository storage.TranscriptRepository, pipeline *ingest.Pipeline, answerer *qa.Answerer, opts ...Option) (*Server, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}

	s := &Server{
		repository: repository,
		pipeline:   pipeline,
		answerer:   answerer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	return s, nil
}

// Handler returns the route table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /transcripts", s.handleIngest)
	mux.HandleFunc("GET /transcripts", s.handleList)
	mux.HandleFunc("GET /transcripts/{id}", s.handleGet)
	mux.HandleFunc("POST /chat", s.handleChat)
	return mux
}

// Start begins serving and blocks until the server stops.
// Returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully, waiting for in-flight requests
// until the context is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
