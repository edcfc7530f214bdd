package server

import "errors"

var (
	// ErrRepositoryRequired is returned when a transcript repository is not provided.
	ErrRepositoryRequired = errors.New("transcript repository required")

	// ErrPipelineRequired is returned when an ingestion pipeline is not provided.
	ErrPipelineRequired = errors.New("ingestion pipeline required")

	// ErrAnswererRequired is returned when an answerer is not provided.
	ErrAnswererRequired = errors.New("answerer required")
)
