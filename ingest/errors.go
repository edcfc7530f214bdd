package ingest

import "errors"

var (
	// ErrRepositoryRequired is returned when a transcript repository is not provided.
	ErrRepositoryRequired = errors.New("transcript repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyTranscript is returned when the raw transcript is blank.
	ErrEmptyTranscript = errors.New("transcript cannot be empty")

	// ErrInvalidMaxAttempts is returned when retry is configured with
	// a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
