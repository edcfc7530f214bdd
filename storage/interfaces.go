package storage

import (
	"context"

	"github.com/lucerna/colloquy/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// TranscriptRepository provides operations for managing processed transcripts.
type TranscriptRepository interface {
	Repository

	// PutTranscript stores a transcript under its id, overwriting any
	// previous version. Sets InsertedAt on first write and refreshes
	// UpdatedAt on every write. Returns the stored transcript with
	// timestamps populated.
	PutTranscript(ctx context.Context, transcript *core.Transcript) (*core.Transcript, error)

	// GetTranscript retrieves a single transcript by id.
	// Returns ErrNotFound if the transcript doesn't exist.
	GetTranscript(ctx context.Context, id string) (*core.Transcript, error)

	// DeleteTranscript removes a transcript by id.
	// Returns ErrNotFound if the transcript doesn't exist.
	DeleteTranscript(ctx context.Context, id string) error

	// ListTranscripts retrieves stored transcripts ordered by insertion time,
	// most recent first. Returns up to limit transcripts; a non-positive
	// limit returns all of them.
	ListTranscripts(ctx context.Context, limit int) ([]*core.Transcript, error)
}
