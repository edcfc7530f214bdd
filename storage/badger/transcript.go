package badger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/lucerna/colloquy/core"
	"github.com/lucerna/colloquy/storage"
)

// TranscriptRepository implements storage.TranscriptRepository for BadgerDB.
type TranscriptRepository struct {
	backend *Backend
}

var _ storage.TranscriptRepository = (*TranscriptRepository)(nil)

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(backend *Backend) (storage.TranscriptRepository, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &TranscriptRepository{backend: backend}, nil
}

// Close releases repository resources. The backend itself stays open and is
// closed by its owner.
func (r *TranscriptRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *TranscriptRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutTranscript stores a transcript under its id, overwriting any previous
// version. Insertion order is tracked in a secondary index so listings come
// back most recent first.
func (r *TranscriptRepository) PutTranscript(ctx context.Context, transcript *core.Transcript) (*core.Transcript, error) {
	if transcript == nil {
		return nil, core.ErrInvalidTranscript
	}
	if strings.TrimSpace(transcript.Id) == "" {
		return nil, storage.ErrEmptyId
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTranscriptKey(transcript.Id)

		old, err := r.readTranscript(tx, key)
		if err != nil {
			return err
		}

		// Serialization keeps microsecond granularity, so the returned
		// transcript must match what a later read will see.
		now := time.Now().UTC().Truncate(time.Microsecond)
		transcript.UpdatedAt = now
		if old != nil {
			// Overwrite keeps the original insertion time and index entry.
			transcript.InsertedAt = old.InsertedAt
		} else {
			transcript.InsertedAt = now
			dateKey := makeTranscriptDateKey(transcript.InsertedAt, transcript.Id)
			if err := tx.Set(dateKey, []byte(transcript.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalTranscript(transcript)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return transcript, err
}

// GetTranscript retrieves a single transcript by id.
func (r *TranscriptRepository) GetTranscript(ctx context.Context, id string) (*core.Transcript, error) {
	if strings.TrimSpace(id) == "" {
		return nil, storage.ErrEmptyId
	}

	var result *core.Transcript
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readTranscript(tx, makeTranscriptKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteTranscript removes a transcript and its index entry by id.
func (r *TranscriptRepository) DeleteTranscript(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return storage.ErrEmptyId
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTranscriptKey(id)

		transcript, err := r.readTranscript(tx, key)
		if err != nil {
			return err
		}
		if transcript == nil {
			return storage.ErrNotFound
		}

		dateKey := makeTranscriptDateKey(transcript.InsertedAt, transcript.Id)
		if err := tx.Delete(dateKey); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListTranscripts retrieves stored transcripts ordered by insertion time,
// most recent first.
func (r *TranscriptRepository) ListTranscripts(ctx context.Context, limit int) ([]*core.Transcript, error) {
	var results []*core.Transcript
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get the most recent transcripts first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible key in the insertion-time index
		startKey := makePartialTranscriptDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(transcriptDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			transcript, err := r.readTranscript(tx, makeTranscriptKey(id))
			if err != nil {
				return err
			}
			if transcript != nil {
				results = append(results, transcript)
			}
		}
		return nil
	}, false)

	return results, err
}

// readTranscript reads and deserializes a transcript within a transaction.
// Returns nil without error when the key does not exist.
func (r *TranscriptRepository) readTranscript(tx *badger.Txn, key []byte) (*core.Transcript, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var transcript *core.Transcript
	err = item.Value(func(val []byte) error {
		var err error
		transcript, err = storage.UnmarshalTranscript(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transcript, nil
}
