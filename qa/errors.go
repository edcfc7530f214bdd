package qa

import "errors"

var (
	// ErrRepositoryRequired is returned when a transcript repository is not provided.
	ErrRepositoryRequired = errors.New("transcript repository required")

	// ErrCacheRequired is returned when an index cache is not provided.
	ErrCacheRequired = errors.New("index cache required")

	// ErrGeneratorRequired is returned when a generator is not provided.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrEmptyQuery is returned when a question is blank.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
