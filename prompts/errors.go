package prompts

import "errors"

var (
	// ErrEmptyQuery is returned when a prompt is rendered with a blank question.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyTranscript is returned when a prompt is rendered with blank
	// transcript contents.
	ErrEmptyTranscript = errors.New("transcript cannot be empty")
)
