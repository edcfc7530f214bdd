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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateTranscript validates a Transcript according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Contents must not be empty or whitespace-only
//   - InsertedAt must not be in the future
//
// NOT validated:
//   - Title (optional, display only)
//   - Metadata (optional)
func ValidateTranscript(transcript *Transcript) error {
	if transcript == nil {
		return fmt.Errorf("%w: transcript is nil", ErrInvalidTranscript)
	}

	if transcript.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrEmptyId)
	}

	if strings.TrimSpace(transcript.Contents) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrEmptyContents)
	}

	if !IsValidTimestamp(transcript.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidTranscript, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp returns true if the timestamp is zero or not in the future.
// A small clock-skew allowance of one minute is permitted.
func IsValidTimestamp(ts time.Time) bool {
	if ts.IsZero() {
		return true
	}
	return !ts.After(time.Now().UTC().Add(time.Minute))
}
