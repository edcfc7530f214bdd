package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	transcriptPrefix     = "txrec"
	transcriptDatePrefix = "txrecd"
)

// makeTranscriptKey generates a key for a transcript by id.
func makeTranscriptKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", transcriptPrefix, id))
}

// makeTranscriptDateKey generates a composite key for the insertion-time
// index. Format: prefix:timestamp:id
func makeTranscriptDateKey(insertedAt time.Time, id string) []byte {
	prefix := transcriptDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8+len(id))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(insertedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialTranscriptDateKey generates a partial key for seeking within
// the insertion-time index. Format: prefix:timestamp
func makePartialTranscriptDateKey(insertedAt time.Time) []byte {
	prefix := transcriptDatePrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(insertedAt.UnixMicro()))
	return buf
}
