package model

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryID identifies one memory and is shared by all of its artifacts.
// The zero-padded nanosecond timestamp makes lexicographic order equal to
// creation order.
type MemoryID string

const memoryIDPrefix = "memory-"

var (
	idMu   sync.Mutex
	lastID int64
)

// NewMemoryID generates a new unique MemoryID. IDs are strictly increasing
// within a process even when the clock does not advance between calls.
func NewMemoryID() MemoryID {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixNano()
	if now <= lastID {
		now = lastID + 1
	}
	lastID = now

	return MemoryID(fmt.Sprintf("%s%020d", memoryIDPrefix, now))
}

func (id MemoryID) String() string {
	return string(id)
}

// Validate checks if the ID has the expected stem format
func (id MemoryID) Validate() error {
	s := string(id)
	if !strings.HasPrefix(s, memoryIDPrefix) {
		return ErrInvalidMemoryID
	}
	digits := strings.TrimPrefix(s, memoryIDPrefix)
	if len(digits) != 20 {
		return ErrInvalidMemoryID
	}
	if _, err := strconv.ParseInt(digits, 10, 64); err != nil {
		return ErrInvalidMemoryID
	}
	return nil
}

// CreatedAt derives the creation time encoded in the ID
func (id MemoryID) CreatedAt() (time.Time, error) {
	if err := id.Validate(); err != nil {
		return time.Time{}, err
	}
	nanos, _ := strconv.ParseInt(strings.TrimPrefix(string(id), memoryIDPrefix), 10, 64)
	return time.Unix(0, nanos), nil
}

// Kind is one facet of a memory stored as its own file
type Kind string

const (
	KindImage      Kind = "image"
	KindThumbnail  Kind = "thumbnail"
	KindAudio      Kind = "audio"
	KindTranscript Kind = "transcript"
)

// Kinds returns all artifact kinds in a fixed order
func Kinds() []Kind {
	return []Kind{KindImage, KindThumbnail, KindAudio, KindTranscript}
}

// Suffix returns the file suffix appended to the MemoryID stem
func (k Kind) Suffix() string {
	switch k {
	case KindImage:
		return ".jpg"
	case KindThumbnail:
		return ".thumb"
	case KindAudio:
		return ".m4a"
	case KindTranscript:
		return ".txt"
	default:
		return ""
	}
}

// Validate checks if the kind is valid
func (k Kind) Validate() error {
	switch k {
	case KindImage, KindThumbnail, KindAudio, KindTranscript:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Memory is the logical unit of capture: one photo plus an optional voice
// note and its transcript. Presence flags reflect one observation of the
// store, not a live view.
type Memory struct {
	ID            MemoryID
	CreatedAt     time.Time
	HasAudio      bool
	HasTranscript bool
}
