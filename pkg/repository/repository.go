package repository

import (
	"io"

	"github.com/m-mizutani/omoide/pkg/model"
)

// Repository defines the interface for artifact persistence. All artifact
// paths are computed here; no other component derives them independently.
type Repository interface {
	// Path resolves the storage location of an artifact. It is a pure
	// function of the ID and kind and never fails.
	Path(id model.MemoryID, kind model.Kind) string

	// Has reports whether the artifact exists
	Has(id model.MemoryID, kind model.Kind) bool

	// Open returns a reader over an existing artifact
	Open(id model.MemoryID, kind model.Kind) (io.ReadCloser, error)

	// Read loads an entire artifact into memory
	Read(id model.MemoryID, kind model.Kind) ([]byte, error)

	// Write stores an artifact atomically, overwriting any previous one
	Write(id model.MemoryID, kind model.Kind, data []byte) error

	// Remove deletes one artifact; removing an absent artifact is not an error
	Remove(id model.MemoryID, kind model.Kind) error

	// CommitAudio moves a finished scratch recording onto the memory's audio
	// path, replacing any previous recording. A transcript derived from the
	// replaced recording is deleted so it cannot outlive its audio.
	CommitAudio(id model.MemoryID, scratchPath string) error

	// List returns the IDs of all memories with a thumbnail artifact,
	// in no particular order
	List() ([]model.MemoryID, error)

	// Delete removes every artifact of a memory
	Delete(id model.MemoryID) error
}
