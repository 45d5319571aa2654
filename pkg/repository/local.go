package repository

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
)

// localRepo implements Repository over a single vault directory. One memory
// is the set of files sharing the ID stem: <id>.jpg, <id>.thumb, <id>.m4a
// and <id>.txt. The thumbnail is the existence marker: a memory is
// enumerable iff its .thumb file is present.
type localRepo struct {
	dir string
}

// NewLocal creates a directory-backed repository, creating the vault
// directory if it does not exist
func NewLocal(dir string) (Repository, error) {
	if dir == "" {
		return nil, goerr.New("vault directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create vault directory", goerr.V("dir", dir))
	}
	return &localRepo{dir: dir}, nil
}

func (r *localRepo) Path(id model.MemoryID, kind model.Kind) string {
	return filepath.Join(r.dir, string(id)+kind.Suffix())
}

func (r *localRepo) Has(id model.MemoryID, kind model.Kind) bool {
	info, err := os.Stat(r.Path(id, kind))
	return err == nil && info.Mode().IsRegular()
}

func (r *localRepo) Open(id model.MemoryID, kind model.Kind) (io.ReadCloser, error) {
	f, err := os.Open(r.Path(id, kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(model.ErrArtifactNotFound, "no such artifact",
				goerr.V("memory_id", id), goerr.V("kind", kind))
		}
		return nil, goerr.Wrap(err, "failed to open artifact",
			goerr.V("memory_id", id), goerr.V("kind", kind))
	}
	return f, nil
}

func (r *localRepo) Read(id model.MemoryID, kind model.Kind) ([]byte, error) {
	f, err := r.Open(id, kind)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact",
			goerr.V("memory_id", id), goerr.V("kind", kind))
	}
	return data, nil
}

// Write stages the data into a temp file in the vault directory and renames
// it into place, so a concurrent reader never observes a half-written
// artifact.
func (r *localRepo) Write(id model.MemoryID, kind model.Kind, data []byte) error {
	tmp := filepath.Join(r.dir, ".tmp-"+uuid.New().String())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to stage artifact",
			goerr.V("memory_id", id), goerr.V("kind", kind))
	}

	if err := os.Rename(tmp, r.Path(id, kind)); err != nil {
		_ = os.Remove(tmp)
		return goerr.Wrap(err, "failed to commit artifact",
			goerr.V("memory_id", id), goerr.V("kind", kind))
	}
	return nil
}

func (r *localRepo) Remove(id model.MemoryID, kind model.Kind) error {
	if err := os.Remove(r.Path(id, kind)); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove artifact",
			goerr.V("memory_id", id), goerr.V("kind", kind))
	}
	return nil
}

func (r *localRepo) CommitAudio(id model.MemoryID, scratchPath string) error {
	if err := os.Rename(scratchPath, r.Path(id, model.KindAudio)); err != nil {
		return goerr.Wrap(err, "failed to commit recording",
			goerr.V("memory_id", id), goerr.V("scratch", scratchPath))
	}

	// The old transcript, if any, belongs to the replaced recording
	return r.Remove(id, model.KindTranscript)
}

func (r *localRepo) List() ([]model.MemoryID, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan vault directory", goerr.V("dir", r.dir))
	}

	var ids []model.MemoryID
	suffix := model.KindThumbnail.Suffix()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		id := model.MemoryID(strings.TrimSuffix(entry.Name(), suffix))
		if id.Validate() != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *localRepo) Delete(id model.MemoryID) error {
	for _, kind := range model.Kinds() {
		if err := r.Remove(id, kind); err != nil {
			return err
		}
	}
	return nil
}
