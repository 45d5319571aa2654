package backup

import (
	"context"
	"io"
	"path"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/adapter"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
)

// UseCase copies every artifact of every memory to a remote storage bucket.
// Optional artifacts that do not exist are skipped, not errors.
type UseCase struct {
	repo    repository.Repository
	storage adapter.Storage
}

// New creates a new backup UseCase instance
func New(repo repository.Repository, storage adapter.Storage) *UseCase {
	return &UseCase{
		repo:    repo,
		storage: storage,
	}
}

// Run uploads the vault and returns the number of artifacts copied
func (u *UseCase) Run(ctx context.Context) (int, error) {
	ids, err := u.repo.List()
	if err != nil {
		return 0, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	logger := logging.From(ctx)

	var count int
	for _, id := range ids {
		for _, kind := range model.Kinds() {
			if !u.repo.Has(id, kind) {
				continue
			}
			if err := u.copyArtifact(ctx, id, kind); err != nil {
				return count, err
			}
			count++
		}
		logger.Info("memory backed up", "memory_id", id)
	}

	return count, nil
}

func (u *UseCase) copyArtifact(ctx context.Context, id model.MemoryID, kind model.Kind) error {
	key := backupKey(id, kind)

	src, err := u.repo.Open(id, kind)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := u.storage.Put(ctx, key)
	if err != nil {
		return goerr.Wrap(err, "failed to open backup object", goerr.V("key", key))
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return goerr.Wrap(err, "failed to upload artifact", goerr.V("key", key))
	}
	if err := dst.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize backup object", goerr.V("key", key))
	}
	return nil
}

func backupKey(id model.MemoryID, kind model.Kind) string {
	return path.Join("memories", string(id), string(kind)+kind.Suffix())
}
