package backup_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/usecase/backup"
)

// Mock Storage collecting uploaded objects in memory
type mockStorage struct {
	objects map[string]*bytes.Buffer
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: map[string]*bytes.Buffer{}}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (m *mockStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	m.objects[key] = buf
	return nopWriteCloser{buf}, nil
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	buf, ok := m.objects[key]
	if !ok {
		return nil, goerr.New("no such object", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}

func TestBackup(t *testing.T) {
	repo := gt.R1(repository.NewLocal(t.TempDir())).NoError(t)

	// One complete memory and one without audio
	full := model.NewMemoryID()
	gt.NoError(t, repo.Write(full, model.KindImage, []byte("img")))
	gt.NoError(t, repo.Write(full, model.KindThumbnail, []byte("thumb")))
	gt.NoError(t, repo.Write(full, model.KindAudio, []byte("audio")))
	gt.NoError(t, repo.Write(full, model.KindTranscript, []byte("text")))

	silent := model.NewMemoryID()
	gt.NoError(t, repo.Write(silent, model.KindImage, []byte("img2")))
	gt.NoError(t, repo.Write(silent, model.KindThumbnail, []byte("thumb2")))

	storage := newMockStorage()
	uc := backup.New(repo, storage)

	count, err := uc.Run(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, count, 6)

	obj := storage.objects["memories/"+string(full)+"/audio.m4a"]
	gt.V(t, obj).NotNil()
	gt.Equal(t, obj.String(), "audio")

	obj = storage.objects["memories/"+string(silent)+"/thumbnail.thumb"]
	gt.V(t, obj).NotNil()
	gt.Equal(t, obj.String(), "thumb2")

	// No audio key for the silent memory
	_, ok := storage.objects["memories/"+string(silent)+"/audio.m4a"]
	gt.B(t, ok).False()
}

func TestBackupEmptyVault(t *testing.T) {
	repo := gt.R1(repository.NewLocal(t.TempDir())).NoError(t)
	uc := backup.New(repo, newMockStorage())

	count, err := uc.Run(context.Background())
	gt.NoError(t, err)
	gt.Equal(t, count, 0)
}
