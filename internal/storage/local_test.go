package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stamp/pkg/config"
	apperrors "github.com/stamp/pkg/errors"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	return s
}

func TestNewLocalStorage(t *testing.T) {
	base := filepath.Join(t.TempDir(), "a", "b")
	s, err := NewLocalStorage(base)
	require.NoError(t, err)
	assert.Equal(t, base, s.BasePath())
	assert.DirExists(t, base)
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	require.NoError(t, s.Upload(ctx, "mappings/run-1/mapping.srg", bytes.NewBufferString("CL: a/B c\n")))

	rc, err := s.Download(ctx, "mappings/run-1/mapping.srg")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "CL: a/B c\n", string(data))
}

func TestLocalStorage_UploadFile(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	src := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"id":"run-1"}`), 0644))

	require.NoError(t, s.UploadFile(ctx, "run-1/mapping.json", src))
	assert.FileExists(t, s.GetURL("run-1/mapping.json"))

	err := s.UploadFile(ctx, "run-1/other.json", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s := newTestLocalStorage(t)

	_, err := s.Download(context.Background(), "missing.json")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLocalStorage_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)
	require.NoError(t, s.Upload(ctx, "k.json", bytes.NewBufferString("{}")))

	ok, err := s.Exists(ctx, "k.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k.json"))
	ok, err = s.Exists(ctx, "k.json")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "k.json"), "deleting a missing object is not an error")
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	for _, key := range []string{"../outside.json", "a/../../outside.json", "", "/"} {
		err := s.Upload(ctx, key, bytes.NewBufferString("x"))
		require.Error(t, err, key)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err), key)
	}

	// a leading slash is relative to the root
	require.NoError(t, s.Upload(ctx, "/inside.json", bytes.NewBufferString("x")))
	assert.FileExists(t, filepath.Join(s.BasePath(), "inside.json"))
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestLocalStorage(t)

	assert.ErrorIs(t, s.Upload(ctx, "k", bytes.NewBufferString("x")), context.Canceled)
	_, err := s.Download(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Exists(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "k"), context.Canceled)
}

func TestNewStorage_Local(t *testing.T) {
	s, err := NewStorage(&config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(&config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
