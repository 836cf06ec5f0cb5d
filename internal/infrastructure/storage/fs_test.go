package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStorageUpload(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemStorage(dir)

	key := "screens/v1/BTCUSDT/full.png"
	path, err := s.Upload(context.Background(), key, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, key, path)

	data, err := os.ReadFile(filepath.Join(dir, "screens", "v1", "BTCUSDT", "full.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestFilesystemStorageUploadOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemStorage(dir)
	ctx := context.Background()

	_, err := s.Upload(ctx, "a/b.png", []byte("one"))
	require.NoError(t, err)
	_, err = s.Upload(ctx, "a/b.png", []byte("two"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}
