package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalboard/core/internal/infrastructure/config"
)

func newTestStore(t *testing.T) *DiskFileStore {
	t.Helper()
	store, err := NewDiskFileStore(config.StorageConfig{
		BaseDir:       t.TempDir(),
		PublicBaseURL: "http://localhost:8080/files/",
	})
	require.NoError(t, err)
	return store
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeName("report.pdf"))
	assert.Equal(t, "my_notes_v2_.png", sanitizeName("my notes v2!.png"))
	assert.Equal(t, "passwd", sanitizeName("../../etc/passwd"))
	assert.Equal(t, "file", sanitizeName(""))
}

func TestUploadAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stored, err := store.Upload(ctx, "my-board", "2024-03-01", "day plan.txt", "text/plain", strings.NewReader("content"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.Path, "my-board/2024-03-01/"))
	assert.True(t, strings.HasSuffix(stored.Path, "-day_plan.txt"))
	assert.Equal(t, "http://localhost:8080/files/"+stored.Path, stored.URL)

	data, err := os.ReadFile(filepath.Join(store.BaseDir(), filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	require.NoError(t, store.Delete(ctx, stored.Path))
	_, err = os.Stat(filepath.Join(store.BaseDir(), filepath.FromSlash(stored.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingFileIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "my-board/2024-03-01/123-gone.txt"))
}

func TestDeleteRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Delete(context.Background(), "../outside.txt"))
	assert.Error(t, store.Delete(context.Background(), "/etc/passwd"))
}
