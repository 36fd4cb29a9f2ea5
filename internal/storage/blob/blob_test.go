package blob

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/config"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Put(ctx, "exports/1/2/a.json", strings.NewReader(`{"a":1}`), PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"format": "json"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size)
	assert.NotEmpty(t, info.ETag)

	_, err = store.Put(ctx, "exports/1/2/a.json", strings.NewReader("again"), PutOptions{})
	assert.ErrorIs(t, err, ErrExists)

	_, err = store.Put(ctx, "exports/1/3/b.yaml", strings.NewReader("b: 2"), PutOptions{ContentType: "application/yaml"})
	require.NoError(t, err)

	got, body, err := store.Get(ctx, "exports/1/2/a.json")
	require.NoError(t, err)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, `{"a":1}`, string(raw))
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "json", got.Metadata["format"])

	listed, err := store.List(ctx, "exports/1/2/")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "exports/1/2/a.json", listed[0].Key)

	all, err := store.List(ctx, "exports/")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = store.Head(ctx, "exports/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := store.Delete(ctx, "exports/1/2/a.json")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "exports/1/2/a.json")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFilesystemStore(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape", "/abs", "", "a/../../b", "x.meta"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), PutOptions{})
		assert.Error(t, err, key)
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	store, err := Open(context.Background(), config.ExportConfig{})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, store.Driver())

	store, err = Open(context.Background(), config.ExportConfig{Driver: "FS", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, store.Driver())

	_, err = Open(context.Background(), config.ExportConfig{Driver: "minio"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.ExportConfig{Driver: "ftp"})
	assert.Error(t, err)
}
