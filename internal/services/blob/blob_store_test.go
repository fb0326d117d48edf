package blob

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), "testaccount", "testcontainer")
	require.NoError(t, err)
	return store
}

func TestFileStore_Layout(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base, "testaccount", "testcontainer")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "blob", "testaccount", "testcontainer"), store.Dir())
	assert.DirExists(t, store.Dir())
}

func TestFileStore_ContainerProperties(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.GetContainerProperties(ctx))

	require.NoError(t, os.RemoveAll(store.Dir()))
	err := store.GetContainerProperties(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testcontainer does not exist")
}

func TestFileStore_UploadAndList(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	for _, name := range []string{"blob2.txt", "blob1.txt", "prefix/blob3.txt"} {
		require.NoError(t, store.UploadBlob(ctx, name, []byte("content")))
	}

	blobs, err := store.ListBlobs(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(blobs))
	for _, b := range blobs {
		names = append(names, b.Name)
		assert.EqualValues(t, len("content"), b.Size)
		assert.NotNil(t, b.LastModified)
		assert.Nil(t, b.ContentType)
	}
	assert.Equal(t, []string{"blob1.txt", "blob2.txt", "prefix/blob3.txt"}, names)
}

func TestFileStore_ListEmpty(t *testing.T) {
	store := newTestFileStore(t)

	blobs, err := store.ListBlobs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, blobs)
	assert.Empty(t, blobs)
}

func TestFileStore_UploadOverwrites(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	name := "test-file-2026-10-16T12:30:45.123456.txt"

	require.NoError(t, store.UploadBlob(ctx, name, []byte("first version")))
	require.NoError(t, store.UploadBlob(ctx, name, []byte("second")))

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	blobs, err := store.ListBlobs(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.EqualValues(t, len("second"), blobs[0].Size)
}

func TestFileStore_UploadRejectsEscapingNames(t *testing.T) {
	store := newTestFileStore(t)

	for _, name := range []string{"", "../outside.txt", "/abs.txt"} {
		assert.Error(t, store.UploadBlob(context.Background(), name, []byte("x")), "name %q", name)
	}
}

func TestFileStore_UploadIntoMissingContainerFails(t *testing.T) {
	store := newTestFileStore(t)
	require.NoError(t, os.RemoveAll(store.Dir()))

	err := store.UploadBlob(context.Background(), "a.txt", []byte("x"))
	assert.Error(t, err)
}

func TestFileStore_ConcurrentUploads(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.UploadBlob(ctx, filepath.Join("c", string(rune('a'+i))+".txt"), []byte("x")))
			_, err := store.ListBlobs(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	blobs, err := store.ListBlobs(ctx)
	require.NoError(t, err)
	assert.Len(t, blobs, 10)
}
