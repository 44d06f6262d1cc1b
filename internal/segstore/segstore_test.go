package segstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir, err := os.MkdirTemp("", "segstore_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := New(&Config{Folder: dir, Prefix: "data", Extension: "ash", Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return s
}

func TestDataExistsAndSize(t *testing.T) {
	s := newTestStore(t)

	exists, err := s.DataExists(0)
	require.NoError(t, err)
	require.False(t, exists)

	size, err := s.DataSize(0)
	require.NoError(t, err)
	require.Equal(t, int64(0), size)

	f, err := s.OpenDataAppend(0)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	exists, err = s.DataExists(0)
	require.NoError(t, err)
	require.True(t, exists)

	size, err = s.DataSize(0)
	require.NoError(t, err)
	require.Equal(t, int64(5), size)
}

func TestAppendAndLoadEntries(t *testing.T) {
	s := newTestStore(t)

	idxFile, err := s.OpenIndexAppend(0)
	require.NoError(t, err)
	require.NoError(t, AppendIndexEntry(idxFile, 0))
	require.NoError(t, AppendIndexEntry(idxFile, 5))
	require.NoError(t, AppendIndexEntry(idxFile, 10))
	require.NoError(t, idxFile.Close())

	entries, err := s.LoadEntries(0)
	require.NoError(t, err)
	require.Equal(t, 3, entries.RecordCount())
	require.Equal(t, uint64(0), entries[0])
	require.Equal(t, uint64(5), entries[1])
	require.Equal(t, uint64(10), entries[2])
}

func TestLoadEntriesMissingFileIsNilNotError(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.LoadEntries(0)
	require.NoError(t, err)
	require.Nil(t, entries)
}

func TestLoadEntriesCorruptedSizeErrors(t *testing.T) {
	s := newTestStore(t)
	path, err := s.IndexPath(0)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	_, err = s.LoadEntries(0)
	require.Error(t, err)
}

func TestTruncateDataAndIndex(t *testing.T) {
	s := newTestStore(t)

	dataFile, err := s.OpenDataAppend(0)
	require.NoError(t, err)
	_, err = dataFile.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, dataFile.Close())

	require.NoError(t, s.TruncateData(0, 5))
	size, err := s.DataSize(0)
	require.NoError(t, err)
	require.Equal(t, int64(5), size)

	idxFile, err := s.OpenIndexAppend(0)
	require.NoError(t, err)
	require.NoError(t, AppendIndexEntry(idxFile, 0))
	require.NoError(t, AppendIndexEntry(idxFile, 5))
	require.NoError(t, idxFile.Close())

	require.NoError(t, s.TruncateIndex(0, 1))
	entries, err := s.LoadEntries(0)
	require.NoError(t, err)
	require.Equal(t, 1, entries.RecordCount())
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	f, err := s.OpenDataAppend(0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, s.Remove(0))
	require.NoError(t, s.Remove(0))

	exists, err := s.DataExists(0)
	require.NoError(t, err)
	require.False(t, exists)
}
