package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/record"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeUint64(r io.Reader) (any, error) {
	return record.GetUint64(r)
}

func decodeString(r io.Reader) (any, error) {
	return record.GetString(r)
}

func encodeUint64(v uint64) []byte {
	var buf bytes.Buffer
	_ = record.PutUint64(&buf, v)
	return buf.Bytes()
}

func encodeString(s string) []byte {
	var buf bytes.Buffer
	_ = record.PutString(&buf, s)
	return buf.Bytes()
}

func newTestEngine(t *testing.T, opts ...options.OptionFunc) *Engine {
	t.Helper()
	dir, err := os.MkdirTemp("", "engine_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	eng, err := New(context.Background(), &Config{Folder: dir, Options: &resolved, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	status, err := eng.Open()
	require.NoError(t, err)
	require.Equal(t, errors.OpenOK, status)
	return eng
}

func TestOpenInvalidOptions(t *testing.T) {
	dir, err := os.MkdirTemp("", "engine_invalid_opts")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cases := map[string]struct {
		extension string
		prefix    string
		status    errors.OpenStatus
	}{
		"extension equals index suffix": {extension: "idx", prefix: "data", status: errors.OpenInvalidExtension},
		"empty extension":               {extension: "", prefix: "data", status: errors.OpenInvalidExtension},
		"bad extension charset":         {extension: "$.!", prefix: "data", status: errors.OpenInvalidExtension},
		"empty prefix":                  {extension: "ash", prefix: "", status: errors.OpenInvalidPrefix},
		"bad prefix charset":            {extension: "ash", prefix: "$1.", status: errors.OpenInvalidPrefix},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			opts := options.NewDefaultOptions()
			opts.Prefix = tc.prefix
			opts.Extension = tc.extension

			eng, err := New(context.Background(), &Config{Folder: dir, Options: &opts, Logger: zap.NewNop().Sugar()})
			require.NoError(t, err)

			status, _ := eng.Open()
			require.Equal(t, tc.status, status)
		})
	}
}

func TestOpenTwiceIsAlreadyOpen(t *testing.T) {
	eng := newTestEngine(t)
	status, err := eng.Open()
	require.NoError(t, err)
	require.Equal(t, errors.OpenAlreadyOpen, status)
}

func TestWriteReadRoundTrip(t *testing.T) {
	eng := newTestEngine(t)

	for i := uint64(0); i < 10; i++ {
		status, err := eng.Write(encodeUint64(i))
		require.NoError(t, err)
		require.Equal(t, errors.WriteOK, status)
	}

	require.Equal(t, uint64(10), eng.Size())
	for i := uint64(0); i < 10; i++ {
		v, err := eng.Read(i, decodeUint64)
		require.NoError(t, err)
		require.Equal(t, i, v.(uint64))
	}
}

func TestWriteBeforeOpenReturnsDatabaseNotOpen(t *testing.T) {
	dir, err := os.MkdirTemp("", "engine_not_open")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts := options.NewDefaultOptions()
	eng, err := New(context.Background(), &Config{Folder: dir, Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	status, err := eng.Write(encodeUint64(1))
	require.NoError(t, err)
	require.Equal(t, errors.WriteDatabaseNotOpen, status)
}

func TestSegmentRotationByByteCap(t *testing.T) {
	piStr := strings.Repeat("3", 1030) // encoded size = 4 (length prefix) + 1030 = 1034 bytes
	eng := newTestEngine(t, options.WithFilesizeMax(1536))

	wantActive := []uint32{0, 1, 1, 2, 2}
	for i, want := range wantActive {
		status, err := eng.Write(encodeString(piStr))
		require.NoError(t, err)
		require.Equal(t, errors.WriteOK, status)
		require.Equalf(t, want, eng.ActiveSegmentNumber(), "after write %d", i)
	}

	require.Equal(t, uint64(5), eng.Size())
	first, ok := eng.StartIndex()
	require.True(t, ok)
	require.Equal(t, uint64(0), first)
	last, ok := eng.LastIndex()
	require.True(t, ok)
	require.Equal(t, uint64(4), last)
}

func TestRetentionTrimming(t *testing.T) {
	piStr := strings.Repeat("3", 1030) // encoded size 1034 bytes
	eng := newTestEngine(t, options.WithFilesizeMax(256), options.WithDatabaseMax(3500))

	for i := 0; i < 4; i++ {
		_, err := eng.Write(encodeString(piStr))
		require.NoError(t, err)
	}

	require.Equal(t, uint32(1), eng.StartSegmentNumber())
	require.Equal(t, uint32(4), eng.ActiveSegmentNumber())
	start, ok := eng.StartIndex()
	require.True(t, ok)
	require.Equal(t, uint64(1), start)
	last, ok := eng.LastIndex()
	require.True(t, ok)
	require.Equal(t, uint64(3), last)

	for i := 0; i < 2; i++ {
		_, err := eng.Write(encodeString(piStr))
		require.NoError(t, err)
	}

	require.Equal(t, uint32(3), eng.StartSegmentNumber())
	require.Equal(t, uint32(6), eng.ActiveSegmentNumber())
	start, ok = eng.StartIndex()
	require.True(t, ok)
	require.Equal(t, uint64(3), start)
	last, ok = eng.LastIndex()
	require.True(t, ok)
	require.Equal(t, uint64(5), last)
}

func TestRangeReadAcrossSegments(t *testing.T) {
	fixed := strings.Repeat("a", 100) // encoded size 104 bytes
	eng := newTestEngine(t, options.WithFilesizeMax(400))

	for i := 0; i < 12; i++ {
		_, err := eng.Write(encodeString(fixed))
		require.NoError(t, err)
	}

	require.Equal(t, uint32(3), eng.ActiveSegmentNumber())

	cases := []struct {
		start, n uint64
	}{
		{6, 4},
		{5, 2},
		{9, 3},
		{8, 4},
		{1, 9},
	}
	for _, tc := range cases {
		values, err := eng.ReadRange(tc.start, tc.n, decodeString)
		require.NoError(t, err)
		require.Len(t, values, int(tc.n))
		for _, v := range values {
			require.Equal(t, fixed, v.(string))
		}
	}
}

func TestReadOutOfBounds(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Write(encodeUint64(1))
	require.NoError(t, err)

	_, err = eng.Read(5, decodeUint64)
	require.Error(t, err)
}

func TestTailTruncateMidSegment(t *testing.T) {
	eng := newTestEngine(t, options.WithFilesizeMax(1024))

	items := make([][]byte, 100)
	for i := range items {
		items[i] = encodeUint64(uint64(i))
	}
	_, err := eng.WriteBatch(items)
	require.NoError(t, err)
	require.Equal(t, uint64(100), eng.Size())

	require.NoError(t, eng.Truncate(50))
	require.Equal(t, uint64(50), eng.Size())

	_, err = eng.Read(75, decodeUint64)
	require.Error(t, err)

	more := make([][]byte, 50)
	for i := range more {
		more[i] = encodeUint64(uint64(1000 + i))
	}
	_, err = eng.WriteBatch(more)
	require.NoError(t, err)
	require.Equal(t, uint64(100), eng.Size())

	for i := uint64(0); i < 50; i++ {
		v, err := eng.Read(i, decodeUint64)
		require.NoError(t, err)
		require.Equal(t, i, v.(uint64))
	}
	for i := uint64(0); i < 50; i++ {
		v, err := eng.Read(50+i, decodeUint64)
		require.NoError(t, err)
		require.Equal(t, uint64(1000+i), v.(uint64))
	}
}

func TestTruncateAtExactSegmentBoundary(t *testing.T) {
	eng := newTestEngine(t, options.WithFilesizeMax(360)) // 45 records of 8 bytes per segment

	items := make([][]byte, 100)
	for i := range items {
		items[i] = encodeUint64(uint64(i))
	}
	_, err := eng.WriteBatch(items)
	require.NoError(t, err)

	require.NoError(t, eng.Truncate(45))
	require.Equal(t, uint64(45), eng.Size())

	more := make([][]byte, 10)
	for i := range more {
		more[i] = encodeUint64(uint64(2000 + i))
	}
	_, err = eng.WriteBatch(more)
	require.NoError(t, err)
	require.Equal(t, uint64(55), eng.Size())
}

func TestCloseThenReopenPreservesState(t *testing.T) {
	dir, err := os.MkdirTemp("", "engine_reopen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	opts := options.NewDefaultOptions()
	opts.FilesizeMax = 1536

	eng, err := New(context.Background(), &Config{Folder: dir, Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	_, err = eng.Open()
	require.NoError(t, err)

	for i := uint64(0); i < 5; i++ {
		_, err := eng.Write(encodeUint64(i))
		require.NoError(t, err)
	}
	require.NoError(t, eng.Close())

	reopened, err := New(context.Background(), &Config{Folder: dir, Options: &opts, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	status, err := reopened.Open()
	require.NoError(t, err)
	require.Equal(t, errors.OpenOK, status)

	require.Equal(t, uint64(5), reopened.Size())
	for i := uint64(0); i < 5; i++ {
		v, err := reopened.Read(i, decodeUint64)
		require.NoError(t, err)
		require.Equal(t, i, v.(uint64))
	}
}
