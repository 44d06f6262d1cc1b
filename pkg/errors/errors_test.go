package errors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenStatusString(t *testing.T) {
	require.Equal(t, "OK", OpenOK.String())
	require.Equal(t, "EXISTS", OpenExists.String())
	require.Equal(t, "NotFound", OpenNotFound.String())
	require.Equal(t, "InvalidPrefix", OpenInvalidPrefix.String())
	require.Equal(t, "InvalidExtension", OpenInvalidExtension.String())
	require.Equal(t, "AlreadyOpen", OpenAlreadyOpen.String())
}

func TestOpenStatusStringPanicsOnUnknownValue(t *testing.T) {
	require.Panics(t, func() { _ = OpenStatus(99).String() })
}

func TestWriteStatusString(t *testing.T) {
	require.Equal(t, "OK", WriteOK.String())
	require.Equal(t, "DatabaseNotOpen", WriteDatabaseNotOpen.String())
}

func TestWriteStatusStringPanicsOnUnknownValue(t *testing.T) {
	require.Panics(t, func() { _ = WriteStatus(99).String() })
}

func TestNewOutOfBoundsError(t *testing.T) {
	err := NewOutOfBoundsError(10, 0, 5, true)
	require.Equal(t, ErrorCodeOutOfBounds, err.code)
	require.Equal(t, uint64(10), err.LogicalIndex())
}

func TestNewSegmentResolutionError(t *testing.T) {
	err := NewSegmentResolutionError(7)
	require.Equal(t, ErrorCodeSegmentResolution, err.code)
	require.Equal(t, uint64(7), err.LogicalIndex())
}

func TestNewIndexCorruptionError(t *testing.T) {
	err := NewIndexCorruptionError(3, "LoadEntries", 17, nil)
	require.Equal(t, ErrorCodeIndexCorrupted, err.code)
	require.Equal(t, uint32(3), err.SegmentID())
	require.Equal(t, "LoadEntries", err.Operation())
}

func TestNewRangeError(t *testing.T) {
	err := NewRangeError("segmentNumber", 165535, 65535)
	require.Equal(t, uint64(165535), err.Value())
	require.Equal(t, uint64(65535), err.Max())
}
