package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUintRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, PutUint8(&buf, 0xAB))
	require.NoError(t, PutUint16(&buf, 0xBEEF))
	require.NoError(t, PutUint32(&buf, 0xDEADBEEF))
	require.NoError(t, PutUint64(&buf, 0x0123456789ABCDEF))

	v8, err := GetUint8(&buf)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), v8)

	v16, err := GetUint16(&buf)
	require.NoError(t, err)
	require.Equal(t, uint16(0xBEEF), v16)

	v32, err := GetUint32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := GetUint64(&buf)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0123456789ABCDEF), v64)
}

func TestIntRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PutInt64(&buf, -42))
	v, err := GetInt64(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(-42), v)
}

func TestFloat64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := 3.14159265358979
	require.NoError(t, PutFloat64(&buf, want))
	got, err := GetFloat64(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := []byte("hello, ignite")
	require.NoError(t, PutBytes(&buf, want))
	got, err := GetBytes(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEmptyBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PutBytes(&buf, []byte{}))
	got, err := GetBytes(&buf)
	require.NoError(t, err)
	require.Equal(t, []byte{}, got)
}

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := "the quick brown fox"
	require.NoError(t, PutString(&buf, want))
	got, err := GetString(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGetUint64TruncatedSource(t *testing.T) {
	buf := bytes.NewBuffer([]byte{1, 2, 3})
	_, err := GetUint64(buf)
	require.Error(t, err)
}

func TestLittleEndianByteOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PutUint32(&buf, 1))
	require.Equal(t, []byte{1, 0, 0, 0}, buf.Bytes())
}
