// Package record defines the binary wire format every value written
// through an ignite log is encoded with, plus the primitive helpers a
// caller's Encoder/Decoder pair composes to build that format.
//
// Everything here is little-endian, chosen once and used consistently
// for both integers, doubles, and the segment index entries in
// internal/segindex. There is no framing beyond what a caller's codec
// supplies: a length-prefixed byte string carries its own length, a
// fixed-width integer carries none, and the log engine never inserts
// delimiters of its own.
package record

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

// Sink is the append-only destination an Encoder writes to. *os.File
// satisfies it directly; tests may substitute a *bytes.Buffer.
type Sink = io.Writer

// Source is the origin a Decoder reads from, positioned at the start of
// one record by the caller (the log engine, in practice, which seeks
// the data file before handing it over).
type Source = io.Reader

// Encoder serializes a value of type T into sink using the wire format
// described in the package doc. Implementations should compose the
// primitive Put* helpers below in a fixed field order. The log engine
// adds no length prefix or delimiter around the encoded value and never
// tells a Decoder where a record ends, so the paired Decoder must be
// able to tell from the bytes themselves how much to read.
type Encoder[T any] func(sink Sink, value T) error

// Decoder deserializes one value of type T from source, reading exactly
// the bytes its paired Encoder wrote and no more.
type Decoder[T any] func(source Source) (T, error)

// PutUint8 writes a single byte to sink.
func PutUint8(sink Sink, v uint8) error {
	_, err := sink.Write([]byte{v})
	return wrapWriteErr(err, "uint8")
}

// GetUint8 reads a single byte from source.
func GetUint8(source Source) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		return 0, wrapReadErr(err, "uint8")
	}
	return buf[0], nil
}

// PutUint16 writes v to sink as 2 little-endian bytes.
func PutUint16(sink Sink, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := sink.Write(buf[:])
	return wrapWriteErr(err, "uint16")
}

// GetUint16 reads 2 little-endian bytes from source.
func GetUint16(source Source) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		return 0, wrapReadErr(err, "uint16")
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// PutUint32 writes v to sink as 4 little-endian bytes.
func PutUint32(sink Sink, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := sink.Write(buf[:])
	return wrapWriteErr(err, "uint32")
}

// GetUint32 reads 4 little-endian bytes from source.
func GetUint32(source Source) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		return 0, wrapReadErr(err, "uint32")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// PutUint64 writes v to sink as 8 little-endian bytes. This is also the
// wire format of one segment index entry (internal/segindex).
func PutUint64(sink Sink, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := sink.Write(buf[:])
	return wrapWriteErr(err, "uint64")
}

// GetUint64 reads 8 little-endian bytes from source.
func GetUint64(source Source) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(source, buf[:]); err != nil {
		return 0, wrapReadErr(err, "uint64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// PutInt8, PutInt16, PutInt32, PutInt64 reinterpret the signed value's
// bit pattern and defer to the unsigned helpers above.

func PutInt8(sink Sink, v int8) error   { return PutUint8(sink, uint8(v)) }
func GetInt8(source Source) (int8, error) {
	v, err := GetUint8(source)
	return int8(v), err
}

func PutInt16(sink Sink, v int16) error { return PutUint16(sink, uint16(v)) }
func GetInt16(source Source) (int16, error) {
	v, err := GetUint16(source)
	return int16(v), err
}

func PutInt32(sink Sink, v int32) error { return PutUint32(sink, uint32(v)) }
func GetInt32(source Source) (int32, error) {
	v, err := GetUint32(source)
	return int32(v), err
}

func PutInt64(sink Sink, v int64) error { return PutUint64(sink, uint64(v)) }
func GetInt64(source Source) (int64, error) {
	v, err := GetUint64(source)
	return int64(v), err
}

// PutFloat64 writes v to sink as 8 bytes, IEEE-754 double precision,
// same endianness as the integer helpers.
func PutFloat64(sink Sink, v float64) error {
	return PutUint64(sink, math.Float64bits(v))
}

// GetFloat64 reads 8 bytes from source and reinterprets them as an
// IEEE-754 double.
func GetFloat64(source Source) (float64, error) {
	bits, err := GetUint64(source)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// PutBytes writes a u32 length prefix followed by exactly len(v) raw
// bytes.
func PutBytes(sink Sink, v []byte) error {
	if err := PutUint32(sink, uint32(len(v))); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	_, err := sink.Write(v)
	return wrapWriteErr(err, "bytes")
}

// GetBytes reads a u32 length prefix and exactly that many raw bytes.
func GetBytes(source Source) ([]byte, error) {
	n, err := GetUint32(source)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(source, buf); err != nil {
		return nil, wrapReadErr(err, "bytes")
	}
	return buf, nil
}

// PutString writes s as a length-prefixed byte string.
func PutString(sink Sink, s string) error {
	return PutBytes(sink, []byte(s))
}

// GetString reads a length-prefixed byte string and returns it as a
// string.
func GetString(source Source) (string, error) {
	b, err := GetBytes(source)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func wrapWriteErr(err error, field string) error {
	if err == nil {
		return nil
	}
	return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write "+field).
		WithDetail("field", field)
}

func wrapReadErr(err error, field string) error {
	if err == nil {
		return nil
	}
	return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read "+field).
		WithDetail("field", field)
}
