// Package ignite is the public facade for an embedded, append-only,
// ordered record log. It wraps internal/engine's untyped segment engine
// with a caller-chosen record type T and the Encoder/Decoder pair that
// knows how to serialize it, so every other package in this module stays
// free of application-specific record shapes.
//
// A minimal usage, storing fixed-width events:
//
//	type Event struct{ Kind uint8; At int64 }
//
//	encode := func(w record.Sink, e Event) error {
//		if err := record.PutUint8(w, e.Kind); err != nil {
//			return err
//		}
//		return record.PutInt64(w, e.At)
//	}
//	decode := func(r record.Source) (Event, error) {
//		kind, err := record.GetUint8(r)
//		if err != nil {
//			return Event{}, err
//		}
//		at, err := record.GetInt64(r)
//		return Event{Kind: kind, At: at}, err
//	}
//
//	log, status, err := ignite.Open[Event](ctx, "events", "event-service", encode, decode,
//		options.WithFilesizeMax(16<<20), options.WithDatabaseMax(1<<30))
//	if err != nil || status != errors.OpenOK {
//		// handle err / status
//	}
//	defer log.Close()
//
//	if _, err := log.Write(Event{Kind: 1, At: 1700000000}); err != nil {
//		// handle err
//	}
//	v, err := log.Read(0)
package ignite

import (
	"bytes"
	"context"
	"io"

	"github.com/iamNilotpal/ignite/internal/engine"
	"github.com/iamNilotpal/ignite/internal/segindex"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/iterator"
	"github.com/iamNilotpal/ignite/pkg/logger"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/record"
)

// Log is the generic, ordered, append-only record log. Every method
// delegates to an *engine.Engine after translating between T and the
// engine's []byte/any representation through the encode/decode pair
// supplied to Open.
type Log[T any] struct {
	engine  *engine.Engine
	options *options.Options
	encode  record.Encoder[T]
	decode  record.Decoder[T]
}

// Open constructs and opens a Log[T] rooted at folder, using encode/decode
// to serialize values of type T and applying opts over the package
// defaults. service names the zap logger's "service" field.
func Open[T any](
	ctx context.Context,
	folder, service string,
	encode record.Encoder[T],
	decode record.Decoder[T],
	opts ...options.OptionFunc,
) (*Log[T], errors.OpenStatus, error) {
	log := logger.New(service)

	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	eng, err := engine.New(ctx, &engine.Config{Folder: folder, Options: &resolved, Logger: log})
	if err != nil {
		return nil, errors.OpenOK, err
	}

	l := &Log[T]{engine: eng, options: &resolved, encode: encode, decode: decode}
	status, err := eng.Open()
	if err != nil {
		return nil, status, err
	}
	return l, status, nil
}

func (l *Log[T]) encodeOne(value T) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.encode(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (l *Log[T]) decodeFunc() engine.DecodeFunc {
	return func(r io.Reader) (any, error) {
		return l.decode(r)
	}
}

// Write appends a single record.
func (l *Log[T]) Write(value T) (errors.WriteStatus, error) {
	data, err := l.encodeOne(value)
	if err != nil {
		return errors.WriteOK, err
	}
	return l.engine.Write(data)
}

// WriteBatch appends values in order as a single batch.
func (l *Log[T]) WriteBatch(values []T) (errors.WriteStatus, error) {
	items := make([][]byte, len(values))
	for i, v := range values {
		data, err := l.encodeOne(v)
		if err != nil {
			return errors.WriteOK, err
		}
		items[i] = data
	}
	return l.engine.WriteBatch(items)
}

// Read returns the record at logical index i.
func (l *Log[T]) Read(i uint64) (T, error) {
	var zero T
	v, err := l.engine.Read(i, l.decodeFunc())
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// ReadRange returns n records starting at logical index i, in order.
func (l *Log[T]) ReadRange(i, n uint64) ([]T, error) {
	values, err := l.engine.ReadRange(i, n, l.decodeFunc())
	if err != nil {
		return nil, err
	}
	out := make([]T, len(values))
	for idx, v := range values {
		out[idx] = v.(T)
	}
	return out, nil
}

// Truncate removes every record with logical index >= t.
func (l *Log[T]) Truncate(t uint64) error {
	return l.engine.Truncate(t)
}

// Close releases the log's open file handles.
func (l *Log[T]) Close() error {
	return l.engine.Close()
}

// Size returns the number of addressable records.
func (l *Log[T]) Size() uint64 { return l.engine.Size() }

// StartIndex returns the lowest addressable logical index and whether
// the log currently holds any records.
func (l *Log[T]) StartIndex() (uint64, bool) { return l.engine.StartIndex() }

// LastIndex returns the highest addressable logical index and whether
// the log currently holds any records.
func (l *Log[T]) LastIndex() (uint64, bool) { return l.engine.LastIndex() }

// DatabaseSize returns the total on-disk byte size across all live
// segments.
func (l *Log[T]) DatabaseSize() uint64 { return l.engine.DatabaseSize() }

// StartSegmentNumber returns the oldest live segment number.
func (l *Log[T]) StartSegmentNumber() uint32 { return l.engine.StartSegmentNumber() }

// ActiveSegmentNumber returns the segment number currently receiving
// writes.
func (l *Log[T]) ActiveSegmentNumber() uint32 { return l.engine.ActiveSegmentNumber() }

// SegmentIndices returns a snapshot of every live segment's decoded
// index entries, keyed by segment number.
func (l *Log[T]) SegmentIndices() map[uint32]segindex.Entries { return l.engine.SegmentIndices() }

// ActiveDataFile returns the path of the active segment's data file.
func (l *Log[T]) ActiveDataFile() (string, error) { return l.engine.ActiveDataFile() }

// ActiveIndexFile returns the path of the active segment's index file.
func (l *Log[T]) ActiveIndexFile() (string, error) { return l.engine.ActiveIndexFile() }

// Iterator returns a forward cursor starting at logical index start,
// bounded by the log's lastIndex at the time of the call.
func (l *Log[T]) Iterator(start uint64) *iterator.Iterator[T] {
	return iterator.New[T](l, start)
}
