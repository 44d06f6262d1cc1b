// Package iterator provides a forward cursor over an ignite log's
// addressable records, modeled as a position plus a dereference call
// rather than a channel or slice snapshot, so that walking a large log
// never materializes more than one record at a time.
package iterator

// Reader is the minimal capability an Iterator needs from a log: read
// the record at a logical index, and report the current accessor
// window. pkg/ignite.Log[T] satisfies this directly.
type Reader[T any] interface {
	Read(i uint64) (T, error)
	StartIndex() (uint64, bool)
	LastIndex() (uint64, bool)
}

// Iterator is a forward cursor holding a reference to a log and a
// logical index i. Dereferencing with Value calls Read(i); Next
// advances i by one. The end position is the one where i has reached
// the log's exclusive upper bound (lastIndex+1, or the starting
// position itself if the log held no records when the iterator was
// created).
//
// An Iterator is a snapshot of the bounds observed at construction
// time: any subsequent append, truncate, or retention drop on the
// underlying log invalidates it. Dereferencing or advancing past the
// end position is a programming error and panics.
type Iterator[T any] struct {
	log Reader[T]
	i   uint64
	end uint64
}

// New returns an Iterator positioned at start, bounded by log's current
// lastIndex.
func New[T any](log Reader[T], start uint64) *Iterator[T] {
	end := start
	if last, ok := log.LastIndex(); ok && last+1 > end {
		end = last + 1
	}
	return &Iterator[T]{log: log, i: start, end: end}
}

// Done reports whether the iterator has reached its end position.
func (it *Iterator[T]) Done() bool {
	return it.i >= it.end
}

// Index returns the iterator's current logical index.
func (it *Iterator[T]) Index() uint64 {
	return it.i
}

// Value dereferences the iterator, reading the record at its current
// index. Panics if the iterator is at its end position.
func (it *Iterator[T]) Value() (T, error) {
	if it.Done() {
		panic("iterator: dereference of end iterator")
	}
	return it.log.Read(it.i)
}

// Next advances the iterator to the following logical index. Panics if
// the iterator is already at its end position.
func (it *Iterator[T]) Next() {
	if it.Done() {
		panic("iterator: advance past end iterator")
	}
	it.i++
}
