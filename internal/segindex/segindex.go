// Package segindex holds the in-memory representation of a segment's
// index file and the table that tracks one such representation per live
// segment. It implements the index-entry semantics spec out in
// SPEC_FULL.md: entry 0 of a segment is the logical index of the
// segment's first record, not a byte offset; entries 1..k are byte
// offsets into the data file for records 1..k.
//
// segindex holds no file handles and does no I/O; internal/segstore
// owns loading a segment's index file into an Entries slice and
// appending new entries back to it.
package segindex

import "github.com/iamNilotpal/ignite/pkg/errors"

// Entries is the decoded sequence of index-file entries for one live
// segment, in insertion order.
type Entries []uint64

// FirstLogicalIndex returns the logical index of the segment's first
// record. Panics if the segment has no entries, which would mean the
// segment never received a write and should not be present in a Table.
func (e Entries) FirstLogicalIndex() uint64 {
	return e[0]
}

// RecordCount returns the number of records this segment holds.
func (e Entries) RecordCount() int {
	return len(e)
}

// LogicalRange returns the inclusive [first, last] logical index range
// this segment covers.
func (e Entries) LogicalRange() (first, last uint64) {
	first = e[0]
	last = first + uint64(len(e)) - 1
	return
}

// Contains reports whether logical index i falls within this segment's
// range.
func (e Entries) Contains(i uint64) bool {
	if len(e) == 0 {
		return false
	}
	first, last := e.LogicalRange()
	return i >= first && i <= last
}

// ByteOffsetOfLocal returns the byte offset of segment-local record
// position j within the data file. Position 0 is always offset 0 by
// construction; positions > 0 are read directly out of the entry.
func (e Entries) ByteOffsetOfLocal(j int) uint64 {
	if j == 0 {
		return 0
	}
	return e[j]
}

// Table is the ordered sequence of segment indices for every live
// segment. It is keyed by segment number rather than a dense slice
// because a freshly rotated active segment may not yet have an entry
// (invariant 3: an index entry for a segment only exists once that
// segment has received its first write).
//
// Table does no locking of its own; the engine's single mutex already
// serializes every call into it.
type Table struct {
	bySegment map[uint32]Entries
}

// NewTable returns an empty segment index table.
func NewTable() *Table {
	return &Table{bySegment: make(map[uint32]Entries)}
}

// Get returns the entries for segment, and whether it is present.
func (t *Table) Get(segment uint32) (Entries, bool) {
	e, ok := t.bySegment[segment]
	return e, ok
}

// Set replaces the entries recorded for segment, used when loading a
// segment's index file from disk during open or after a rebuild.
func (t *Table) Set(segment uint32, e Entries) {
	t.bySegment[segment] = e
}

// Append records one new entry for segment, creating its entry list if
// this is the segment's first recorded write.
func (t *Table) Append(segment uint32, entry uint64) {
	t.bySegment[segment] = append(t.bySegment[segment], entry)
}

// Delete drops segment's entries entirely, used when a segment pair is
// removed by retention trimming or tail truncation.
func (t *Table) Delete(segment uint32) {
	delete(t.bySegment, segment)
}

// Reset clears every segment's entries, used before a rebuild.
func (t *Table) Reset() {
	clear(t.bySegment)
}

// Len returns the number of segments currently holding entries.
func (t *Table) Len() int {
	return len(t.bySegment)
}

// Resolve walks the live window [startSegment, activeSegment] looking
// for the segment whose logical range contains i, returning its number
// and the record's segment-local position. Segments with no entries
// (an active segment that has not yet been written to) are skipped.
func (t *Table) Resolve(i uint64, startSegment, activeSegment uint32) (segment uint32, local int, err error) {
	for s := startSegment; ; s++ {
		if e, ok := t.bySegment[s]; ok && e.Contains(i) {
			first, _ := e.LogicalRange()
			return s, int(i - first), nil
		}
		if s == activeSegment {
			break
		}
	}
	return 0, 0, errors.NewSegmentResolutionError(i)
}
