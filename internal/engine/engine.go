// Package engine implements the core segmented log engine: open/close
// lifecycle, single and batch append, random and range read,
// tail truncation, size accounting, and retention trimming.
//
// The engine owns the in-memory segment index table and the live
// segment window [startSegment, activeSegment]. It is deliberately
// untyped — callers supply already-encoded record bytes to append and
// a decode function to read back with — so that genericity over the
// record type lives one layer up, in pkg/ignite.
//
// A single mutex guards every public method end to end, including the
// filesystem I/O each one performs. The workload here is dominated by
// I/O under lock and the invariants tying reads, writes, retention, and
// truncation together are too tightly coupled to benefit from splitting
// into a reader/writer lock.
package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/iamNilotpal/ignite/internal/segindex"
	"github.com/iamNilotpal/ignite/internal/segstore"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/options"
	"github.com/iamNilotpal/ignite/pkg/segfile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DecodeFunc decodes one value from r, a data file positioned at a
// record's start by the engine. It must read exactly the bytes its
// paired encode wrote: nothing demarcates a record's end except the
// companion index file telling the engine where the next one starts.
type DecodeFunc func(io.Reader) (any, error)

// Engine is the core segmented log engine.
type Engine struct {
	mu sync.Mutex

	log    *zap.SugaredLogger
	opts   *options.Options
	folder string
	store  *segstore.Store
	table  *segindex.Table

	isOpen        bool
	startSegment  uint32
	activeSegment uint32

	hasWindow  bool
	startIndex uint64
	lastIndex  uint64

	totalBytes uint64

	dataFile   *os.File
	indexFile  *os.File
	activeSize int64
}

// Config holds the parameters needed to initialize a new Engine.
type Config struct {
	Folder  string
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New validates config and constructs an Engine. The engine is not
// usable until Open succeeds.
func New(ctx context.Context, config *Config) (*Engine, error) {
	if config == nil || config.Folder == "" || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	store, err := segstore.New(&segstore.Config{
		Folder:    config.Folder,
		Prefix:    config.Options.Prefix,
		Extension: config.Options.Extension,
		Logger:    config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		log:    config.Logger,
		opts:   config.Options,
		folder: config.Folder,
		store:  store,
		table:  segindex.NewTable(),
	}, nil
}

// Open establishes the on-disk state: validates prefix/extension,
// creates or rejects the folder per CreateIfMissing/ErrorIfExists,
// scans for existing segments, loads their index files, and
// reconstructs the accessor window.
func (e *Engine) Open() (errors.OpenStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isOpen {
		return errors.OpenAlreadyOpen, nil
	}

	if err := segfile.ValidatePrefix(e.opts.Prefix); err != nil {
		return errors.OpenInvalidPrefix, err
	}
	if err := segfile.ValidateExtension(e.opts.Extension); err != nil {
		return errors.OpenInvalidExtension, err
	}

	exists, err := filesys.Exists(e.folder)
	if err != nil {
		return errors.OpenOK, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat log folder").WithPath(e.folder)
	}

	if !exists {
		if !e.opts.CreateIfMissing {
			return errors.OpenNotFound, nil
		}
		if err := filesys.CreateDir(e.folder, 0755, true); err != nil {
			return errors.OpenOK, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to create log folder").WithPath(e.folder)
		}
		e.log.Infow("created log folder", "path", e.folder)
	} else if e.opts.ErrorIfExists {
		return errors.OpenExists, nil
	}

	if err := e.scanAndLoad(); err != nil {
		return errors.OpenOK, err
	}

	e.isOpen = true
	e.log.Infow(
		"log opened",
		"folder", e.folder,
		"startSegment", e.startSegment,
		"activeSegment", e.activeSegment,
		"hasWindow", e.hasWindow,
	)
	return errors.OpenOK, nil
}

// scanAndLoad runs the segment scan (probe for the first present
// segment, then the first subsequent absent one), loads every present
// segment's index file, and recomputes the accessor window and total
// byte count. It is also the rebuild step after a tail truncate.
func (e *Engine) scanAndLoad() error {
	e.table.Reset()
	e.startSegment = 0
	e.activeSegment = 0
	e.totalBytes = 0
	e.hasWindow = false
	e.startIndex = 0
	e.lastIndex = 0

	var start uint32
	found := false
	for n := uint32(0); n <= segfile.MaxSegmentNumber; n++ {
		exists, err := e.store.DataExists(n)
		if err != nil {
			return err
		}
		if exists {
			start = n
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	active := start
	for n := start + 1; n <= segfile.MaxSegmentNumber; n++ {
		exists, err := e.store.DataExists(n)
		if err != nil {
			return err
		}
		if !exists {
			break
		}
		active = n
	}

	var total uint64
	for n := start; n <= active; n++ {
		entries, err := e.store.LoadEntries(n)
		if err != nil {
			return err
		}
		if entries != nil {
			e.table.Set(n, entries)
		}
		size, err := e.store.DataSize(n)
		if err != nil {
			return err
		}
		total += uint64(size)
	}

	if e.opts.FilesizeMax > 0 {
		size, err := e.store.DataSize(active)
		if err != nil {
			return err
		}
		if uint64(size) >= e.opts.FilesizeMax {
			active++
		}
	}

	e.startSegment = start
	e.activeSegment = active
	e.totalBytes = total
	e.recomputeWindow()
	return nil
}

// recomputeWindow derives the accessor window from the loaded segment
// index table: first logical index of the first live segment holding
// entries, last logical index of the last one.
func (e *Engine) recomputeWindow() {
	var first, last segindex.Entries
	for s := e.startSegment; s <= e.activeSegment; s++ {
		if entries, ok := e.table.Get(s); ok {
			if first == nil {
				first = entries
			}
			last = entries
		}
	}
	if first == nil {
		e.hasWindow = false
		return
	}
	start, _ := first.LogicalRange()
	_, end := last.LogicalRange()
	e.startIndex = start
	e.lastIndex = end
	e.hasWindow = true
}

// ensureActiveFiles opens the active segment's data and index files for
// append if they are not already open, seeding activeSize from the
// current on-disk size.
func (e *Engine) ensureActiveFiles() error {
	if e.dataFile != nil {
		return nil
	}

	size, err := e.store.DataSize(e.activeSegment)
	if err != nil {
		return err
	}

	dataFile, err := e.store.OpenDataAppend(e.activeSegment)
	if err != nil {
		return err
	}
	indexFile, err := e.store.OpenIndexAppend(e.activeSegment)
	if err != nil {
		dataFile.Close()
		return err
	}

	e.dataFile = dataFile
	e.indexFile = indexFile
	e.activeSize = size
	return nil
}

// closeActiveFiles closes whichever of the active segment's file
// handles are open, aggregating any close failures with multierr
// rather than discarding all but the first.
func (e *Engine) closeActiveFiles() error {
	var err error
	if e.dataFile != nil {
		if cerr := e.dataFile.Close(); cerr != nil {
			err = multierr.Append(err, errors.NewStorageError(cerr, errors.ErrorCodeIO, "failed to close data file").WithSegmentID(int(e.activeSegment)))
		}
		e.dataFile = nil
	}
	if e.indexFile != nil {
		if cerr := e.indexFile.Close(); cerr != nil {
			err = multierr.Append(err, errors.NewStorageError(cerr, errors.ErrorCodeIO, "failed to close index file").WithSegmentID(int(e.activeSegment)))
		}
		e.indexFile = nil
	}
	return err
}

// rotateActive closes the current active segment's files and advances
// to the next segment number. The new segment's files are opened lazily
// by the next ensureActiveFiles call.
func (e *Engine) rotateActive() error {
	if err := e.closeActiveFiles(); err != nil {
		return err
	}
	e.activeSegment++
	return nil
}

// nextLogicalIndex returns the logical index the next unwritten record
// would receive if the log is non-empty, or 0 for an empty log. This is
// also the correct "entry 0" value for a freshly rotated segment's
// first record: it is computed from the running lastIndex counter
// rather than from the previous segment's table entry, so it stays
// correct even if that previous segment has already been dropped by
// retention trimming.
func (e *Engine) nextLogicalIndex() uint64 {
	if !e.hasWindow {
		return 0
	}
	return e.lastIndex + 1
}

// Write appends a single already-encoded record.
func (e *Engine) Write(data []byte) (errors.WriteStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return errors.WriteDatabaseNotOpen, nil
	}
	if err := e.appendOne(data); err != nil {
		return errors.WriteOK, err
	}
	return errors.WriteOK, nil
}

func (e *Engine) appendOne(data []byte) error {
	if err := e.ensureActiveFiles(); err != nil {
		return err
	}

	var entryValue uint64
	if e.activeSize == 0 {
		entryValue = e.nextLogicalIndex()
	} else {
		entryValue = uint64(e.activeSize)
	}

	if err := segstore.AppendIndexEntry(e.indexFile, entryValue); err != nil {
		return err
	}
	e.table.Append(e.activeSegment, entryValue)

	if err := segstore.AppendData(e.dataFile, data); err != nil {
		return err
	}
	e.activeSize += int64(len(data))
	e.totalBytes += uint64(len(data))

	if !e.hasWindow {
		e.startIndex, e.lastIndex = 0, 0
		e.hasWindow = true
	} else {
		e.lastIndex++
	}

	if e.opts.FilesizeMax > 0 && uint64(e.activeSize) >= e.opts.FilesizeMax {
		if err := e.rotateActive(); err != nil {
			return err
		}
	}

	return e.applyRetention()
}

// WriteBatch appends len(items) records in order. An empty batch is a
// no-op returning WriteOK.
func (e *Engine) WriteBatch(items [][]byte) (errors.WriteStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return errors.WriteDatabaseNotOpen, nil
	}
	if len(items) == 0 {
		return errors.WriteOK, nil
	}

	remaining := items
	for len(remaining) > 0 {
		consumed, exceeded, err := e.writeBatchUntilFull(remaining)
		if err != nil {
			return errors.WriteOK, err
		}
		remaining = remaining[consumed:]

		if len(remaining) > 0 || exceeded {
			if err := e.rotateActive(); err != nil {
				return errors.WriteOK, err
			}
		}
	}

	if err := e.applyRetention(); err != nil {
		return errors.WriteOK, err
	}
	return errors.WriteOK, nil
}

// writeBatchUntilFull stages as many of items as fit in the active
// segment into in-memory buffers, flushes them in one write each to the
// data and index files, and reports how many items it consumed and
// whether the segment has now reached FilesizeMax (the caller rotates in
// either case before continuing with the remainder).
func (e *Engine) writeBatchUntilFull(items [][]byte) (consumed int, exceeded bool, err error) {
	if err = e.ensureActiveFiles(); err != nil {
		return 0, false, err
	}

	startingOffset := uint64(e.activeSize)
	currentOffset := startingOffset
	_, hasEntries := e.table.Get(e.activeSegment)
	firstWriteToSegment := !hasEntries

	var dataBuf bytes.Buffer
	var idxBuf bytes.Buffer
	stagedEntries := make([]uint64, 0, len(items))

	for idx, item := range items {
		var entryValue uint64
		if idx == 0 && firstWriteToSegment {
			entryValue = e.nextLogicalIndex()
		} else {
			entryValue = currentOffset
		}

		if err = segstore.AppendIndexEntry(&idxBuf, entryValue); err != nil {
			return consumed, false, err
		}
		stagedEntries = append(stagedEntries, entryValue)

		if err = segstore.AppendData(&dataBuf, item); err != nil {
			return consumed, false, err
		}
		currentOffset = startingOffset + uint64(dataBuf.Len())

		if !e.hasWindow {
			e.startIndex, e.lastIndex = 0, 0
			e.hasWindow = true
		} else {
			e.lastIndex++
		}
		consumed = idx + 1

		if e.opts.FilesizeMax > 0 && currentOffset >= e.opts.FilesizeMax {
			exceeded = true
			break
		}
	}

	if dataBuf.Len() == 0 {
		return consumed, exceeded, nil
	}

	if _, werr := e.indexFile.Write(idxBuf.Bytes()); werr != nil {
		return consumed, exceeded, errors.NewStorageError(werr, errors.ErrorCodeIO, "failed to flush index buffer").WithSegmentID(int(e.activeSegment))
	}
	if _, werr := e.dataFile.Write(dataBuf.Bytes()); werr != nil {
		return consumed, exceeded, errors.NewStorageError(werr, errors.ErrorCodeIO, "failed to flush data buffer").WithSegmentID(int(e.activeSegment))
	}

	for _, v := range stagedEntries {
		e.table.Append(e.activeSegment, v)
	}
	e.activeSize += int64(dataBuf.Len())
	e.totalBytes += uint64(dataBuf.Len())

	return consumed, exceeded, nil
}

// applyRetention drops the head segment pair while the total on-disk
// data size exceeds DatabaseMax, never dropping the active segment
// itself (the one currently receiving writes).
func (e *Engine) applyRetention() error {
	if e.opts.DatabaseMax == 0 {
		return nil
	}

	for e.totalBytes > e.opts.DatabaseMax && e.startSegment < e.activeSegment {
		size, err := e.store.DataSize(e.startSegment)
		if err != nil {
			return err
		}
		dropped := e.startSegment
		if err := e.store.Remove(dropped); err != nil {
			return err
		}
		e.table.Delete(dropped)
		e.totalBytes -= uint64(size)
		e.startSegment++

		if entries, ok := e.table.Get(e.startSegment); ok {
			first, _ := entries.LogicalRange()
			e.startIndex = first
		}

		e.log.Infow("retention dropped segment", "droppedSegment", dropped, "startSegment", e.startSegment, "totalBytes", e.totalBytes)
	}
	return nil
}

// Read returns the value at logical index i, decoded with decode.
func (e *Engine) Read(i uint64, decode DecodeFunc) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasWindow || i < e.startIndex || i > e.lastIndex {
		return nil, errors.NewOutOfBoundsError(i, e.startIndex, e.lastIndex, e.hasWindow)
	}

	segment, local, err := e.table.Resolve(i, e.startSegment, e.activeSegment)
	if err != nil {
		return nil, err
	}
	entries, _ := e.table.Get(segment)
	offset := entries.ByteOffsetOfLocal(local)

	f, err := e.store.OpenDataRead(segment)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek in data file").
			WithSegmentID(int(segment)).WithOffset(int(offset))
	}

	value, err := decode(f)
	if err != nil {
		return nil, errors.ClassifyReadError(err, f.Name(), f.Name(), int(offset))
	}
	return value, nil
}

// ReadRange returns n values starting at logical index i, in order.
func (e *Engine) ReadRange(i, n uint64, decode DecodeFunc) ([]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n == 0 {
		return nil, nil
	}

	endIndex := i + n
	if !e.hasWindow || i < e.startIndex || endIndex-1 > e.lastIndex {
		return nil, errors.NewOutOfBoundsError(i, e.startIndex, e.lastIndex, e.hasWindow)
	}

	segment, local, err := e.table.Resolve(i, e.startSegment, e.activeSegment)
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, n)
	for uint64(len(results)) < n {
		entries, ok := e.table.Get(segment)
		if !ok {
			return nil, errors.NewStorageError(nil, errors.ErrorCodeIO, "segment missing from index table during range read").
				WithSegmentID(int(segment))
		}

		first, _ := entries.LogicalRange()
		localMax := entries.RecordCount()
		if first+uint64(localMax) > endIndex {
			localMax = int(endIndex - first)
		}

		f, err := e.store.OpenDataRead(segment)
		if err != nil {
			return nil, err
		}

		for j := local; j < localMax; j++ {
			offset := entries.ByteOffsetOfLocal(j)
			if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
				f.Close()
				return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to seek in data file").
					WithSegmentID(int(segment)).WithOffset(int(offset))
			}
			value, err := decode(f)
			if err != nil {
				f.Close()
				return nil, errors.ClassifyReadError(err, f.Name(), f.Name(), int(offset))
			}
			results = append(results, value)
		}
		f.Close()

		segment++
		local = 0
	}

	return results, nil
}

// Truncate removes every record with logical index >= t. t == lastIndex+1
// is a no-op. Implemented by truncating (or deleting) files on disk and
// rerunning the open-time scan rather than patching in-memory state
// incrementally: truncation is rare, disk I/O already dominates its
// cost, and the rebuild restores every invariant without case analysis.
func (e *Engine) Truncate(t uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return errors.NewStorageError(nil, errors.ErrorCodeIO, "cannot truncate a closed log")
	}
	if !e.hasWindow || t < e.startIndex || t > e.lastIndex+1 {
		return errors.NewOutOfBoundsError(t, e.startIndex, e.lastIndex, e.hasWindow)
	}
	if t == e.lastIndex+1 {
		return nil
	}

	if err := e.closeActiveFiles(); err != nil {
		return err
	}

	segment, local, err := e.table.Resolve(t, e.startSegment, e.activeSegment)
	if err != nil {
		return err
	}

	if local > 0 {
		entries, _ := e.table.Get(segment)
		offset := entries.ByteOffsetOfLocal(local)
		if err := e.store.TruncateData(segment, int64(offset)); err != nil {
			return err
		}
		if err := e.store.TruncateIndex(segment, local); err != nil {
			return err
		}
		segment++
	}

	for s := segment; s <= e.activeSegment; s++ {
		if err := e.store.Remove(s); err != nil {
			return err
		}
	}

	e.log.Infow("truncated log", "target", t, "firstDeletedSegment", segment)
	return e.scanAndLoad()
}

// Close releases the active segment's file handles and marks the
// engine closed without deleting anything. Close on an already-closed
// engine is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isOpen {
		return nil
	}
	err := e.closeActiveFiles()
	e.isOpen = false
	e.hasWindow = false
	e.log.Infow("log closed", "folder", e.folder)
	return err
}

// Size returns the number of addressable records, 0 if the accessor
// window is absent.
func (e *Engine) Size() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasWindow {
		return 0
	}
	return e.lastIndex - e.startIndex + 1
}

// StartIndex returns the lowest addressable logical index and whether
// the window is present.
func (e *Engine) StartIndex() (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startIndex, e.hasWindow
}

// LastIndex returns the highest addressable logical index and whether
// the window is present.
func (e *Engine) LastIndex() (uint64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastIndex, e.hasWindow
}

// DatabaseSize returns the total byte size across every live segment's
// data file.
func (e *Engine) DatabaseSize() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalBytes
}

// StartSegmentNumber returns the oldest live segment number.
func (e *Engine) StartSegmentNumber() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startSegment
}

// ActiveSegmentNumber returns the segment number currently receiving
// writes.
func (e *Engine) ActiveSegmentNumber() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeSegment
}

// SegmentIndices returns a snapshot copy of every live segment's
// decoded index entries, keyed by segment number.
func (e *Engine) SegmentIndices() map[uint32]segindex.Entries {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[uint32]segindex.Entries, e.table.Len())
	for s := e.startSegment; s <= e.activeSegment; s++ {
		if entries, ok := e.table.Get(s); ok {
			out[s] = entries
		}
	}
	return out
}

// ActiveDataFile returns the path of the active segment's data file.
func (e *Engine) ActiveDataFile() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DataPath(e.activeSegment)
}

// ActiveIndexFile returns the path of the active segment's index file.
func (e *Engine) ActiveIndexFile() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.IndexPath(e.activeSegment)
}
