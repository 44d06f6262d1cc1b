package errors

// IndexError provides specialized error handling for segment-index
// operations: resolving a logical index to a segment and local position,
// and loading a segment's index file from disk. This structure extends the
// base error system with that context while properly supporting method
// chaining through all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which logical record index was being resolved when the
	// error occurred.
	logicalIndex uint64

	// Indicates which segment was involved in the error, if applicable.
	// This helps correlate index errors with specific segment files and can
	// guide recovery operations.
	segmentID uint32

	// Describes what index operation was being performed when the error
	// occurred (e.g. "Resolve", "LoadEntries"). This context helps
	// understand the system state that led to the error.
	operation string

	// Captures the number of entries in the segment index at the time of
	// the error, useful for diagnosing corruption.
	indexSize int
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *IndexError instead of *baseError.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithLogicalIndex records which logical index was being resolved.
func (ie *IndexError) WithLogicalIndex(i uint64) *IndexError {
	ie.logicalIndex = i
	return ie
}

// WithSegmentID captures which segment was involved in the error.
func (ie *IndexError) WithSegmentID(segmentID uint32) *IndexError {
	ie.segmentID = segmentID
	return ie
}

// WithOperation records what index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithIndexSize captures the size of the index when the error occurred.
func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

// LogicalIndex returns the logical index that was being resolved.
func (ie *IndexError) LogicalIndex() uint64 {
	return ie.logicalIndex
}

// SegmentID returns the segment identifier associated with the error.
func (ie *IndexError) SegmentID() uint32 {
	return ie.segmentID
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// IndexSize returns the size of the index when the error occurred.
func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

// NewOutOfBoundsError creates the error returned when a logical index falls
// outside the log's current accessor window.
func NewOutOfBoundsError(i uint64, startIndex, lastIndex uint64, hasWindow bool) *IndexError {
	e := NewIndexError(nil, ErrorCodeOutOfBounds, "logical index out of bounds").
		WithLogicalIndex(i).
		WithOperation("Resolve").
		WithDetail("hasWindow", hasWindow)
	if hasWindow {
		e = e.WithDetail("startIndex", startIndex).WithDetail("lastIndex", lastIndex)
	}
	return e
}

// NewSegmentResolutionError creates an error for when the in-memory segment
// table cannot resolve a logical index to any live segment, despite the
// index falling inside the advertised accessor window. This indicates a
// bookkeeping inconsistency rather than a simple bounds violation.
func NewSegmentResolutionError(i uint64) *IndexError {
	return NewIndexError(nil, ErrorCodeSegmentResolution, "failed to resolve logical index to a segment").
		WithLogicalIndex(i).
		WithOperation("Resolve")
}

// NewIndexCorruptionError creates an error for segment index files whose
// contents are inconsistent with their companion data file (e.g. a
// truncated or malformed entry stream).
func NewIndexCorruptionError(segmentID uint32, operation string, indexSize int, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexCorrupted, "segment index data corrupted").
		WithSegmentID(segmentID).
		WithOperation(operation).
		WithIndexSize(indexSize).
		WithDetail("recovery_required", true)
}
