package errors

// OpenStatus enumerates the possible outcomes of opening a log. Unlike the
// error types above, a status is an expected, non-exceptional result:
// callers are meant to branch on it directly rather than unwrap an error
// chain.
type OpenStatus int

const (
	OpenOK OpenStatus = iota
	OpenExists
	OpenNotFound
	OpenInvalidPrefix
	OpenInvalidExtension
	OpenAlreadyOpen
)

// String returns the canonical name of the status. An unrecognized value is
// a programming error (a status that was never supposed to exist), so it is
// fatal rather than silently returning a placeholder string.
func (s OpenStatus) String() string {
	switch s {
	case OpenOK:
		return "OK"
	case OpenExists:
		return "EXISTS"
	case OpenNotFound:
		return "NotFound"
	case OpenInvalidPrefix:
		return "InvalidPrefix"
	case OpenInvalidExtension:
		return "InvalidExtension"
	case OpenAlreadyOpen:
		return "AlreadyOpen"
	default:
		panic("errors: unknown OpenStatus value")
	}
}

// WriteStatus enumerates the possible outcomes of a write.
type WriteStatus int

const (
	WriteOK WriteStatus = iota
	WriteDatabaseNotOpen
)

// String returns the canonical name of the status.
func (s WriteStatus) String() string {
	switch s {
	case WriteOK:
		return "OK"
	case WriteDatabaseNotOpen:
		return "DatabaseNotOpen"
	default:
		panic("errors: unknown WriteStatus value")
	}
}

// RangeError is returned when a value (most commonly a segment number)
// exceeds the range the on-disk layout is able to represent. Kept distinct
// from ValidationError because its origin is a hard structural limit (the
// 5-digit segment number field) rather than a caller input-shape mistake.
type RangeError struct {
	*baseError
	value uint64
	max   uint64
}

// NewRangeError creates a RangeError describing a value that exceeded max.
func NewRangeError(field string, value, max uint64) *RangeError {
	return &RangeError{
		baseError: NewBaseError(nil, ErrorCodeRange, "value exceeds representable range").
			WithDetail("field", field).
			WithDetail("value", value).
			WithDetail("max", max),
		value: value,
		max:   max,
	}
}

// Value returns the offending value.
func (re *RangeError) Value() uint64 { return re.value }

// Max returns the largest representable value.
func (re *RangeError) Max() uint64 { return re.max }
