// Package segfile is the sole source of truth for the on-disk segment
// filename layout. Every numbered segment pair is addressed through
// BuildDataPath/BuildIndexPath so that the scan, load, and append paths in
// internal/segstore never format a path by hand.
//
// Filename format: {prefix}-NNNNN.{extension} for the data file, and
// {prefix}-NNNNN.{extension}{IndexSuffix} for its companion index file,
// where NNNNN is the segment number zero-padded to width 5.
package segfile

import (
	"fmt"
	"path/filepath"

	"github.com/iamNilotpal/ignite/pkg/errors"
)

// IndexSuffix is the fixed literal appended to a data file's extension to
// form its companion index file's extension. It can never be chosen as an
// Options.Extension value.
const IndexSuffix = "idx"

// MaxSegmentNumber is the largest segment number the fixed 5-digit decimal
// field can represent.
const MaxSegmentNumber = 65535

// BuildDataPath returns folder/{prefix}-NNNNN.{extension}.
func BuildDataPath(folder, prefix, extension string, n uint32) (string, error) {
	if uint64(n) > MaxSegmentNumber {
		return "", errors.NewRangeError("segmentNumber", uint64(n), MaxSegmentNumber)
	}
	return filepath.Join(folder, fmt.Sprintf("%s-%05d.%s", prefix, n, extension)), nil
}

// BuildIndexPath returns folder/{prefix}-NNNNN.{extension}{IndexSuffix}.
func BuildIndexPath(folder, prefix, extension string, n uint32) (string, error) {
	if uint64(n) > MaxSegmentNumber {
		return "", errors.NewRangeError("segmentNumber", uint64(n), MaxSegmentNumber)
	}
	return filepath.Join(folder, fmt.Sprintf("%s-%05d.%s%s", prefix, n, extension, IndexSuffix)), nil
}

// allowedCharset reports whether every rune in s belongs to [A-Za-z0-9_-].
func allowedCharset(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// ValidatePrefix checks that prefix is non-empty and drawn from
// [A-Za-z0-9_-].
func ValidatePrefix(prefix string) error {
	if prefix == "" || !allowedCharset(prefix) {
		return errors.NewInvalidPrefixError(prefix)
	}
	return nil
}

// ValidateExtension checks that extension is non-empty, drawn from
// [A-Za-z0-9_-], and not equal to IndexSuffix.
func ValidateExtension(extension string) error {
	if extension == "" {
		return errors.NewInvalidExtensionError(extension, "required")
	}
	if !allowedCharset(extension) {
		return errors.NewInvalidExtensionError(extension, "charset")
	}
	if extension == IndexSuffix {
		return errors.NewInvalidExtensionError(extension, "reserved_index_suffix")
	}
	return nil
}
