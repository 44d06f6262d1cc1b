// Package options provides data structures and functions for configuring
// an ignite log. It defines the parameters that control segment
// rotation, retention, and the on-disk filename layout: whether a
// missing log folder should be created, whether an existing one should
// be rejected, the per-segment and per-database byte caps, and the
// segment filename prefix/extension.
package options

import "strings"

// Options defines the configuration parameters for an ignite log.
// Prefix and Extension are validated against segfile's allowed
// character class when a log is opened; invalid values surface as
// OpenInvalidPrefix/OpenInvalidExtension rather than here, since
// validation needs the segfile package and options must not import it
// (options is a leaf package the rest of the tree depends on).
type Options struct {
	// CreateIfMissing directs Open to create the log folder if it does
	// not already exist. If false and the folder is missing, Open fails
	// with OpenNotFound.
	//
	// Default: true
	CreateIfMissing bool `json:"createIfMissing"`

	// ErrorIfExists directs Open to fail with OpenExists if the log
	// folder already exists. Mutually meaningful with CreateIfMissing:
	// a folder that exists is never recreated regardless of this flag.
	//
	// Default: false
	ErrorIfExists bool `json:"errorIfExists"`

	// FilesizeMax caps the byte size of the active segment's data file.
	// When an append leaves the data file at or above this cap, the
	// engine rotates so that the next append goes to a new segment; the
	// record that reached the cap stays in the old one. Zero means
	// unbounded (segments never rotate on size alone).
	//
	// Default: 0 (unbounded)
	FilesizeMax uint64 `json:"filesizeMax"`

	// DatabaseMax caps the total byte size across all live segments'
	// data files. When an append pushes the total past this cap, the
	// engine drops the oldest segment pair. Zero means unbounded (no
	// retention trimming).
	//
	// Default: 0 (unbounded)
	DatabaseMax uint64 `json:"databaseMax"`

	// Prefix is the filename prefix shared by every segment pair:
	// "{Prefix}-NNNNN.{Extension}" for the data file.
	//
	// Default: "data"
	Prefix string `json:"prefix"`

	// Extension is the data file's extension. The companion index file
	// uses "{Extension}{indexSuffix}". Must not equal the fixed index
	// suffix literal.
	//
	// Default: "ash"
	Extension string `json:"extension"`
}

// OptionFunc is a function type that modifies an Options value.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its documented default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithCreateIfMissing sets whether Open creates the log folder when
// absent.
func WithCreateIfMissing(create bool) OptionFunc {
	return func(o *Options) {
		o.CreateIfMissing = create
	}
}

// WithErrorIfExists sets whether Open fails when the log folder already
// exists.
func WithErrorIfExists(errorIfExists bool) OptionFunc {
	return func(o *Options) {
		o.ErrorIfExists = errorIfExists
	}
}

// WithFilesizeMax sets the per-segment data file byte cap. Zero disables
// size-triggered rotation.
func WithFilesizeMax(size uint64) OptionFunc {
	return func(o *Options) {
		o.FilesizeMax = size
	}
}

// WithDatabaseMax sets the total data-file byte cap across all live
// segments. Zero disables retention trimming.
func WithDatabaseMax(size uint64) OptionFunc {
	return func(o *Options) {
		o.DatabaseMax = size
	}
}

// WithPrefix sets the segment filename prefix. A blank (after trimming
// whitespace) value leaves the current prefix untouched; Open is what
// rejects a prefix outside the allowed character class.
func WithPrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" {
			o.Prefix = prefix
		}
	}
}

// WithExtension sets the data file extension. A blank (after trimming
// whitespace) value leaves the current extension untouched.
func WithExtension(extension string) OptionFunc {
	return func(o *Options) {
		extension = strings.TrimSpace(extension)
		if extension != "" {
			o.Extension = extension
		}
	}
}
