package options

const (
	// DefaultCreateIfMissing matches spec.md's assumption that a fresh
	// log folder is the common case.
	DefaultCreateIfMissing = true

	// DefaultErrorIfExists leaves reopening an existing log folder as
	// the default behavior.
	DefaultErrorIfExists = false

	// DefaultFilesizeMax leaves segment rotation disabled until the
	// caller opts in.
	DefaultFilesizeMax uint64 = 0

	// DefaultDatabaseMax leaves retention trimming disabled until the
	// caller opts in.
	DefaultDatabaseMax uint64 = 0

	// DefaultPrefix is the segment filename prefix used when the caller
	// does not set one.
	DefaultPrefix = "data"

	// DefaultExtension is the data file extension used when the caller
	// does not set one. Paired with segfile.IndexSuffix this yields
	// "data-NNNNN.ash" data files and "data-NNNNN.ashidx" index files.
	DefaultExtension = "ash"
)

// defaultOptions holds the baseline configuration for an ignite log.
var defaultOptions = Options{
	CreateIfMissing: DefaultCreateIfMissing,
	ErrorIfExists:   DefaultErrorIfExists,
	FilesizeMax:     DefaultFilesizeMax,
	DatabaseMax:     DefaultDatabaseMax,
	Prefix:          DefaultPrefix,
	Extension:       DefaultExtension,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
