// Package segstore manages the on-disk lifecycle of segment file pairs:
// resolving their paths through pkg/segfile, opening them for append or
// random-access read, stat'ing and truncating them, loading a segment's
// index file into an in-memory segindex.Entries, and removing a
// segment pair entirely.
//
// segstore owns no application state beyond folder/prefix/extension; it
// holds no file handles between calls except the ones it hands back to
// the caller. internal/engine is the only caller and is responsible for
// closing whatever segstore opens.
package segstore

import (
	"io"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignite/internal/segindex"
	"github.com/iamNilotpal/ignite/pkg/errors"
	"github.com/iamNilotpal/ignite/pkg/filesys"
	"github.com/iamNilotpal/ignite/pkg/record"
	"github.com/iamNilotpal/ignite/pkg/segfile"
	"go.uber.org/zap"
)

// entryWidth is the on-disk byte size of one index entry (a uint64).
const entryWidth = 8

// Store resolves and manipulates the files backing one log's segments.
type Store struct {
	folder    string
	prefix    string
	extension string
	log       *zap.SugaredLogger
}

// Config encapsulates the configuration parameters required to
// initialize a Store.
type Config struct {
	Folder    string
	Prefix    string
	Extension string
	Logger    *zap.SugaredLogger
}

// New validates config and returns a Store ready to resolve segment
// paths under Folder.
func New(config *Config) (*Store, error) {
	if config == nil || config.Folder == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "segstore configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}
	return &Store{
		folder:    config.Folder,
		prefix:    config.Prefix,
		extension: config.Extension,
		log:       config.Logger,
	}, nil
}

// DataPath returns the path of segment n's data file.
func (s *Store) DataPath(n uint32) (string, error) {
	return segfile.BuildDataPath(s.folder, s.prefix, s.extension, n)
}

// IndexPath returns the path of segment n's index file.
func (s *Store) IndexPath(n uint32) (string, error) {
	return segfile.BuildIndexPath(s.folder, s.prefix, s.extension, n)
}

// DataExists reports whether segment n's data file is present on disk.
func (s *Store) DataExists(n uint32) (bool, error) {
	path, err := s.DataPath(n)
	if err != nil {
		return false, err
	}
	return filesys.Exists(path)
}

// DataSize returns the byte size of segment n's data file, or 0 if it
// does not yet exist.
func (s *Store) DataSize(n uint32) (int64, error) {
	path, err := s.DataPath(n)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat data file").
			WithSegmentID(int(n)).WithPath(path)
	}
	return info.Size(), nil
}

// OpenDataAppend opens (creating if necessary) segment n's data file
// for appending, positioned at end-of-file.
func (s *Store) OpenDataAppend(n uint32) (*os.File, error) {
	path, err := s.DataPath(n)
	if err != nil {
		return nil, err
	}
	return openAppend(path, int(n))
}

// OpenIndexAppend opens (creating if necessary) segment n's index file
// for appending, positioned at end-of-file.
func (s *Store) OpenIndexAppend(n uint32) (*os.File, error) {
	path, err := s.IndexPath(n)
	if err != nil {
		return nil, err
	}
	return openAppend(path, int(n))
}

func openAppend(path string, segmentID int) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open file for append").
			WithSegmentID(segmentID).WithPath(path)
	}
	return f, nil
}

// OpenDataRead opens segment n's data file read-only, for a single
// random or range read.
func (s *Store) OpenDataRead(n uint32) (*os.File, error) {
	path, err := s.DataPath(n)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open data file for read").
			WithSegmentID(int(n)).WithPath(path)
	}
	return f, nil
}

// LoadEntries reads segment n's index file in full and decodes it into
// a segindex.Entries. A missing index file yields a nil, empty result
// rather than an error: an active segment that has not been written to
// yet legitimately has no index file.
func (s *Store) LoadEntries(n uint32) (segindex.Entries, error) {
	path, err := s.IndexPath(n)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to open index file").
			WithSegmentID(int(n)).WithPath(path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat index file").
			WithSegmentID(int(n)).WithPath(path)
	}
	if info.Size()%entryWidth != 0 {
		return nil, errors.NewIndexCorruptionError(n, "LoadEntries", int(info.Size()), nil)
	}

	count := int(info.Size() / entryWidth)
	entries := make(segindex.Entries, 0, count)
	for i := 0; i < count; i++ {
		v, err := record.GetUint64(f)
		if err != nil {
			return nil, errors.NewIndexCorruptionError(n, "LoadEntries", int(info.Size()), err)
		}
		entries = append(entries, v)
	}
	return entries, nil
}

// AppendIndexEntry writes one index entry to w, a segment's open index
// file or a staging buffer.
func AppendIndexEntry(w io.Writer, entry uint64) error {
	return record.PutUint64(w, entry)
}

// AppendData writes raw encoded record bytes to w, a segment's open
// data file or a staging buffer.
func AppendData(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	if err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to append record bytes")
	}
	return nil
}

// TruncateData truncates segment n's data file to size bytes.
func (s *Store) TruncateData(n uint32, size int64) error {
	path, err := s.DataPath(n)
	if err != nil {
		return err
	}
	return truncateFile(path, int(n), size)
}

// TruncateIndex truncates segment n's index file to
// localIndex*entryWidth bytes, keeping entries [0, localIndex).
func (s *Store) TruncateIndex(n uint32, localIndex int) error {
	path, err := s.IndexPath(n)
	if err != nil {
		return err
	}
	return truncateFile(path, int(n), int64(localIndex)*entryWidth)
}

func truncateFile(path string, segmentID int, size int64) error {
	if err := os.Truncate(path, size); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.ClassifyTruncateError(err, filepath.Base(path), path, int(size)).(*errors.StorageError).
			WithSegmentID(segmentID)
	}
	return nil
}

// Remove deletes both files of segment n. Missing files are not an
// error: a segment whose active data file was never written to has no
// index file, and deleting it is still a successful no-op.
func (s *Store) Remove(n uint32) error {
	dataPath, err := s.DataPath(n)
	if err != nil {
		return err
	}
	indexPath, err := s.IndexPath(n)
	if err != nil {
		return err
	}

	if err := removeIfExists(dataPath); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove data file").
			WithSegmentID(int(n)).WithPath(dataPath)
	}
	if err := removeIfExists(indexPath); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to remove index file").
			WithSegmentID(int(n)).WithPath(indexPath)
	}
	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
