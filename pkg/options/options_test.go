package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultOptions(t *testing.T) {
	o := NewDefaultOptions()
	require.Equal(t, DefaultCreateIfMissing, o.CreateIfMissing)
	require.Equal(t, DefaultErrorIfExists, o.ErrorIfExists)
	require.Equal(t, DefaultFilesizeMax, o.FilesizeMax)
	require.Equal(t, DefaultDatabaseMax, o.DatabaseMax)
	require.Equal(t, DefaultPrefix, o.Prefix)
	require.Equal(t, DefaultExtension, o.Extension)
}

func TestOptionFuncsOverrideDefaults(t *testing.T) {
	o := NewDefaultOptions()
	for _, opt := range []OptionFunc{
		WithCreateIfMissing(false),
		WithErrorIfExists(true),
		WithFilesizeMax(1536),
		WithDatabaseMax(3500),
		WithPrefix("events"),
		WithExtension("log"),
	} {
		opt(&o)
	}

	require.False(t, o.CreateIfMissing)
	require.True(t, o.ErrorIfExists)
	require.Equal(t, uint64(1536), o.FilesizeMax)
	require.Equal(t, uint64(3500), o.DatabaseMax)
	require.Equal(t, "events", o.Prefix)
	require.Equal(t, "log", o.Extension)
}

func TestWithPrefixBlankIsNoOp(t *testing.T) {
	o := NewDefaultOptions()
	WithPrefix("   ")(&o)
	require.Equal(t, DefaultPrefix, o.Prefix)
}

func TestWithExtensionBlankIsNoOp(t *testing.T) {
	o := NewDefaultOptions()
	WithExtension("")(&o)
	require.Equal(t, DefaultExtension, o.Extension)
}

func TestWithDefaultOptionsResetsOverrides(t *testing.T) {
	o := NewDefaultOptions()
	WithPrefix("custom")(&o)
	WithDefaultOptions()(&o)
	require.Equal(t, DefaultPrefix, o.Prefix)
}
