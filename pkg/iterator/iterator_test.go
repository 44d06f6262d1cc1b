package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLog struct {
	values []string
}

func (f *fakeLog) Read(i uint64) (string, error) {
	return f.values[i], nil
}

func (f *fakeLog) StartIndex() (uint64, bool) {
	if len(f.values) == 0 {
		return 0, false
	}
	return 0, true
}

func (f *fakeLog) LastIndex() (uint64, bool) {
	if len(f.values) == 0 {
		return 0, false
	}
	return uint64(len(f.values) - 1), true
}

func TestIteratorWalksForward(t *testing.T) {
	log := &fakeLog{values: []string{"a", "b", "c"}}
	it := New[string](log, 0)

	var got []string
	for !it.Done() {
		v, err := it.Value()
		require.NoError(t, err)
		got = append(got, v)
		it.Next()
	}

	require.Equal(t, []string{"a", "b", "c"}, got)
	require.True(t, it.Done())
}

func TestIteratorStartsMidway(t *testing.T) {
	log := &fakeLog{values: []string{"a", "b", "c"}}
	it := New[string](log, 1)

	v, err := it.Value()
	require.NoError(t, err)
	require.Equal(t, "b", v)
}

func TestIteratorOnEmptyLogIsImmediatelyDone(t *testing.T) {
	log := &fakeLog{}
	it := New[string](log, 0)
	require.True(t, it.Done())
}

func TestIteratorDereferenceAtEndPanics(t *testing.T) {
	log := &fakeLog{values: []string{"a"}}
	it := New[string](log, 0)
	it.Next()
	require.Panics(t, func() { it.Value() })
}

func TestIteratorAdvancePastEndPanics(t *testing.T) {
	log := &fakeLog{values: []string{"a"}}
	it := New[string](log, 0)
	it.Next()
	require.Panics(t, func() { it.Next() })
}
