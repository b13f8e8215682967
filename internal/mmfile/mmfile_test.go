package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenReadsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.bin")
	want := []byte{0x0b, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, want, m.Data)
	require.NoError(t, m.Close())
	require.Nil(t, m.Data)
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Empty(t, m.Data)
	require.False(t, m.Mapped)
	require.NoError(t, m.Close())
}

func TestCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bin")
	require.NoError(t, os.WriteFile(path, []byte("sxpr"), 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Close(), ErrClosed)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
