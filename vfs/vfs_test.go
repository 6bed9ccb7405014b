// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemFSWriteThenRead(t *testing.T) {
	fs := NewMemFS()

	w, err := fs.Create("a.sst")
	require.NoError(t, err)
	n, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	r, err := fs.Open("a.sst")
	require.NoError(t, err)
	defer r.Close()

	size, err := r.Size()
	require.NoError(t, err)
	require.Equal(t, int64(11), size)

	buf := make([]byte, size)
	n, err = r.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, int(size), n)
	require.Equal(t, "hello world", string(buf))
}

func TestMemFSReadAtOffset(t *testing.T) {
	fs := NewMemFS()
	w, err := fs.Create("b.sst")
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fs.Open("b.sst")
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := r.ReadAt(buf, 5)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "5678", string(buf))
}

func TestMemFSReadAtPastEndReturnsEOF(t *testing.T) {
	fs := NewMemFS()
	w, err := fs.Create("c.sst")
	require.NoError(t, err)
	_, err = w.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fs.Open("c.sst")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := r.ReadAt(buf, 0)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 5, n)
}

func TestMemFSOpenMissingFile(t *testing.T) {
	fs := NewMemFS()
	_, err := fs.Open("missing.sst")
	require.Error(t, err)
}

func TestMemFSRemove(t *testing.T) {
	fs := NewMemFS()
	w, err := fs.Create("d.sst")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, fs.Remove("d.sst"))
	_, err = fs.Open("d.sst")
	require.Error(t, err)
}

func TestDiskFSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/e.sst"

	fs := DiskFS{}
	w, err := fs.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("disk-backed"))
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	r, err := fs.Open(path)
	require.NoError(t, err)
	defer r.Close()

	size, err := r.Size()
	require.NoError(t, err)
	buf := make([]byte, size)
	_, err = r.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "disk-backed", string(buf))

	require.NoError(t, fs.Remove(path))
}
