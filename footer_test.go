// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFooterRoundTrip(t *testing.T) {
	f := footer{
		metaindexBH: BlockHandle{Offset: 10, Size: 20},
		indexBH:     BlockHandle{Offset: 100, Size: 200},
	}
	buf := f.encode()
	require.Len(t, buf, footerLen)

	got, err := parseFooter(buf)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestFooterBadMagic(t *testing.T) {
	f := footer{metaindexBH: BlockHandle{Offset: 1, Size: 2}, indexBH: BlockHandle{Offset: 3, Size: 4}}
	buf := f.encode()
	buf[len(buf)-1] ^= 0xff

	_, err := parseFooter(buf)
	require.Error(t, err)
	require.True(t, IsCorruption(err))
	require.Contains(t, err.Error(), "bad magic number")
}

func TestFooterWrongLength(t *testing.T) {
	_, err := parseFooter(make([]byte, footerLen-1))
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}

func TestFooterCorruptBlockHandle(t *testing.T) {
	f := footer{metaindexBH: BlockHandle{Offset: 1, Size: 2}, indexBH: BlockHandle{Offset: 3, Size: 4}}
	buf := f.encode()
	// Smash the metaindex handle's varint bytes to an all-0xff continuation
	// run, which overflows a uint64 varint and which decodeBlockHandle
	// refuses as malformed.
	for i := 0; i < 20; i++ {
		buf[i] = 0xff
	}
	_, err := parseFooter(buf)
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}
