// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockHandleRoundTrip(t *testing.T) {
	cases := []BlockHandle{
		{Offset: 0, Size: 0},
		{Offset: 1, Size: 1},
		{Offset: 4096, Size: 123456},
		{Offset: 1 << 40, Size: 1 << 30},
	}
	for _, h := range cases {
		buf := h.encode(nil)
		require.LessOrEqual(t, len(buf), blockHandleMaxLen)
		got, n := decodeBlockHandle(buf)
		require.Equal(t, len(buf), n)
		require.Equal(t, h, got)
	}
}

func TestBlockHandleEncodeAppends(t *testing.T) {
	prefix := []byte("prefix")
	buf := BlockHandle{Offset: 10, Size: 20}.encode(prefix)
	require.Equal(t, "prefix", string(buf[:len(prefix)]))
}

func TestDecodeBlockHandleTruncated(t *testing.T) {
	_, n := decodeBlockHandle(nil)
	require.Equal(t, 0, n)

	h := BlockHandle{Offset: 300, Size: 400}
	buf := h.encode(nil)
	_, n = decodeBlockHandle(buf[:1])
	require.Equal(t, 0, n)
}
