// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRCMaskRoundTrip(t *testing.T) {
	for _, c := range []uint32{0, 1, 0xdeadbeef, 0xffffffff} {
		require.Equal(t, c, crcUnmask(crcMask(c)))
	}
}

func TestVerifyBlockCRC(t *testing.T) {
	payload := []byte("hello, sstable")
	masked := blockCRC(payload, byte(NoCompression))
	require.True(t, verifyBlockCRC(payload, byte(NoCompression), masked))
	require.False(t, verifyBlockCRC(payload, byte(SnappyCompression), masked))

	tampered := append([]byte(nil), payload...)
	tampered[0] ^= 1
	require.False(t, verifyBlockCRC(tampered, byte(NoCompression), masked))
}
