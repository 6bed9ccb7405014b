// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "hash/crc32"

// blockTrailerLen is the size of the trailer appended to every block on
// disk: one compression-type byte, four masked-CRC32C bytes.
const blockTrailerLen = 5

var crcTable = crc32.MakeTable(crc32.Castagnoli)

const maskDelta = 0xa282ead8

// crcMask rotates crc right by 15 bits and adds maskDelta mod 2^32. Storing
// the masked value rather than the raw CRC avoids collisions with a CRC
// that happens to already be embedded as literal bytes inside the payload
// it's protecting.
func crcMask(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// crcUnmask reverses crcMask.
func crcUnmask(masked uint32) uint32 {
	rot := masked - maskDelta
	return (rot << 15) | (rot >> 17)
}

// blockCRC computes the masked CRC32C over a block's payload bytes followed
// by its compression-type byte, matching what the trailer stores.
func blockCRC(payload []byte, compressionType byte) uint32 {
	c := crc32.Update(0, crcTable, payload)
	c = crc32.Update(c, crcTable, []byte{compressionType})
	return crcMask(c)
}

// verifyBlockCRC reports whether storedMasked (as read from a block
// trailer) matches the masked CRC32C actually computed over payload and
// compressionType.
func verifyBlockCRC(payload []byte, compressionType byte, storedMasked uint32) bool {
	return blockCRC(payload, compressionType) == storedMasked
}
