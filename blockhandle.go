// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "encoding/binary"

// blockHandleMaxLen is the maximum encoded length of a BlockHandle: two
// varint uint64s, each up to 10 bytes.
const blockHandleMaxLen = 2 * binary.MaxVarintLen64

// BlockHandle points at a byte range within an sstable file. Size excludes
// the 5-byte block trailer (compression type + masked CRC32C).
type BlockHandle struct {
	Offset uint64
	Size   uint64
}

// encode appends the varint-encoded handle to dst and returns the result.
func (h BlockHandle) encode(dst []byte) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], h.Offset)
	dst = append(dst, buf[:n]...)
	n = binary.PutUvarint(buf[:], h.Size)
	dst = append(dst, buf[:n]...)
	return dst
}

// decodeBlockHandle decodes a BlockHandle from the start of src, returning
// the handle and the number of bytes consumed. n == 0 indicates a decode
// failure (truncated or malformed varint).
func decodeBlockHandle(src []byte) (BlockHandle, int) {
	offset, n1 := binary.Uvarint(src)
	if n1 <= 0 {
		return BlockHandle{}, 0
	}
	size, n2 := binary.Uvarint(src[n1:])
	if n2 <= 0 {
		return BlockHandle{}, 0
	}
	return BlockHandle{Offset: offset, Size: size}, n1 + n2
}
