// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "encoding/binary"

// footerLen is the fixed size of the trailer at the end of every table
// file: a 20-byte zero-padded metaindex handle, a 20-byte zero-padded index
// handle, and an 8-byte magic number.
const footerLen = 48

// magic identifies this table format. Readers that find a different value
// at the end of the file refuse to open it - see invariant 7.
const magic uint64 = 0xDB4775248B80FB57

type footer struct {
	metaindexBH BlockHandle
	indexBH     BlockHandle
}

// encode writes the footer into a fixed 48-byte buffer. Each handle is
// encoded into its own 20-byte zero-padded slot so that footerLen never
// varies with handle magnitude.
func (f footer) encode() []byte {
	buf := make([]byte, footerLen)
	copy(buf[:20], f.metaindexBH.encode(nil))
	copy(buf[20:40], f.indexBH.encode(nil))
	binary.LittleEndian.PutUint64(buf[40:48], magic)
	return buf
}

// parseFooter validates and decodes a 48-byte footer buffer. The magic
// number is checked first: a mismatch there means the file is not one of
// our tables at all, and every other field is meaningless, so there is no
// point decoding handles first.
func parseFooter(buf []byte) (footer, error) {
	if len(buf) != footerLen {
		return footer{}, corruptionf("sstable: invalid footer length %d", len(buf))
	}
	gotMagic := binary.LittleEndian.Uint64(buf[40:48])
	if gotMagic != magic {
		return footer{}, corruptionf("not an sstable (bad magic number)")
	}
	metaindexBH, n := decodeBlockHandle(buf[:20])
	if n == 0 {
		return footer{}, corruptionf("sstable: invalid metaindex block handle in footer")
	}
	indexBH, n := decodeBlockHandle(buf[20:40])
	if n == 0 {
		return footer{}, corruptionf("sstable: invalid index block handle in footer")
	}
	return footer{metaindexBH: metaindexBH, indexBH: indexBH}, nil
}
