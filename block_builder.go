// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Grounded on the pebble-lineage blockWriter (other_examples
// d114bf10_dialtr-pebble__sstable-block.go.go), generalized to the
// comparator-parameterized separator/restart scheme this spec requires.

package sstable

import "encoding/binary"

// blockBuilder accumulates a sorted run of key/value pairs into the
// prefix-compressed block payload described in §3/§4.1. It is not safe for
// concurrent use, and is not reentrant: Add must not be called again after
// Finish until Reset.
type blockBuilder struct {
	restartInterval int
	buf             []byte
	restarts        []uint32
	nEntries        int
	lastKey         []byte
	finished        bool
}

func newBlockBuilder(restartInterval int) *blockBuilder {
	return &blockBuilder{
		restartInterval: restartInterval,
		restarts:        []uint32{0},
	}
}

// reset clears the builder's state, allowing it to be reused for a new
// block without additional allocation where possible.
func (b *blockBuilder) reset() {
	b.buf = b.buf[:0]
	b.restarts = b.restarts[:0]
	b.restarts = append(b.restarts, 0)
	b.nEntries = 0
	b.lastKey = b.lastKey[:0]
	b.finished = false
}

func (b *blockBuilder) empty() bool { return len(b.buf) == 0 }

// estimatedSize returns buf.len() + 4*restart_count + 4, the size Finish
// will produce before any block-level compression.
func (b *blockBuilder) estimatedSize() int {
	return len(b.buf) + 4*len(b.restarts) + 4
}

// add appends a key/value pair. key must compare strictly greater than the
// last key added (or this must be the first entry of the block).
func (b *blockBuilder) add(cmp Comparer, key, value []byte) error {
	if b.finished {
		return invalidArgumentf("sstable: add called on a finished block builder")
	}
	if b.nEntries > 0 && cmp.Compare(key, b.lastKey) <= 0 {
		return invalidArgumentf("sstable: keys must be added in strictly increasing order")
	}

	shared := 0
	atRestart := b.nEntries%b.restartInterval == 0
	if !atRestart {
		shared = sharedPrefixLenBytes(b.lastKey, key)
	} else if b.nEntries > 0 {
		// The very first entry's restart point is the initial 0 that
		// reset/newBlockBuilder already seeded into restarts; only later
		// restart boundaries need a new entry pushed.
		b.restarts = append(b.restarts, uint32(len(b.buf)))
	}
	unshared := key[shared:]

	var varintBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(varintBuf[:], uint64(shared))
	b.buf = append(b.buf, varintBuf[:n]...)
	n = binary.PutUvarint(varintBuf[:], uint64(len(unshared)))
	b.buf = append(b.buf, varintBuf[:n]...)
	n = binary.PutUvarint(varintBuf[:], uint64(len(value)))
	b.buf = append(b.buf, varintBuf[:n]...)
	b.buf = append(b.buf, unshared...)
	b.buf = append(b.buf, value...)

	b.lastKey = append(b.lastKey[:0], key...)
	b.nEntries++
	return nil
}

// finish appends the restart array and its count, and returns the
// completed payload. The builder must be reset before it can be reused.
func (b *blockBuilder) finish() []byte {
	if len(b.restarts) == 0 {
		b.restarts = append(b.restarts, 0)
	}
	for _, r := range b.restarts {
		b.buf = appendUint32LE(b.buf, r)
	}
	b.buf = appendUint32LE(b.buf, uint32(len(b.restarts)))
	b.finished = true
	return b.buf
}

func sharedPrefixLenBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func appendUint32LE(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
