// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "encoding/binary"

// filterBaseLg fixes filter ranges at 2 KiB (1 << 11) of file offset per
// spec §3/§4.3.
const filterBaseLg = 11

// filterBlockBuilder buckets keys by the file offset of the data block they
// land in and asks the configured FilterPolicy for one filter per bucket.
type filterBlockBuilder struct {
	policy        FilterPolicy
	pendingKeys   [][]byte
	filterOffsets []uint32
	result        []byte
}

func newFilterBlockBuilder(policy FilterPolicy) *filterBlockBuilder {
	return &filterBlockBuilder{policy: policy}
}

// startBlock must be called once per data block flush, even when no keys
// were added to the block's filter bucket since the last call - an empty
// filter still consumes one offset slot, because filters are indexed by
// file offset, not by block identity.
func (b *filterBlockBuilder) startBlock(blockOffset uint64) {
	index := blockOffset >> filterBaseLg
	for uint64(len(b.filterOffsets)) < index {
		b.generateFilter()
	}
}

func (b *filterBlockBuilder) addKey(key []byte) {
	b.pendingKeys = append(b.pendingKeys, append([]byte(nil), key...))
}

func (b *filterBlockBuilder) generateFilter() {
	b.filterOffsets = append(b.filterOffsets, uint32(len(b.result)))
	if len(b.pendingKeys) == 0 {
		return
	}
	b.result = append(b.result, b.policy.CreateFilter(b.pendingKeys)...)
	b.pendingKeys = b.pendingKeys[:0]
}

// finish emits the trailing filter for any still-pending keys, then the
// offset table, the offset table's own byte offset, and base_lg. The
// filter block is never compressed by the table builder.
func (b *filterBlockBuilder) finish() []byte {
	if len(b.pendingKeys) > 0 {
		b.generateFilter()
	}
	arrayOffset := uint32(len(b.result))
	for _, off := range b.filterOffsets {
		b.result = appendUint32LE(b.result, off)
	}
	b.result = appendUint32LE(b.result, arrayOffset)
	b.result = append(b.result, filterBaseLg)
	return b.result
}

// filterBlockReader answers key_may_match queries against the immutable
// bytes of a filter block already loaded into memory.
type filterBlockReader struct {
	policy  FilterPolicy
	data    []byte // filter byte strings only, offset table excluded
	offsets []byte // raw LE-u32 offset table bytes
	n       int    // number of filters
	baseLg  uint8
}

func newFilterBlockReader(policy FilterPolicy, buf []byte) (*filterBlockReader, error) {
	if len(buf) < 5 {
		return nil, corruptionf("sstable: filter block too short")
	}
	baseLg := buf[len(buf)-1]
	arrayOffset := binary.LittleEndian.Uint32(buf[len(buf)-5 : len(buf)-1])
	if int(arrayOffset) > len(buf)-5 {
		return nil, corruptionf("sstable: filter block offset-table offset out of range")
	}
	offsets := buf[arrayOffset : len(buf)-5]
	if len(offsets)%4 != 0 {
		return nil, corruptionf("sstable: filter block offset table is not a multiple of 4 bytes")
	}
	return &filterBlockReader{
		policy:  policy,
		data:    buf[:arrayOffset],
		offsets: offsets,
		n:       len(offsets) / 4,
		baseLg:  baseLg,
	}, nil
}

func (r *filterBlockReader) offsetAt(i int) uint32 {
	return binary.LittleEndian.Uint32(r.offsets[4*i:])
}

// mayContain reports whether the data block starting at blockOffset might
// contain key. A zero-length filter, or a blockOffset whose bucket index
// falls outside the recorded range, both conservatively answer true - the
// caller must then read the data block to find out.
func (r *filterBlockReader) mayContain(blockOffset uint64, key []byte) bool {
	idx := int(blockOffset >> r.baseLg)
	if idx < 0 || idx >= r.n {
		return true
	}
	start := r.offsetAt(idx)
	end := uint32(len(r.data))
	if idx+1 < r.n {
		end = r.offsetAt(idx + 1)
	}
	if start > end || int(end) > len(r.data) {
		return true
	}
	filter := r.data[start:end]
	if len(filter) == 0 {
		return true
	}
	return r.policy.MayContain(filter, key)
}
