// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Grounded on the pebble-lineage blockIter (other_examples
// d114bf10_dialtr-pebble__sstable-block.go.go and
// c002c5da_ariesdevil-pebble__sstable-raw_block.go.go), reimplemented over
// plain byte-slice indexing and encoding/binary.Uvarint rather than
// unsafe.Pointer (see DESIGN.md).

package sstable

import "encoding/binary"

// cachedEntry records one entry decoded since the last seek to a restart
// point (after Next the run may span several restart segments), letting
// Prev walk backward without redecoding from the block start every time.
type cachedEntry struct {
	offset int
	key    []byte
	value  []byte
}

// blockIter walks the entries of a single decompressed block payload. It
// holds no reference to anything beyond the byte slice it was constructed
// from, which must outlive the iterator.
type blockIter struct {
	cmp           Comparer
	data          []byte
	restartsStart int
	numRestarts   int
	restartIdx    int // restart point the cache starts at; Next does not update it

	offset     int // start offset of the current entry; -1 if not positioned
	nextOffset int // offset where the next entry begins
	key        []byte
	value      []byte
	valid      bool
	err        error

	// empty is true for a block with zero entries: restartsStart == 0, so
	// the sole seeded restart offset (0) does not point at real entry
	// bytes. Without this, First/Last/SeekGE would try to decode an entry
	// at offset 0 with an entry region of length 0 and report corruption
	// for what is actually just an empty block.
	empty bool

	cache []cachedEntry
}

// newBlockIter parses the trailer of a decompressed block payload and
// returns a ready-to-seek iterator. The restart-array invariants (at least
// one restart, restart[0] == 0) are checked here so corrupt blocks fail
// fast rather than panicking on first use.
func newBlockIter(cmp Comparer, data []byte) (*blockIter, error) {
	if len(data) < 4 {
		return nil, corruptionf("sstable: block too short to contain a restart count")
	}
	numRestarts := int(binary.LittleEndian.Uint32(data[len(data)-4:]))
	if numRestarts == 0 {
		return nil, corruptionf("sstable: block has zero restart points")
	}
	restartsStart := len(data) - 4 - 4*numRestarts
	if restartsStart < 0 {
		return nil, corruptionf("sstable: restart array overruns block (n=%d)", numRestarts)
	}
	if binary.LittleEndian.Uint32(data[restartsStart:restartsStart+4]) != 0 {
		return nil, corruptionf("sstable: first restart point is not at offset 0")
	}
	return &blockIter{
		cmp:           cmp,
		data:          data,
		restartsStart: restartsStart,
		numRestarts:   numRestarts,
		offset:        -1,
		empty:         restartsStart == 0,
	}, nil
}

func (i *blockIter) restartOffset(idx int) int {
	return int(binary.LittleEndian.Uint32(i.data[i.restartsStart+4*idx:]))
}

// decodeEntry parses the shared/unshared/value-len varint triple and the
// following key/value bytes at offset, reconstructing the full key from
// prevKey[:shared] ++ unshared bytes. It never panics on malformed input;
// any inconsistency is reported as a Corruption error.
func decodeEntry(data []byte, offset, limit int, prevKey []byte) (key, value []byte, nextOffset int, err error) {
	if offset < 0 || offset >= limit {
		return nil, nil, 0, corruptionf("sstable: entry offset %d out of block range", offset)
	}
	p := data[offset:limit]
	shared, n1 := binary.Uvarint(p)
	if n1 <= 0 {
		return nil, nil, 0, corruptionf("sstable: bad shared-prefix varint at offset %d", offset)
	}
	p = p[n1:]
	unsharedLen, n2 := binary.Uvarint(p)
	if n2 <= 0 {
		return nil, nil, 0, corruptionf("sstable: bad unshared-length varint at offset %d", offset)
	}
	p = p[n2:]
	valueLen, n3 := binary.Uvarint(p)
	if n3 <= 0 {
		return nil, nil, 0, corruptionf("sstable: bad value-length varint at offset %d", offset)
	}
	p = p[n3:]

	if shared > uint64(len(prevKey)) {
		return nil, nil, 0, corruptionf("sstable: shared prefix length %d exceeds previous key length %d", shared, len(prevKey))
	}
	headerLen := n1 + n2 + n3
	need := unsharedLen + valueLen
	if uint64(len(p)) < need {
		return nil, nil, 0, corruptionf("sstable: entry at offset %d overruns block", offset)
	}

	key = make([]byte, shared+unsharedLen)
	copy(key, prevKey[:shared])
	copy(key[shared:], p[:unsharedLen])
	value = p[unsharedLen : unsharedLen+valueLen]
	nextOffset = offset + headerLen + int(unsharedLen+valueLen)
	return key, value, nextOffset, nil
}

func (i *blockIter) setCurrent(offset int, prevKey []byte) {
	key, value, next, err := decodeEntry(i.data, offset, i.restartsStart, prevKey)
	if err != nil {
		i.err = err
		i.invalidate()
		return
	}
	i.offset = offset
	i.nextOffset = next
	i.key = key
	i.value = value
	i.valid = true
	i.cache = append(i.cache, cachedEntry{offset: offset, key: key, value: value})
}

func (i *blockIter) invalidate() {
	i.valid = false
	i.key = nil
	i.value = nil
}

func (i *blockIter) seekToRestartIdx(idx int) {
	i.restartIdx = idx
	i.cache = i.cache[:0]
	i.setCurrent(i.restartOffset(idx), nil)
}

// restartKey decodes the (always-full) key stored at a restart point,
// without disturbing the iterator's current position.
func (i *blockIter) restartKey(idx int) ([]byte, error) {
	key, _, _, err := decodeEntry(i.data, i.restartOffset(idx), i.restartsStart, nil)
	return key, err
}

func (i *blockIter) SeekGE(target []byte) bool {
	if i.numRestarts == 0 || i.empty {
		i.invalidate()
		return false
	}
	lo, hi := 0, i.numRestarts-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		key, err := i.restartKey(mid)
		if err != nil {
			i.err = err
			i.invalidate()
			return false
		}
		if i.cmp.Compare(key, target) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	i.seekToRestartIdx(lo)
	for i.valid {
		if i.cmp.Compare(i.key, target) >= 0 {
			return true
		}
		i.Next()
	}
	return false
}

func (i *blockIter) SeekLT(target []byte) bool {
	if !i.SeekGE(target) {
		return i.Last()
	}
	return i.Prev()
}

func (i *blockIter) First() bool {
	if i.numRestarts == 0 || i.empty {
		i.invalidate()
		return false
	}
	i.seekToRestartIdx(0)
	return i.valid
}

func (i *blockIter) Last() bool {
	if i.numRestarts == 0 || i.empty {
		i.invalidate()
		return false
	}
	i.seekToRestartIdx(i.numRestarts - 1)
	for i.valid && i.nextOffset < i.restartsStart {
		i.setCurrent(i.nextOffset, i.key)
	}
	return i.valid
}

func (i *blockIter) Next() bool {
	if !i.valid {
		return false
	}
	if i.nextOffset >= i.restartsStart {
		i.invalidate()
		return false
	}
	i.setCurrent(i.nextOffset, i.key)
	return i.valid
}

func (i *blockIter) Prev() bool {
	if !i.valid {
		return false
	}
	target := i.offset

	// Find target within the cache of entries decoded since the last
	// restart-point seek.
	for idx := len(i.cache) - 1; idx >= 0; idx-- {
		if i.cache[idx].offset == target {
			if idx == 0 {
				break // fall through to previous restart segment
			}
			prev := i.cache[idx-1]
			i.offset = prev.offset
			i.key = prev.key
			i.value = prev.value
			i.nextOffset = target
			i.cache = i.cache[:idx]
			i.valid = true
			return true
		}
	}

	if i.restartIdx == 0 {
		i.invalidate()
		return false
	}
	i.seekToRestartIdx(i.restartIdx - 1)
	for i.valid && i.nextOffset < target {
		i.setCurrent(i.nextOffset, i.key)
	}
	if !i.valid || i.nextOffset != target {
		if i.err == nil {
			i.err = corruptionf("sstable: restart segment scan did not land on expected offset %d", target)
		}
		i.invalidate()
		return false
	}
	return true
}

func (i *blockIter) Valid() bool   { return i.valid }
func (i *blockIter) Key() []byte   { return i.key }
func (i *blockIter) Value() []byte { return i.value }
func (i *blockIter) Error() error  { return i.err }
func (i *blockIter) Close() error  { return i.err }
