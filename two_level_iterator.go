// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Grounded on the Iter type in other_examples
// 8077872b_ariesdevil-pebble__sstable-reader.go.go, including its SeekLT
// "index.Prev + data.Last" fallback, generalized to use the Reader's cached
// block fetch path and the package's own blockIter.

package sstable

// twoLevelIterator composes an index-block iterator with a lazily-opened
// data-block iterator. It keeps the two in lockstep: whenever data becomes
// invalid mid-traversal, it advances index and reopens data, retrying until
// either a valid entry is found or index itself is exhausted.
type twoLevelIterator struct {
	r     *Reader
	index *blockIter

	data  *blockIter
	dataH BlockHandle

	err error
}

func (i *twoLevelIterator) currentHandle() (BlockHandle, bool) {
	h, n := decodeBlockHandle(i.index.Value())
	if n == 0 {
		i.err = corruptionf("sstable: invalid block handle in index entry %q", i.index.Key())
		return BlockHandle{}, false
	}
	return h, true
}

// loadData opens (or reuses, if already positioned on the same block) the
// data-block iterator for h.
func (i *twoLevelIterator) loadData(h BlockHandle) bool {
	if i.data != nil && i.dataH == h {
		return true
	}
	data, err := i.r.readBlock(h)
	if err != nil {
		i.err = err
		i.data = nil
		return false
	}
	it, err := newBlockIter(i.r.cmp, data)
	if err != nil {
		i.err = err
		i.data = nil
		return false
	}
	i.data = it
	i.dataH = h
	return true
}

// advanceForward moves the index cursor forward until it finds a data
// block with at least one entry, or exhausts the index. This both
// implements two-level Next and the §4.6 "seek landed on an empty data
// block" fallback.
func (i *twoLevelIterator) advanceForward() bool {
	for {
		if !i.index.Next() {
			i.data = nil
			return false
		}
		h, ok := i.currentHandle()
		if !ok {
			return false
		}
		if !i.loadData(h) {
			return false
		}
		if i.data.First() {
			return true
		}
	}
}

// advanceBackward is the symmetric counterpart used by Prev and by the
// SeekLT fallback.
func (i *twoLevelIterator) advanceBackward() bool {
	for {
		if !i.index.Prev() {
			i.data = nil
			return false
		}
		h, ok := i.currentHandle()
		if !ok {
			return false
		}
		if !i.loadData(h) {
			return false
		}
		if i.data.Last() {
			return true
		}
	}
}

func (i *twoLevelIterator) SeekGE(target []byte) bool {
	if !i.index.SeekGE(target) {
		i.data = nil
		return false
	}
	h, ok := i.currentHandle()
	if !ok {
		return false
	}
	if !i.loadData(h) {
		return false
	}
	if i.data.SeekGE(target) {
		return true
	}
	return i.advanceForward()
}

func (i *twoLevelIterator) SeekLT(target []byte) bool {
	if !i.index.SeekGE(target) {
		return i.Last()
	}
	h, ok := i.currentHandle()
	if !ok {
		return false
	}
	if !i.loadData(h) {
		return false
	}
	if i.data.SeekLT(target) {
		return true
	}
	return i.advanceBackward()
}

func (i *twoLevelIterator) First() bool {
	if !i.index.First() {
		i.data = nil
		return false
	}
	h, ok := i.currentHandle()
	if !ok {
		return false
	}
	if !i.loadData(h) {
		return false
	}
	if i.data.First() {
		return true
	}
	return i.advanceForward()
}

func (i *twoLevelIterator) Last() bool {
	if !i.index.Last() {
		i.data = nil
		return false
	}
	h, ok := i.currentHandle()
	if !ok {
		return false
	}
	if !i.loadData(h) {
		return false
	}
	if i.data.Last() {
		return true
	}
	return i.advanceBackward()
}

func (i *twoLevelIterator) Next() bool {
	if !i.Valid() {
		return false
	}
	if i.data.Next() {
		return true
	}
	return i.advanceForward()
}

func (i *twoLevelIterator) Prev() bool {
	if !i.Valid() {
		return false
	}
	if i.data.Prev() {
		return true
	}
	return i.advanceBackward()
}

func (i *twoLevelIterator) Valid() bool { return i.data != nil && i.data.Valid() }

func (i *twoLevelIterator) Key() []byte {
	if i.data == nil {
		return nil
	}
	return i.data.Key()
}

func (i *twoLevelIterator) Value() []byte {
	if i.data == nil {
		return nil
	}
	return i.data.Value()
}

func (i *twoLevelIterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if err := i.index.Error(); err != nil {
		return err
	}
	if i.data != nil {
		return i.data.Error()
	}
	return nil
}

func (i *twoLevelIterator) Close() error { return i.Error() }
