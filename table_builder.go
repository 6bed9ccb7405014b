// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Grounded on the footer/meta-block wiring in darshanime-pebble's
// sstable/table.go, generalized to the single-format footer and the
// pluggable Comparer/FilterPolicy/Compression this spec requires.

package sstable

import (
	"github.com/quillkv/sstable/vfs"
)

type builderState int

const (
	builderOpen builderState = iota
	builderClosed
	builderAbandoned
)

// TableBuilder streams sorted (key, value) entries into a single sstable
// file. It is single-threaded and not reentrant: callers must not invoke
// methods concurrently, and must not call Add after Finish or Abandon.
type TableBuilder struct {
	w     vfs.Writable
	opts  *Options
	state builderState

	offset uint64

	dataBlock  *blockBuilder
	indexBlock *blockBuilder
	filter     *filterBlockBuilder

	lastKey []byte

	pendingIndexEntry  bool
	pendingHandle      BlockHandle

	compressScratch []byte

	numEntries int
}

// NewTableBuilder wraps w, which the builder takes exclusive ownership of
// until Finish or Abandon.
func NewTableBuilder(w vfs.Writable, opts *Options) *TableBuilder {
	opts = opts.EnsureDefaults()
	b := &TableBuilder{
		w:          w,
		opts:       opts,
		dataBlock:  newBlockBuilder(opts.BlockRestartInterval),
		indexBlock: newBlockBuilder(1),
	}
	if opts.FilterPolicy != nil {
		b.filter = newFilterBlockBuilder(opts.FilterPolicy)
	}
	return b
}

// Add appends a (key, value) pair. key must compare strictly greater than
// every previously added key.
func (b *TableBuilder) Add(key, value []byte) error {
	if b.state != builderOpen {
		return ErrClosed
	}
	if b.numEntries > 0 && b.opts.Comparer.Compare(key, b.lastKey) <= 0 {
		return invalidArgumentf("sstable: keys must be added in strictly increasing order")
	}

	if b.pendingIndexEntry {
		sep := b.opts.Comparer.Separator(nil, b.lastKey, key)
		var handleBuf []byte
		handleBuf = b.pendingHandle.encode(handleBuf)
		if err := b.indexBlock.add(b.opts.Comparer, sep, handleBuf); err != nil {
			return err
		}
		b.pendingIndexEntry = false
	}

	if b.filter != nil {
		b.filter.addKey(key)
	}

	if err := b.dataBlock.add(b.opts.Comparer, key, value); err != nil {
		return err
	}
	b.lastKey = append(b.lastKey[:0], key...)
	b.numEntries++

	if b.dataBlock.estimatedSize() >= b.opts.BlockSize {
		if err := b.flush(); err != nil {
			return err
		}
	}
	return nil
}

// flush finalizes the current data block, compresses and writes it, and
// records its handle as pending (the index entry itself is written lazily,
// once the next block's first key - and thus its separator - is known).
func (b *TableBuilder) flush() error {
	if b.dataBlock.empty() {
		return nil
	}
	handle, err := b.writeBlock(b.dataBlock)
	if err != nil {
		return err
	}
	b.dataBlock.reset()
	b.pendingHandle = handle
	b.pendingIndexEntry = true
	if b.filter != nil {
		b.filter.startBlock(b.offset)
	}
	return nil
}

// writeBlock finishes blk, compresses its payload per the configured
// codec (falling back to uncompressed storage if compression doesn't save
// at least 12.5%), appends the 5-byte trailer, and writes it to the file.
func (b *TableBuilder) writeBlock(blk *blockBuilder) (BlockHandle, error) {
	payload := blk.finish()
	compression := b.opts.Compression

	var stored []byte
	if compression == NoCompression {
		stored = payload
	} else {
		compressed, err := compress(compression, b.compressScratch[:0], payload)
		if err != nil {
			return BlockHandle{}, err
		}
		b.compressScratch = compressed
		if len(compressed) >= len(payload)-len(payload)/8 {
			// Compression saved less than 12.5%: store uncompressed.
			stored = payload
			compression = NoCompression
		} else {
			stored = compressed
		}
	}

	trailer := [blockTrailerLen]byte{}
	trailer[0] = byte(compression)
	crc := blockCRC(stored, trailer[0])
	trailer[1] = byte(crc)
	trailer[2] = byte(crc >> 8)
	trailer[3] = byte(crc >> 16)
	trailer[4] = byte(crc >> 24)

	handle := BlockHandle{Offset: b.offset, Size: uint64(len(stored))}
	if _, err := b.w.Write(stored); err != nil {
		return BlockHandle{}, wrapIO(err, "sstable: write block payload")
	}
	if _, err := b.w.Write(trailer[:]); err != nil {
		return BlockHandle{}, wrapIO(err, "sstable: write block trailer")
	}
	b.offset += uint64(len(stored)) + blockTrailerLen
	return handle, nil
}

// writeRawBlock writes buf verbatim (never compressed) with its own
// trailer - used for the filter block, which §4.3 specifies is never
// compressed regardless of the table's compression setting.
func (b *TableBuilder) writeRawBlock(buf []byte, compression Compression) (BlockHandle, error) {
	trailer := [blockTrailerLen]byte{}
	trailer[0] = byte(compression)
	crc := blockCRC(buf, trailer[0])
	trailer[1] = byte(crc)
	trailer[2] = byte(crc >> 8)
	trailer[3] = byte(crc >> 16)
	trailer[4] = byte(crc >> 24)

	handle := BlockHandle{Offset: b.offset, Size: uint64(len(buf))}
	if _, err := b.w.Write(buf); err != nil {
		return BlockHandle{}, wrapIO(err, "sstable: write raw block payload")
	}
	if _, err := b.w.Write(trailer[:]); err != nil {
		return BlockHandle{}, wrapIO(err, "sstable: write raw block trailer")
	}
	b.offset += uint64(len(buf)) + blockTrailerLen
	return handle, nil
}

const metaFilterKeyPrefix = "filter."

// Finish flushes any pending data block, writes the final index entry, the
// filter block (if configured), the metaindex block, the index block, and
// the footer, then closes the underlying file. It returns the total number
// of bytes written. The builder transitions to Closed; subsequent calls to
// any method fail.
func (b *TableBuilder) Finish() (int64, error) {
	if b.state != builderOpen {
		return 0, ErrClosed
	}

	if err := b.flush(); err != nil {
		return 0, err
	}

	if b.pendingIndexEntry {
		succ := b.opts.Comparer.Successor(nil, b.lastKey)
		var handleBuf []byte
		handleBuf = b.pendingHandle.encode(handleBuf)
		if err := b.indexBlock.add(b.opts.Comparer, succ, handleBuf); err != nil {
			return 0, err
		}
		b.pendingIndexEntry = false
	}

	var filterHandle BlockHandle
	haveFilter := false
	if b.filter != nil {
		filterBytes := b.filter.finish()
		h, err := b.writeRawBlock(filterBytes, NoCompression)
		if err != nil {
			return 0, err
		}
		filterHandle = h
		haveFilter = true
	}

	metaBuilder := newBlockBuilder(1)
	if haveFilter {
		var handleBuf []byte
		handleBuf = filterHandle.encode(handleBuf)
		key := []byte(metaFilterKeyPrefix + b.opts.FilterPolicy.Name())
		if err := metaBuilder.add(b.opts.Comparer, key, handleBuf); err != nil {
			return 0, err
		}
	}
	metaindexHandle, err := b.writeBlock(metaBuilder)
	if err != nil {
		return 0, err
	}

	indexHandle, err := b.writeBlock(b.indexBlock)
	if err != nil {
		return 0, err
	}

	f := footer{metaindexBH: metaindexHandle, indexBH: indexHandle}
	if _, err := b.w.Write(f.encode()); err != nil {
		return 0, wrapIO(err, "sstable: write footer")
	}
	b.offset += footerLen

	if err := b.w.Sync(); err != nil {
		return 0, wrapIO(err, "sstable: sync")
	}
	if err := b.w.Close(); err != nil {
		return 0, wrapIO(err, "sstable: close")
	}

	b.state = builderClosed
	return int64(b.offset), nil
}

// Abandon discards the builder without writing a footer. Subsequent calls
// to any method fail. Callers are expected to remove the partial output
// file themselves.
func (b *TableBuilder) Abandon() error {
	if b.state != builderOpen {
		return ErrClosed
	}
	b.state = builderAbandoned
	return b.w.Close()
}

// EntryCount returns the number of entries added so far.
func (b *TableBuilder) EntryCount() int { return b.numEntries }
