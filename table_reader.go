// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Grounded on other_examples 8077872b_ariesdevil-pebble__sstable-reader.go.go
// (Reader.readBlock / readMetaindex / get), generalized to the pluggable
// Comparer/FilterPolicy/Compression this spec requires, and to a
// hashicorp/golang-lru/v2 + golang.org/x/sync/singleflight cache path the
// teacher's older reader.go predates.

package sstable

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/quillkv/sstable/vfs"
)

// Reader serves point lookups and ordered iteration against a single,
// already-built sstable file. A Reader is immutable after construction and
// safe for concurrent use by many goroutines.
type Reader struct {
	file vfs.Readable
	size int64
	opts *ReadOptions
	cmp  Comparer

	tableID uint64

	index []byte // decompressed index block, retained for the reader's lifetime

	filterReader *filterBlockReader

	sf singleflight.Group
}

// NewReader opens a Reader over f, which must hold a previously-built
// table; its length is taken from f.Size(). f is retained and owned by the Reader until
// Close.
func NewReader(f vfs.Readable, opts *ReadOptions) (*Reader, error) {
	opts = opts.EnsureDefaults()

	size, err := f.Size()
	if err != nil {
		return nil, wrapIO(err, "sstable: stat")
	}
	if size < footerLen {
		return nil, corruptionf("sstable: file of %d bytes is too short to contain a footer", size)
	}

	footerBuf := make([]byte, footerLen)
	if n, err := f.ReadAt(footerBuf, size-footerLen); n != footerLen {
		return nil, wrapIO(readErr(n, footerLen, err), "sstable: read footer")
	}
	ft, err := parseFooter(footerBuf)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:    f,
		size:    size,
		opts:    opts,
		cmp:     opts.Comparer,
		tableID: xxhash.Sum64(footerBuf) ^ uint64(size),
	}

	metaBuf, err := r.readBlockUncached(ft.metaindexBH)
	if err != nil {
		return nil, err
	}
	metaMap, err := parseMetaindex(r.cmp, metaBuf)
	if err != nil {
		return nil, err
	}

	if opts.FilterPolicy != nil {
		if h, ok := metaMap[metaFilterKeyPrefix+opts.FilterPolicy.Name()]; ok {
			filterBuf, err := r.readBlockUncached(h)
			if err != nil {
				return nil, err
			}
			fr, err := newFilterBlockReader(opts.FilterPolicy, filterBuf)
			if err != nil {
				return nil, err
			}
			r.filterReader = fr
		}
	}

	indexBuf, err := r.readBlockUncached(ft.indexBH)
	if err != nil {
		return nil, err
	}
	r.index = indexBuf

	return r, nil
}

func readErr(got, want int, err error) error {
	if err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

// parseMetaindex decodes a metaindex block's entries into a name->handle
// map.
func parseMetaindex(cmp Comparer, data []byte) (map[string]BlockHandle, error) {
	it, err := newBlockIter(cmp, data)
	if err != nil {
		return nil, err
	}
	m := make(map[string]BlockHandle)
	for it.First(); it.Valid(); it.Next() {
		h, n := decodeBlockHandle(it.Value())
		if n == 0 {
			return nil, corruptionf("sstable: invalid block handle in metaindex entry %q", it.Key())
		}
		m[string(it.Key())] = h
	}
	if it.Error() != nil {
		return nil, it.Error()
	}
	return m, nil
}

// readBlockUncached reads, checksum-verifies, and decompresses the block at
// h, bypassing the block cache entirely - used for the metaindex/index
// blocks during Open, which are each read exactly once per Reader anyway.
func (r *Reader) readBlockUncached(h BlockHandle) ([]byte, error) {
	buf := make([]byte, h.Size+blockTrailerLen)
	n, err := r.file.ReadAt(buf, int64(h.Offset))
	if n != len(buf) {
		return nil, wrapIO(readErr(n, len(buf), err), "sstable: read block at offset %d", h.Offset)
	}

	compressionType := buf[h.Size]
	storedCRC := binary.LittleEndian.Uint32(buf[h.Size+1 : h.Size+5])
	if !r.opts.DisableChecksumVerification {
		if !verifyBlockCRC(buf[:h.Size], compressionType, storedCRC) {
			return nil, corruptionf("sstable: checksum mismatch for block at offset %d", h.Offset)
		}
	}
	return decompress(Compression(compressionType), nil, buf[:h.Size])
}

// readBlock is the cached path data-block fetches use: it consults
// opts.Cache first, and coalesces concurrent misses for the same block so
// only one goroutine actually performs the read and decompression.
func (r *Reader) readBlock(h BlockHandle) ([]byte, error) {
	key := CacheKey{TableID: r.tableID, Offset: h.Offset}
	if r.opts.Cache != nil {
		if v, ok := r.opts.Cache.Get(key); ok {
			return v, nil
		}
	}

	sfKey := fmt.Sprintf("%d:%d", r.tableID, h.Offset)
	v, err, _ := r.sf.Do(sfKey, func() (interface{}, error) {
		data, err := r.readBlockUncached(h)
		if err != nil {
			return nil, err
		}
		if r.opts.Cache != nil {
			r.opts.Cache.Add(key, data)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Get performs a point lookup. It returns (nil, false, nil) if key is
// absent, without ever reading a data block if a filter is configured and
// says the key cannot be present.
func (r *Reader) Get(key []byte) ([]byte, bool, error) {
	indexIter, err := newBlockIter(r.cmp, r.index)
	if err != nil {
		return nil, false, err
	}
	if !indexIter.SeekGE(key) {
		return nil, false, indexIter.Error()
	}
	h, n := decodeBlockHandle(indexIter.Value())
	if n == 0 {
		return nil, false, corruptionf("sstable: invalid block handle in index entry %q", indexIter.Key())
	}

	if r.filterReader != nil && !r.filterReader.mayContain(h.Offset, key) {
		return nil, false, nil
	}

	data, err := r.readBlock(h)
	if err != nil {
		return nil, false, err
	}
	dataIter, err := newBlockIter(r.cmp, data)
	if err != nil {
		return nil, false, err
	}
	if !dataIter.SeekGE(key) {
		return nil, false, dataIter.Error()
	}
	if r.cmp.Compare(dataIter.Key(), key) != 0 {
		return nil, false, nil
	}
	return append([]byte(nil), dataIter.Value()...), true, nil
}

// NewIter returns a fresh two-level iterator over the table. Multiple
// iterators from the same Reader may be used concurrently from different
// goroutines; each owns its own cursor state and shares only the
// immutable, already-decoded index block.
func (r *Reader) NewIter() (Iterator, error) {
	indexIter, err := newBlockIter(r.cmp, r.index)
	if err != nil {
		return nil, err
	}
	return &twoLevelIterator{r: r, index: indexIter}, nil
}

// Close releases the underlying file handle. Blocks already returned to
// callers stay usable, but iterators from this Reader fetch data blocks
// through the same handle, so whether they can still load blocks after
// Close depends on that handle (a closed DiskFS file fails the read).
func (r *Reader) Close() error {
	return r.file.Close()
}
