// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

// Logger is the narrow logging sink this package writes diagnostics
// through. No logging library is depended on here; callers
// that want pebble-style structured logs can adapt one to this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything. It is the zero-value-friendly default.
type NopLogger struct{}

func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}

// FilterPolicy is the capability contract a probabilistic filter (e.g.
// Bloom) must satisfy to plug into the table builder/reader.
type FilterPolicy interface {
	// Name identifies the policy. Persisted as part of the metaindex key
	// ("filter." + Name()) and checked on open.
	Name() string
	// CreateFilter builds a filter byte string covering keys.
	CreateFilter(keys [][]byte) []byte
	// MayContain reports whether key might be present in filter. False
	// negatives are never permitted; false positives are the whole
	// point.
	MayContain(filter, key []byte) bool
}

// Cache is the block-cache capability contract the table reader consumes.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key CacheKey) ([]byte, bool)
	Add(key CacheKey, value []byte)
}

// CacheKey identifies a cached block by the owning table's unique ID and
// the block's file offset.
type CacheKey struct {
	TableID uint64
	Offset  uint64
}

// Options configures the table builder (and the subset a Reader needs to
// interpret what was built).
type Options struct {
	// BlockSize is the target uncompressed size of a data block.
	BlockSize int
	// BlockRestartInterval is the restart spacing in entries for data
	// blocks. Index blocks always use a restart interval of 1.
	BlockRestartInterval int
	// Compression selects the codec applied to data, filter, metaindex,
	// and index block payloads (filter blocks are never compressed
	// regardless of this setting - see §4.3).
	Compression Compression
	// Comparer orders keys. Defaults to DefaultComparer.
	Comparer Comparer
	// FilterPolicy, if non-nil, causes a filter block to be built.
	FilterPolicy FilterPolicy
	// Logger receives builder diagnostics.
	Logger Logger
}

// EnsureDefaults returns a copy of o with zero-valued fields replaced by
// defaults, leaving o itself untouched. Safe to call on a nil *Options.
func (o *Options) EnsureDefaults() *Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.BlockSize <= 0 {
		out.BlockSize = 4096
	}
	if out.BlockRestartInterval <= 0 {
		out.BlockRestartInterval = 16
	}
	if out.Comparer == nil {
		out.Comparer = DefaultComparer
	}
	if out.Logger == nil {
		out.Logger = NopLogger{}
	}
	return &out
}

// ReadOptions configures a Reader and the iterators it produces.
type ReadOptions struct {
	// Comparer must match the Comparer the table was built with.
	Comparer Comparer
	// FilterPolicy must match the policy the table was built with, if
	// any; it is only consulted if the metaindex names a matching
	// filter block.
	FilterPolicy FilterPolicy
	// DisableChecksumVerification, when true, skips the CRC check on
	// every block read, trading integrity checking for speed. Checksums
	// are verified by default (the zero value keeps them on).
	DisableChecksumVerification bool
	// Cache, if non-nil, is consulted before every data-block read and
	// populated on miss.
	Cache Cache
	// Logger receives reader diagnostics.
	Logger Logger
}

// EnsureDefaults returns a copy of o with zero-valued fields replaced by
// defaults. Safe to call on a nil *ReadOptions.
func (o *ReadOptions) EnsureDefaults() *ReadOptions {
	var out ReadOptions
	if o != nil {
		out = *o
	}
	if out.Comparer == nil {
		out.Comparer = DefaultComparer
	}
	if out.Logger == nil {
		out.Logger = NopLogger{}
	}
	return &out
}
