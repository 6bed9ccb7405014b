// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package sstable implements the on-disk immutable sorted table (SSTable)
// subsystem of a log-structured merge-tree key-value store: building
// tables from a stream of sorted entries, reading them back, and exposing
// ordered iteration.
//
// File layout of one table, offsets growing downward:
//
//	[ data block 1 | trailer ]
//	[ data block 2 | trailer ]
//	...
//	[ data block n | trailer ]
//	[ filter block | trailer ]        (optional)
//	[ metaindex block | trailer ]
//	[ index block | trailer ]
//	[ footer (48 bytes) ]
//
// Every block except the filter block is optionally compressed and is
// followed by a 5-byte trailer: one byte of compression type, four bytes
// of masked CRC32C covering the stored payload and the compression-type
// byte. The footer is fixed at 48 bytes: a metaindex BlockHandle and an
// index BlockHandle, each zero-padded to 20 bytes, followed by an 8-byte
// magic number. A mismatched magic means the file is not one of our
// tables.
//
// Within a data or index block, entries are prefix-compressed against the
// previous entry and keys are periodically stored in full at "restart
// points" to bound binary-search seek cost; see block_builder.go and
// block_reader.go for the exact encoding.
//
// TableBuilder is single-threaded and not reentrant. Reader, once
// constructed, is safe for concurrent use by many goroutines; iterators
// returned by Reader.NewIter are not themselves safe for concurrent use,
// but distinct iterators from the same Reader may run on different
// goroutines simultaneously.
package sstable
