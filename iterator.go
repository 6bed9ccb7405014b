// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

// Iterator is the ordered-traversal contract shared by the block iterator,
// the two-level table iterator, and anything built on top of them. All
// positioning methods return the post-operation validity, equivalent to
// calling Valid() immediately after.
//
// An iterator that encounters corrupt input transitions to a terminal
// invalid state; Error() then reports the corruption. It never panics.
type Iterator interface {
	// SeekGE positions at the smallest key >= target, or becomes
	// invalid if no such key exists.
	SeekGE(target []byte) bool
	// SeekLT positions at the largest key < target, or becomes invalid
	// if no such key exists.
	SeekLT(target []byte) bool
	// First positions at the smallest key, or becomes invalid if the
	// iterator covers no entries.
	First() bool
	// Last positions at the largest key, or becomes invalid if the
	// iterator covers no entries.
	Last() bool
	// Next advances to the next key in order. Becomes invalid if
	// already at or past the last entry.
	Next() bool
	// Prev retreats to the previous key in order. Becomes invalid if
	// already at or before the first entry.
	Prev() bool
	// Valid reports whether the iterator is currently positioned at an
	// entry.
	Valid() bool
	// Key returns the current entry's key. Only valid to call when
	// Valid() is true; the returned slice may be reused on the next
	// positioning call.
	Key() []byte
	// Value returns the current entry's value, with the same aliasing
	// rules as Key.
	Value() []byte
	// Error returns the first error encountered, if any.
	Error() error
	// Close releases any resources held by the iterator.
	Close() error
}
