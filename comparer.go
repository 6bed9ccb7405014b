// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "bytes"

// Comparer defines a total order over keys, plus the two derived operations
// the index and metaindex encodings need: computing a short separator
// between two adjacent keys, and a short successor to a final key. A table's
// Comparer name is recorded (conceptually, by the enclosing engine) and must
// match between writer and reader.
type Comparer interface {
	// Compare returns -1, 0, or +1 as a is less than, equal to, or
	// greater than b.
	Compare(a, b []byte) int
	// Name identifies the comparer. Persisted by the enclosing engine
	// alongside a table so that a reader can detect a mismatched
	// comparer at open time.
	Name() string
	// Separator appends to dst a byte sequence s such that a <= s < b,
	// preferring one shorter than b when possible. If there is no such
	// shorter sequence (including when a >= b), dst is appended with a
	// itself (i.e. the separator is not required to be strictly shorter).
	Separator(dst, a, b []byte) []byte
	// Successor appends to dst a byte sequence s such that s >= a,
	// preferring one shorter than a when possible.
	Successor(dst, a []byte) []byte
}

// DefaultComparer is the bytewise lexicographic order over raw key bytes,
// the same total order almost every LSM-tree implementation in this space
// defaults to.
var DefaultComparer Comparer = bytewiseComparer{}

type bytewiseComparer struct{}

func (bytewiseComparer) Compare(a, b []byte) int { return bytes.Compare(a, b) }

func (bytewiseComparer) Name() string { return "quillkv.BytewiseComparator" }

// Separator implements the classic LevelDB shortest-separator algorithm:
// find the first byte at which a and b differ; if that byte in a can be
// incremented while staying less than b's byte there, do so and truncate -
// giving a short key strictly between a and b. If a is a prefix of b (or
// a >= b, or no byte can be incremented), return a unchanged.
func (bytewiseComparer) Separator(dst, a, b []byte) []byte {
	i, n := sharedPrefixLen(a, b)
	if i >= n || i >= len(a) {
		// a is a prefix of b, or a >= b (n == min(len(a), len(b)) reached
		// with no divergence): no shorter separator exists.
		return append(dst, a...)
	}
	if i >= len(b) {
		return append(dst, a...)
	}
	aByte, bByte := a[i], b[i]
	if aByte == 0xff || aByte+1 >= bByte {
		return append(dst, a...)
	}
	dst = append(dst, a[:i+1]...)
	dst[len(dst)-1]++
	return dst
}

// Successor implements the classic LevelDB shortest-successor algorithm:
// find the first byte that can be incremented without overflowing, and
// truncate there. If every byte is 0xff, return a unchanged (it is already
// its own shortest successor).
func (bytewiseComparer) Successor(dst, a []byte) []byte {
	for i := 0; i < len(a); i++ {
		if a[i] != 0xff {
			dst = append(dst, a[:i+1]...)
			dst[len(dst)-1]++
			return dst
		}
	}
	return append(dst, a...)
}

func sharedPrefixLen(a, b []byte) (i, n int) {
	n = len(a)
	if len(b) < n {
		n = len(b)
	}
	for i = 0; i < n && a[i] == b[i]; i++ {
	}
	return i, n
}

// reverseComparer imposes the descending total order: a sorts before b
// under this comparer exactly when a sorts after b bytewise. Exercised by
// the test harness's reversed-order scenario, to demonstrate that the
// table format makes no assumption about which total order a Comparer
// imposes.
type reverseComparer struct{}

func (reverseComparer) Compare(a, b []byte) int {
	return bytes.Compare(b, a)
}

func (reverseComparer) Name() string { return "quillkv.ReverseBytewiseComparator" }

func (reverseComparer) Separator(dst, a, b []byte) []byte {
	// The shortest-separator trick only works for the order it was
	// derived under; for a reversed order the safe, always-correct
	// choice is the left endpoint itself.
	return append(dst, a...)
}

func (reverseComparer) Successor(dst, a []byte) []byte {
	return append(dst, a...)
}

// ReverseComparer returns a Comparer whose total order is the reverse of
// bytewise order, used by tests to exercise the iterator/table layer
// against a non-default total order (spec scenario S4).
func ReverseComparer() Comparer { return reverseComparer{} }
