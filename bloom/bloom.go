// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bloom implements a concrete sstable.FilterPolicy using the
// classic LevelDB bloom.cc double-hashing construction. The builder side is
// grounded on github.com/bits-and-blooms/bitset for the working bit array
// (PriyanshuSharma23-FlashLog/sst/writer.go wires the sibling bloom/v3
// package, but its on-disk filter encoding is never exercised anywhere in
// the retrieved sources, so this package controls the byte layout itself -
// see DESIGN.md). The reader side never touches bitset: it bit-tests the
// opaque, already-built filter bytes directly, exactly as they come off
// disk.
package bloom

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/zeebo/xxh3"
)

// Name is the policy name persisted in the metaindex as "filter."+Name().
const Name = "quillkv.BuiltinBloomFilter"

const defaultBitsPerKey = 10

// Policy is a Bloom filter sstable.FilterPolicy. The zero value is not
// usable; construct with New.
type Policy struct {
	bitsPerKey int
}

// New returns a Bloom filter policy targeting roughly bitsPerKey bits of
// filter storage per key. bitsPerKey <= 0 selects the LevelDB-standard
// default of 10, which yields about a 1% false positive rate.
func New(bitsPerKey int) *Policy {
	if bitsPerKey <= 0 {
		bitsPerKey = defaultBitsPerKey
	}
	return &Policy{bitsPerKey: bitsPerKey}
}

func (p *Policy) Name() string { return Name }

func numProbes(bitsPerKey int) int {
	k := int(float64(bitsPerKey) * math.Ln2)
	switch {
	case k < 1:
		k = 1
	case k > 30:
		k = 30
	}
	return k
}

// rotl15 rotates a 64-bit hash left by 15 bits, the double-hashing delta
// LevelDB's bloom.cc derives its second hash function from.
func rotl15(h uint64) uint64 {
	return (h << 15) | (h >> 49)
}

// CreateFilter builds the on-disk filter bytes for keys: a packed bit array
// sized bitsPerKey*len(keys) bits (rounded up to a whole byte, minimum 64
// bits), followed by a single trailing byte recording the number of probes
// k. An empty keys slice is never passed in by filterBlockBuilder (a
// wholly empty bucket is represented by a zero-length filter instead).
func (p *Policy) CreateFilter(keys [][]byte) []byte {
	k := numProbes(p.bitsPerKey)

	nBits := len(keys) * p.bitsPerKey
	if nBits < 64 {
		nBits = 64
	}
	nBytes := (nBits + 7) / 8
	nBits = nBytes * 8

	bits := bitset.New(uint(nBits))
	for _, key := range keys {
		h := xxh3.Hash(key)
		delta := rotl15(h)
		for i := 0; i < k; i++ {
			bits.Set(uint(h % uint64(nBits)))
			h += delta
		}
	}

	out := make([]byte, nBytes+1)
	for i := 0; i < nBits; i++ {
		if bits.Test(uint(i)) {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	out[nBytes] = byte(k)
	return out
}

// MayContain bit-tests the raw filter bytes directly; it never constructs
// a bitset.BitSet, since the bytes it's given are already in our own
// packed layout rather than bitset's own serialization format.
func (p *Policy) MayContain(filter, key []byte) bool {
	if len(filter) < 2 {
		return false
	}
	nBytes := len(filter) - 1
	nBits := nBytes * 8
	k := int(filter[nBytes])
	if k > 30 {
		// Reserved trailer values are treated as "cannot rule out" so
		// that a forward-incompatible encoding fails open rather than
		// silently dropping real keys.
		return true
	}

	h := xxh3.Hash(key)
	delta := rotl15(h)
	for i := 0; i < k; i++ {
		bitPos := h % uint64(nBits)
		if filter[bitPos/8]&(1<<(bitPos%8)) == 0 {
			return false
		}
		h += delta
	}
	return true
}
