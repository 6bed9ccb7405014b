// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillkv/sstable/bloom"
)

func TestFilterBlockBuilderEmptyProducesNoFilters(t *testing.T) {
	b := newFilterBlockBuilder(bloom.New(10))
	buf := b.finish()

	r, err := newFilterBlockReader(bloom.New(10), buf)
	require.NoError(t, err)
	require.Equal(t, 0, r.n)
}

func TestFilterBlockRoundTrip(t *testing.T) {
	// Mirrors how TableBuilder drives the builder: keys for a block are
	// added while it's open, and startBlock is called with the *next*
	// block's starting file offset once it's flushed - only once that
	// offset crosses into a new 2KiB range does a new filter actually get
	// generated.
	policy := bloom.New(10)
	b := newFilterBlockBuilder(policy)

	b.addKey([]byte("apple"))
	b.addKey([]byte("banana"))
	const block0End = 1<<filterBaseLg + 50 // crosses the first 2KiB boundary
	b.startBlock(block0End)

	b.addKey([]byte("cherry"))
	b.startBlock(2 * (1 << filterBaseLg) + 50)

	buf := b.finish()
	r, err := newFilterBlockReader(policy, buf)
	require.NoError(t, err)
	require.Equal(t, 2, r.n)

	require.True(t, r.mayContain(0, []byte("apple")))
	require.True(t, r.mayContain(0, []byte("banana")))
	require.True(t, r.mayContain(block0End, []byte("cherry")))
}

func TestFilterBlockMayContainIsConservative(t *testing.T) {
	policy := bloom.New(10)
	b := newFilterBlockBuilder(policy)
	for _, k := range []string{"a1", "a2", "a3", "a4", "a5"} {
		b.addKey([]byte(k))
	}
	b.startBlock(0)
	buf := b.finish()

	r, err := newFilterBlockReader(policy, buf)
	require.NoError(t, err)
	for _, k := range []string{"a1", "a2", "a3", "a4", "a5"} {
		require.True(t, r.mayContain(0, []byte(k)))
	}

	// Out-of-range buckets conservatively answer true.
	require.True(t, r.mayContain(1<<20, []byte("absent")))
}

func TestFilterBlockRejectsTooShort(t *testing.T) {
	_, err := newFilterBlockReader(bloom.New(10), []byte{1, 2})
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}
