// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTestBlock builds a finished block payload from sorted key/value
// pairs using the given restart interval.
func buildTestBlock(t *testing.T, restartInterval int, keys, values []string) []byte {
	t.Helper()
	b := newBlockBuilder(restartInterval)
	for i := range keys {
		require.NoError(t, b.add(DefaultComparer, []byte(keys[i]), []byte(values[i])))
	}
	return b.finish()
}

func seqKV(n int) (keys, values []string) {
	for i := 0; i < n; i++ {
		keys = append(keys, fmt.Sprintf("key-%04d", i))
		values = append(values, fmt.Sprintf("value-%d", i))
	}
	return keys, values
}

func TestBlockIterForwardIteration(t *testing.T) {
	keys, values := seqKV(50)
	data := buildTestBlock(t, 4, keys, values)

	it, err := newBlockIter(DefaultComparer, data)
	require.NoError(t, err)

	i := 0
	for valid := it.First(); valid; valid = it.Next() {
		require.Equal(t, keys[i], string(it.Key()))
		require.Equal(t, values[i], string(it.Value()))
		i++
	}
	require.Equal(t, len(keys), i)
	require.NoError(t, it.Error())
}

func TestBlockIterBackwardIteration(t *testing.T) {
	keys, values := seqKV(50)
	data := buildTestBlock(t, 4, keys, values)

	it, err := newBlockIter(DefaultComparer, data)
	require.NoError(t, err)

	i := len(keys) - 1
	for valid := it.Last(); valid; valid = it.Prev() {
		require.Equal(t, keys[i], string(it.Key()))
		require.Equal(t, values[i], string(it.Value()))
		i--
	}
	require.Equal(t, -1, i)
}

func TestBlockIterSeekGE(t *testing.T) {
	keys, values := seqKV(30)
	data := buildTestBlock(t, 3, keys, values)

	it, err := newBlockIter(DefaultComparer, data)
	require.NoError(t, err)

	require.True(t, it.SeekGE([]byte(keys[10])))
	require.Equal(t, keys[10], string(it.Key()))
	require.Equal(t, values[10], string(it.Value()))

	// A target strictly between two keys lands on the next key.
	require.True(t, it.SeekGE([]byte("key-0010a")))
	require.Equal(t, keys[11], string(it.Key()))

	require.False(t, it.SeekGE([]byte("zzzz")))
	require.False(t, it.Valid())

	require.True(t, it.SeekGE([]byte("")))
	require.Equal(t, keys[0], string(it.Key()))
}

func TestBlockIterSeekLT(t *testing.T) {
	keys, values := seqKV(30)
	data := buildTestBlock(t, 3, keys, values)

	it, err := newBlockIter(DefaultComparer, data)
	require.NoError(t, err)

	require.True(t, it.SeekLT([]byte(keys[10])))
	require.Equal(t, keys[9], string(it.Key()))

	// Past the end seeks to the last key.
	require.True(t, it.SeekLT([]byte("zzzz")))
	require.Equal(t, keys[len(keys)-1], string(it.Key()))

	// Before the first key is invalid.
	require.False(t, it.SeekLT([]byte("")))
	require.False(t, it.Valid())
	_ = values
}

func TestBlockIterSingleEntry(t *testing.T) {
	data := buildTestBlock(t, 16, []string{"only"}, []string{"value"})
	it, err := newBlockIter(DefaultComparer, data)
	require.NoError(t, err)

	require.True(t, it.First())
	require.Equal(t, "only", string(it.Key()))
	require.False(t, it.Next())
	require.True(t, it.Last())
	require.Equal(t, "only", string(it.Key()))
	require.False(t, it.Prev())
}

func TestBlockIterRejectsTooShortBlock(t *testing.T) {
	_, err := newBlockIter(DefaultComparer, []byte{1, 2, 3})
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}

func TestBlockIterRejectsZeroRestarts(t *testing.T) {
	// Trailer claiming zero restarts.
	buf := appendUint32LE(nil, 0)
	_, err := newBlockIter(DefaultComparer, buf)
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}

func TestBlockIterCursorMatchesFullScan(t *testing.T) {
	// Exercises every restart-interval boundary condition by trying many
	// interval sizes against the same data.
	keys, values := seqKV(40)
	for _, interval := range []int{1, 2, 3, 7, 16, 100} {
		data := buildTestBlock(t, interval, keys, values)
		it, err := newBlockIter(DefaultComparer, data)
		require.NoError(t, err)

		for i := range keys {
			require.True(t, it.SeekGE([]byte(keys[i])), "interval=%d i=%d", interval, i)
			require.Equal(t, keys[i], string(it.Key()))
			require.Equal(t, values[i], string(it.Value()))
		}
	}
}
