// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockBuilderEmpty(t *testing.T) {
	b := newBlockBuilder(16)
	require.True(t, b.empty())
}

func TestBlockBuilderRejectsOutOfOrderKeys(t *testing.T) {
	b := newBlockBuilder(16)
	require.NoError(t, b.add(DefaultComparer, []byte("b"), []byte("1")))
	err := b.add(DefaultComparer, []byte("a"), []byte("2"))
	require.Error(t, err)
	require.True(t, IsInvalidArgument(err))

	err = b.add(DefaultComparer, []byte("b"), []byte("2"))
	require.Error(t, err)
	require.True(t, IsInvalidArgument(err))
}

func TestBlockBuilderRejectsAddAfterFinish(t *testing.T) {
	b := newBlockBuilder(16)
	require.NoError(t, b.add(DefaultComparer, []byte("a"), []byte("1")))
	b.finish()

	err := b.add(DefaultComparer, []byte("b"), []byte("2"))
	require.Error(t, err)
	require.True(t, IsInvalidArgument(err))
}

func TestBlockBuilderResetAllowsReuse(t *testing.T) {
	b := newBlockBuilder(16)
	require.NoError(t, b.add(DefaultComparer, []byte("a"), []byte("1")))
	b.finish()
	b.reset()
	require.True(t, b.empty())
	require.NoError(t, b.add(DefaultComparer, []byte("z"), []byte("9")))
}

func TestBlockBuilderRestartPoints(t *testing.T) {
	// With a restart interval of 2, every other entry starts a new restart
	// segment and is stored with a zero shared-prefix-length regardless of
	// how much it actually shares with its predecessor.
	b := newBlockBuilder(2)
	keys := []string{"aaa", "aab", "aac", "aad", "aae"}
	for i, k := range keys {
		require.NoError(t, b.add(DefaultComparer, []byte(k), []byte(fmt.Sprintf("v%d", i))))
	}
	require.Len(t, b.restarts, 3)
	require.Equal(t, uint32(0), b.restarts[0])
}
