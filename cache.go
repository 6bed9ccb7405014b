// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import lru "github.com/hashicorp/golang-lru/v2"

// LRUCache is a Cache implementation backed by hashicorp/golang-lru/v2. It
// is safe for concurrent use - the underlying library guards all access
// with its own mutex.
type LRUCache struct {
	c *lru.Cache[CacheKey, []byte]
}

// NewLRUCache returns a block cache holding up to size blocks.
func NewLRUCache(size int) (*LRUCache, error) {
	c, err := lru.New[CacheKey, []byte](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{c: c}, nil
}

func (l *LRUCache) Get(key CacheKey) ([]byte, bool) { return l.c.Get(key) }

func (l *LRUCache) Add(key CacheKey, value []byte) { l.c.Add(key, value) }
