// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec used for a block's payload, stored as
// the one-byte compression type in the block trailer.
type Compression uint8

const (
	NoCompression Compression = 0
	SnappyCompression Compression = 1
	ZstdCompression Compression = 2
	LZ4Compression Compression = 3
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case SnappyCompression:
		return "snappy"
	case ZstdCompression:
		return "zstd"
	case LZ4Compression:
		return "lz4"
	default:
		return "unknown"
	}
}

// compress appends the compressed form of src to dst (which may be nil) and
// returns the result. The caller is responsible for the "did this actually
// help" size check; compress never falls back to NoCompression itself.
func compress(c Compression, dst, src []byte) ([]byte, error) {
	switch c {
	case NoCompression:
		return append(dst, src...), nil
	case SnappyCompression:
		maxLen := snappy.MaxEncodedLen(len(src))
		buf := make([]byte, maxLen)
		enc := snappy.Encode(buf, src)
		return append(dst, enc...), nil
	case ZstdCompression:
		var buf bytes.Buffer
		w, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, wrapIO(err, "sstable: zstd encoder init")
		}
		if _, err := w.Write(src); err != nil {
			w.Close()
			return nil, wrapIO(err, "sstable: zstd compress")
		}
		if err := w.Close(); err != nil {
			return nil, wrapIO(err, "sstable: zstd compress close")
		}
		return append(dst, buf.Bytes()...), nil
	case LZ4Compression:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(src); err != nil {
			w.Close()
			return nil, wrapIO(err, "sstable: lz4 compress")
		}
		if err := w.Close(); err != nil {
			return nil, wrapIO(err, "sstable: lz4 compress close")
		}
		return append(dst, buf.Bytes()...), nil
	default:
		return nil, invalidArgumentf("sstable: unknown compression type %d", c)
	}
}

// decompress appends the decompressed form of src to dst and returns the
// result.
func decompress(c Compression, dst, src []byte) ([]byte, error) {
	switch c {
	case NoCompression:
		return append(dst, src...), nil
	case SnappyCompression:
		n, err := snappy.DecodedLen(src)
		if err != nil {
			return nil, corruptionf("sstable: bad snappy framing: %v", err)
		}
		buf := make([]byte, n)
		out, err := snappy.Decode(buf, src)
		if err != nil {
			return nil, corruptionf("sstable: snappy decompress failed: %v", err)
		}
		return append(dst, out...), nil
	case ZstdCompression:
		r, err := zstd.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, corruptionf("sstable: zstd decoder init failed: %v", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, corruptionf("sstable: zstd decompress failed: %v", err)
		}
		return append(dst, out...), nil
	case LZ4Compression:
		r := lz4.NewReader(bytes.NewReader(src))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, corruptionf("sstable: lz4 decompress failed: %v", err)
		}
		return append(dst, out...), nil
	default:
		return nil, corruptionf("sstable: unknown block compression type %d", c)
	}
}
