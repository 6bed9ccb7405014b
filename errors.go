// Copyright 2011 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/cockroachdb/errors"
)

// Sentinel markers for the abstract error kinds the table format
// distinguishes. NotFound is not represented here - it is surfaced as a
// boolean return from Get, not an error.
var (
	// ErrCorrupt marks truncated input, bad checksums, bad magic, restart
	// arrays out of range, and any other indication that on-disk bytes
	// don't decode as claimed.
	ErrCorrupt = errors.New("sstable: corruption")
	// ErrInvalidArgument marks programmer errors: out-of-order Add, Add
	// after Finish, an unrecognized compression type.
	ErrInvalidArgument = errors.New("sstable: invalid argument")
	// ErrClosed is returned by TableBuilder methods called after Finish
	// or Abandon.
	ErrClosed = errors.New("sstable: use of closed object")
)

// corruptionf builds a Corruption error carrying format detail, marked so
// IsCorruption and errors.Is(err, ErrCorrupt) both match.
func corruptionf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrCorrupt)
}

// invalidArgumentf builds an InvalidArgument error, marked so
// IsInvalidArgument and errors.Is(err, ErrInvalidArgument) both match.
func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidArgument)
}

// IsCorruption reports whether err indicates on-disk corruption.
func IsCorruption(err error) bool { return errors.Is(err, ErrCorrupt) }

// IsInvalidArgument reports whether err indicates a precondition violation
// by the caller.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// wrapIO wraps an underlying vfs/os error, preserving it for errors.As while
// adding sstable-level context.
func wrapIO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
