// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

// TestCompactRangeRejectsInvertedRange covers the InvalidManualRange edge
// case: begin > end under the comparator must be rejected before any file
// is touched.
func TestCompactRangeRejectsInvertedRange(t *testing.T) {
	opts := (&Options{}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "z", 10)}

	_, _, err := p.CompactRange(v, 1, 2, []byte("z"), []byte("a"), NewLogBuffer(""))
	require.ErrorIs(t, err, ErrInvalidManualRange)
}

func TestCompactRangeRejectsOutOfBoundsLevel(t *testing.T) {
	opts := (&Options{}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "z", 10)}

	_, _, err := p.CompactRange(v, 9, 9, []byte("a"), []byte("z"), NewLogBuffer(""))
	require.ErrorIs(t, err, ErrInvalidManualRange)
}

// TestCompactRangeCapsAtMaxCompactionBytesAndResumes covers scenario S6 and
// property P6: a range too large to compact in one call is truncated, and
// the returned compaction_end lets the caller resume from where it left off.
func TestCompactRangeCapsAtMaxCompactionBytesAndResumes(t *testing.T) {
	opts := (&Options{MaxCompactionBytes: 150}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{
		mkFile(1, "a", "b", 100),
		mkFile(2, "c", "d", 100),
		mkFile(3, "e", "f", 100),
	}

	c, end, err := p.CompactRange(v, 1, 2, []byte("a"), []byte("f"), NewLogBuffer(""))
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, end)
	require.Less(t, len(c.Inputs[0]), 3)
}

func TestCompactRangeCoversWholeRangeWhenUnderBudget(t *testing.T) {
	opts := (&Options{}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "b", 10), mkFile(2, "c", "d", 10)}

	c, end, err := p.CompactRange(v, 1, 2, []byte("a"), []byte("d"), NewLogBuffer(""))
	require.NoError(t, err)
	require.Nil(t, end)
	require.NotNil(t, c)
	require.Len(t, c.Inputs[0], 2)
}

// TestCompactRangeDeclinesWhenL0AlreadyInProgress covers I4: a manual
// CompactRange at L0 must decline gracefully, not panic via Registry.Register,
// when an L0 compaction is already registered.
func TestCompactRangeDeclinesWhenL0AlreadyInProgress(t *testing.T) {
	opts := (&Options{}).EnsureDefaults()
	reg := NewRegistry()
	p := newLeveledPicker(opts, reg)

	other := &Compaction{InputLevel: 0, OutputLevel: 1}
	other.Inputs[0] = []*manifest.FileMetadata{mkFile(99, "y", "z", 1)}
	reg.Register(other)

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{mkFile(1, "a", "b", 10)}

	c, end, err := p.CompactRange(v, 0, 1, []byte("a"), []byte("b"), NewLogBuffer(""))
	require.NoError(t, err)
	require.Nil(t, c)
	require.Nil(t, end)
}

func TestCompactRangeNoOverlapIsNoop(t *testing.T) {
	opts := (&Options{}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "b", 10)}

	c, end, err := p.CompactRange(v, 1, 2, []byte("x"), []byte("z"), NewLogBuffer(""))
	require.NoError(t, err)
	require.Nil(t, end)
	require.Nil(t, c)
}
