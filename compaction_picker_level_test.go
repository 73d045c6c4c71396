// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

func newLeveledPicker(opts *Options, reg *Registry) *leveledPicker {
	opts.CompactionStyle = CompactionStyleLevel
	opts.EnsureDefaults()
	return NewPicker(opts, reg).(*leveledPicker)
}

// TestLeveledPicksL0WhenOverTrigger covers scenario S1's L0 side: once the
// number of L0 files reaches L0CompactionTrigger, every L0 file is picked
// together (L0 files are not key-disjoint, so partial selection risks
// leaving a stale version behind).
func TestLeveledPicksL0WhenOverTrigger(t *testing.T) {
	opts := &Options{L0CompactionTrigger: 2}
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{mkFile(1, "a", "c", 10), mkFile(2, "b", "d", 10)}

	c := p.PickCompaction(v, NewLogBuffer(""))
	require.NotNil(t, c)
	require.Equal(t, 0, c.InputLevel)
	require.Equal(t, 1, c.OutputLevel)
	require.Len(t, c.Inputs[0], 2)
}

// TestLeveledPicksOverBudgetLevel covers scenario S2: a non-L0 level whose
// actual size exceeds its capacity target is compacted into the next
// level, pulling in overlapping siblings and grandparents.
func TestLeveledPicksOverBudgetLevel(t *testing.T) {
	opts := &Options{MaxBytesForLevelBase: 100, MaxBytesForLevelMultiplier: 10}
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "m", 200)}
	v.Files[2] = []*manifest.FileMetadata{mkFile(2, "b", "n", 50)}

	c := p.PickCompaction(v, NewLogBuffer(""))
	require.NotNil(t, c)
	require.Equal(t, 1, c.InputLevel)
	require.Equal(t, 2, c.OutputLevel)
	require.Len(t, c.Inputs[0], 1)
	require.Len(t, c.Inputs[1], 1)
}

func TestLeveledNoCompactionNeededWhenWithinBudget(t *testing.T) {
	opts := &Options{MaxBytesForLevelBase: 1 << 30}
	p := newLeveledPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[1] = []*manifest.FileMetadata{mkFile(1, "a", "b", 10)}

	require.Nil(t, p.PickCompaction(v, NewLogBuffer("")))
}

func TestLeveledRefusesSecondL0Compaction(t *testing.T) {
	opts := &Options{L0CompactionTrigger: 1}
	reg := NewRegistry()
	p := newLeveledPicker(opts, reg)

	other := &Compaction{InputLevel: 0, OutputLevel: 1}
	other.Inputs[0] = []*manifest.FileMetadata{mkFile(99, "z", "z", 1)}
	reg.Register(other)

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{mkFile(1, "a", "b", 10)}

	require.Nil(t, p.PickCompaction(v, NewLogBuffer("")))
}

func TestLeveledMaxInputLevel(t *testing.T) {
	opts := (&Options{NumLevels: 7}).EnsureDefaults()
	p := newLeveledPicker(opts, NewRegistry())
	require.Equal(t, 5, p.MaxInputLevel(7))
}
