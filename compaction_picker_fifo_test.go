// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

func newFIFOPicker(opts *Options, reg *Registry) *fifoPicker {
	opts.CompactionStyle = CompactionStyleFIFO
	opts.EnsureDefaults()
	return &fifoPicker{pickerBase: newPickerBase(opts, reg)}
}

// TestFIFODropsOldestFilesUntilUnderBudget covers scenario S5: once the
// total L0 size exceeds the budget, the oldest (smallest FileNum) files are
// dropped — never merged — until the remainder fits.
func TestFIFODropsOldestFilesUntilUnderBudget(t *testing.T) {
	opts := &Options{FIFO: FIFOOptions{MaxTableFilesSize: 150}}
	p := newFIFOPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{
		mkFile(1, "a", "b", 100),
		mkFile(2, "c", "d", 100),
		mkFile(3, "e", "f", 100),
	}

	c := p.PickCompaction(v, NewLogBuffer(""))
	require.NotNil(t, c)
	require.True(t, c.IsDeletionCompaction)
	require.True(t, c.IsBottommostLevel)
	require.Len(t, c.Inputs[0], 2)
	require.Equal(t, uint64(1), c.Inputs[0][0].FileNum)
	require.Equal(t, uint64(2), c.Inputs[0][1].FileNum)
}

func TestFIFOWithinBudgetIsNoop(t *testing.T) {
	opts := &Options{FIFO: FIFOOptions{MaxTableFilesSize: 1000}}
	p := newFIFOPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{mkFile(1, "a", "b", 100)}

	require.Nil(t, p.PickCompaction(v, NewLogBuffer("")))
}

func TestFIFOCompactRangeDegeneratesToPickCompaction(t *testing.T) {
	opts := &Options{FIFO: FIFOOptions{MaxTableFilesSize: 50}}
	p := newFIFOPicker(opts, NewRegistry())

	v := &manifest.Version{}
	v.Files[0] = []*manifest.FileMetadata{mkFile(1, "a", "b", 100)}

	c, end, err := p.CompactRange(v, 0, 0, []byte("anything"), []byte("anything"), NewLogBuffer(""))
	require.NoError(t, err)
	require.Nil(t, end)
	require.NotNil(t, c)
	require.True(t, c.IsDeletionCompaction)
}
