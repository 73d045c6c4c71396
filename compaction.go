// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"github.com/tekcomms/rocksdb/internal/manifest"
)

// Compaction describes a unit of merge work the picker has selected. It is
// a pure value: the picker constructs it, marks its inputs BeingCompacted,
// registers it, and hands it to the caller. Executing it (reading, merging,
// writing SSTs) is entirely the caller's responsibility — out of scope here
// (spec §1).
type Compaction struct {
	// InputLevel and OutputLevel identify the two levels participating.
	// OutputLevel is usually InputLevel+1; for a universal read-amp pick it
	// equals InputLevel (L0 tiering stays at L0).
	InputLevel  int
	OutputLevel int

	// Inputs[0] holds the files taken from InputLevel. Inputs[1] holds the
	// files taken from OutputLevel (empty for L0 tiering or a FIFO drop).
	Inputs [2][]*manifest.FileMetadata

	// Grandparents holds the files at OutputLevel+1 overlapping the
	// combined key range of Inputs[0] ∪ Inputs[1]. The executor uses this
	// to decide when to cut a new output file, bounded by
	// MaxGrandparentOverlapBytes.
	Grandparents []*manifest.FileMetadata

	// MaxOutputFileSize and MaxGrandparentOverlapBytes are recorded for the
	// executor; the picker itself never enforces them (§9, "Output file
	// size and grandparent overlap").
	MaxOutputFileSize         int64
	MaxGrandparentOverlapBytes int64

	// Style records which policy produced this Compaction.
	Style CompactionStyle

	// IsManual is true for a Compaction produced by CompactRange.
	IsManual bool
	// IsFullCompaction is true for a universal size-amplification pick that
	// compacts every L0 file into the bottommost level.
	IsFullCompaction bool
	// IsBottommostLevel is true when OutputLevel is the deepest level that
	// will contain any data after this compaction completes — the executor
	// uses this to decide whether it may drop tombstones.
	IsBottommostLevel bool
	// IsDeletionCompaction is true for a FIFO drop: the executor deletes
	// Inputs[0] outright rather than merging anything.
	IsDeletionCompaction bool

	// Score is the policy-specific priority that caused this compaction to
	// be picked, recorded for diagnostics.
	Score float64

	// version is not set by any picker in this package and is not read by
	// ReleaseCompactionFiles, which works from Inputs alone.
	version *manifest.Version
}

// AllInputs returns Inputs[0] and Inputs[1] concatenated, the set that I1
// requires to be BeingCompacted after a successful pick.
func (c *Compaction) AllInputs() []*manifest.FileMetadata {
	out := make([]*manifest.FileMetadata, 0, len(c.Inputs[0])+len(c.Inputs[1]))
	out = append(out, c.Inputs[0]...)
	out = append(out, c.Inputs[1]...)
	return out
}

// InputSize sums the size of every input file (not including Grandparents,
// which are read-only context rather than inputs).
func (c *Compaction) InputSize() uint64 {
	return manifest.TotalSize(c.Inputs[0]) + manifest.TotalSize(c.Inputs[1])
}

// markInputs sets or clears BeingCompacted on every input file. Called by the
// registry with true when registering a freshly picked Compaction (I1) and
// with false when releasing it.
func (c *Compaction) markInputs(compacting bool) {
	for _, f := range c.AllInputs() {
		f.SetBeingCompacted(compacting)
	}
}
