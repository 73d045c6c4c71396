// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"github.com/tekcomms/rocksdb/internal/base"
)

// CompactionStyle selects which of the three policy engines is active for a
// database. Exactly one is active at a time; see NewPicker.
type CompactionStyle int

// The three supported compaction styles.
const (
	CompactionStyleLevel CompactionStyle = iota
	CompactionStyleUniversal
	CompactionStyleFIFO
)

func (s CompactionStyle) String() string {
	switch s {
	case CompactionStyleLevel:
		return "level"
	case CompactionStyleUniversal:
		return "universal"
	case CompactionStyleFIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// UniversalCompactionStopStyle mirrors RocksDB's enum of the same name. The
// universal picker does not read it: whatever StopStyle holds, its read-amp
// run ends at the first older file whose size exceeds (100+SizeRatio)% of
// the run's accumulated size so far (see UniversalOptions.SizeRatio). The
// value is kept on Options for callers that inspect it — see DESIGN.md.
type UniversalCompactionStopStyle int

// The two stop styles RocksDB defines for universal compaction.
const (
	StopStyleSimilarSize UniversalCompactionStopStyle = iota
	StopStyleTotalSize
)

// DBPath pairs a storage path with the total size budget the engine tries
// to keep that path under. GetPathId (§4.5) assigns each universal-style
// output file to the lowest-indexed path that isn't yet projected full.
type DBPath struct {
	Path       string
	TargetSize uint64
}

// UniversalOptions groups the tunables specific to CompactionStyleUniversal.
type UniversalOptions struct {
	// SizeRatio is a percentage: a file may join a read-amp run if its size
	// is no more than (100+SizeRatio)% of the run's accumulated size so far.
	SizeRatio uint
	// MinMergeWidth and MaxMergeWidth bound how many files a single
	// read-amp run may contain.
	MinMergeWidth uint
	MaxMergeWidth uint
	// MaxSizeAmplificationPercent triggers a full compaction once the sum
	// of all but the newest file exceeds this percentage of the newest
	// file's size.
	MaxSizeAmplificationPercent uint
	// CompressionSizePercent is accepted for parity with RocksDB's option
	// set (it tunes how much of a universal run is asked to skip
	// compression); the picker does not act on it since compression is an
	// executor concern, out of scope here (§1).
	CompressionSizePercent int
	// StopStyle is recorded but not read by the picker. See
	// UniversalCompactionStopStyle.
	StopStyle UniversalCompactionStopStyle
}

// FIFOOptions groups the tunables specific to CompactionStyleFIFO.
type FIFOOptions struct {
	// MaxTableFilesSize is the total L0 byte budget. Once exceeded, the
	// oldest files are dropped until the remaining total fits.
	MaxTableFilesSize uint64
}

// Options is the picker's view of the engine's tunables (spec §6). It holds
// no file handles and performs no I/O; EnsureDefaults fills in every
// zero-valued field with RocksDB's historical default.
type Options struct {
	// Comparer is the total order used for every range computation the
	// picker performs. EnsureDefaults sets a nil Comparer to
	// base.DefaultComparer (bytewise user-key order).
	Comparer *base.InternalKeyComparator
	// Logger receives entries flushed from a LogBuffer. Defaults to
	// base.DefaultLogger{}.
	Logger base.Logger

	// CompactionStyle selects the active policy engine.
	CompactionStyle CompactionStyle

	// NumLevels is the number of levels in the LSM, L0..NumLevels-1.
	NumLevels int

	// L0CompactionTrigger is the number of L0 files that saturates the L0
	// score to 1.0 (leveled) or that must be present before a universal
	// pick is attempted at all.
	L0CompactionTrigger int

	// WriteBufferSize is the memtable flush size. It sets the byte half of
	// the L0 score: max_bytes_for_level(0) = L0CompactionTrigger *
	// WriteBufferSize.
	WriteBufferSize int64

	// MaxBytesForLevelBase and MaxBytesForLevelMultiplier define the
	// leveled capacity pyramid: MaxBytesForLevel(L) = Base * Multiplier^(L-1)
	// for L ≥ 1, optionally scaled per level by
	// MaxBytesForLevelMultiplierAdditional[L-1] when non-empty.
	MaxBytesForLevelBase                 int64
	MaxBytesForLevelMultiplier           float64
	MaxBytesForLevelMultiplierAdditional []float64

	// TargetFileSizeBase and TargetFileSizeMultiplier define
	// MaxFileSizeForLevel(L) = Base * Multiplier^L, the size the executor
	// is asked to cap output files at.
	TargetFileSizeBase       int64
	TargetFileSizeMultiplier int64

	// MaxGrandparentOverlapFactor scales MaxFileSizeForLevel(L) into
	// MaxGrandParentOverlapBytes(L), the limit the executor uses to decide
	// when to cut a new output file.
	MaxGrandparentOverlapFactor int
	// ExpandedCompactionFactor scales MaxFileSizeForLevel(L) into the byte
	// budget ExpandWhileOverlapping (§4.2) enforces on an expanded input
	// set.
	ExpandedCompactionFactor int
	// SourceCompactionFactor scales MaxFileSizeForLevel(L) into the byte
	// budget used while growing inputs[0] in SetupOtherInputs (§4.3).
	SourceCompactionFactor int
	// MaxCompactionBytes caps the total input size CompactRange (§4.7) will
	// select in one call before truncating and reporting a resumption
	// point. Zero means "use ExpandedCompactionByteSizeLimit instead".
	MaxCompactionBytes uint64

	// Universal holds the tunables for CompactionStyleUniversal.
	Universal UniversalOptions
	// FIFO holds the tunables for CompactionStyleFIFO.
	FIFO FIFOOptions

	// DBPaths lists the storage paths files may be written to, in
	// preference order, with each path's target size budget.
	DBPaths []DBPath
}

// EnsureDefaults mutates o in place, filling every unset tunable with
// RocksDB's historical default, and returns o for chaining — matching the
// teacher's own Options.EnsureDefaults idiom.
func (o *Options) EnsureDefaults() *Options {
	if o.Comparer == nil {
		o.Comparer = base.DefaultComparer
	}
	if o.Logger == nil {
		o.Logger = base.DefaultLogger{}
	}
	if o.NumLevels <= 0 {
		o.NumLevels = 7
	}
	if o.L0CompactionTrigger <= 0 {
		o.L0CompactionTrigger = 4
	}
	if o.WriteBufferSize <= 0 {
		o.WriteBufferSize = 64 << 20 // 64 MB
	}
	if o.MaxBytesForLevelBase <= 0 {
		o.MaxBytesForLevelBase = 256 << 20 // 256 MB
	}
	if o.MaxBytesForLevelMultiplier <= 0 {
		o.MaxBytesForLevelMultiplier = 10
	}
	if o.TargetFileSizeBase <= 0 {
		o.TargetFileSizeBase = 64 << 20 // 64 MB
	}
	if o.TargetFileSizeMultiplier <= 0 {
		o.TargetFileSizeMultiplier = 1
	}
	if o.MaxGrandparentOverlapFactor <= 0 {
		o.MaxGrandparentOverlapFactor = 10
	}
	if o.ExpandedCompactionFactor <= 0 {
		o.ExpandedCompactionFactor = 25
	}
	if o.SourceCompactionFactor <= 0 {
		o.SourceCompactionFactor = 1
	}
	if o.Universal.SizeRatio == 0 {
		o.Universal.SizeRatio = 1
	}
	if o.Universal.MinMergeWidth == 0 {
		o.Universal.MinMergeWidth = 2
	}
	if o.Universal.MaxMergeWidth == 0 {
		o.Universal.MaxMergeWidth = 1 << 30
	}
	if o.Universal.MaxSizeAmplificationPercent == 0 {
		o.Universal.MaxSizeAmplificationPercent = 200
	}
	if o.FIFO.MaxTableFilesSize == 0 {
		o.FIFO.MaxTableFilesSize = 1 << 30 // 1 GB
	}
	if len(o.DBPaths) == 0 {
		o.DBPaths = []DBPath{{Path: ".", TargetSize: 1 << 62}}
	}
	return o
}
