// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"math"
	"sort"

	"github.com/tekcomms/rocksdb/internal/base"
	"github.com/tekcomms/rocksdb/internal/manifest"
)

// Picker is the interface the three policy engines implement. Per §9's
// design note, this replaces the source's class hierarchy with a tagged set
// of concrete implementors sharing a common embedded pickerBase, dispatched
// through NewPicker rather than virtual calls.
type Picker interface {
	// PickCompaction returns the best Compaction to run next, or nil if
	// there is no work to do (spec §7, NoCompactionNeeded).
	PickCompaction(v *manifest.Version, log *LogBuffer) *Compaction

	// CompactRange services a user-initiated range compaction (§4.7).
	// compactionEnd is nil when the entire [begin, end] request was
	// satisfied by the returned Compaction; otherwise it is the key the
	// caller should start its next CompactRange call from.
	CompactRange(
		v *manifest.Version, inputLevel, outputLevel int, begin, end []byte, log *LogBuffer,
	) (c *Compaction, compactionEnd []byte, err error)

	// MaxInputLevel returns the highest level PickCompaction/CompactRange
	// will ever choose as InputLevel, given numLevels.
	MaxInputLevel(numLevels int) int

	// Style identifies which policy this is.
	Style() CompactionStyle
}

// NewPicker constructs the Picker for opts.CompactionStyle. opts must have
// already had EnsureDefaults called.
func NewPicker(opts *Options, reg *Registry) Picker {
	pb := newPickerBase(opts, reg)
	switch opts.CompactionStyle {
	case CompactionStyleUniversal:
		return &universalPicker{pickerBase: pb}
	case CompactionStyleFIFO:
		return &fifoPicker{pickerBase: pb}
	default:
		return &leveledPicker{pickerBase: pb, compactPointer: make([]base.InternalKey, opts.NumLevels)}
	}
}

// pickerBase implements the helpers every policy shares: range computation,
// conflict checks against the registry, key-recency expansion, and the
// per-level size limits derived from Options. This is RocksDB's
// CompactionPicker base class, reworked as a plain embedded struct rather
// than a virtual base (§9).
type pickerBase struct {
	opts *Options
	reg  *Registry
}

func newPickerBase(opts *Options, reg *Registry) pickerBase {
	return pickerBase{opts: opts, reg: reg}
}

func (p *pickerBase) cmp() *base.InternalKeyComparator { return p.opts.Comparer }

// MaxFileSizeForLevel returns the executor's target output file size for
// level: TargetFileSizeBase * TargetFileSizeMultiplier^level (§9).
func (p *pickerBase) MaxFileSizeForLevel(level int) int64 {
	if level <= 0 {
		return p.opts.TargetFileSizeBase
	}
	size := float64(p.opts.TargetFileSizeBase) * math.Pow(float64(p.opts.TargetFileSizeMultiplier), float64(level))
	if size > float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(size)
}

// MaxGrandParentOverlapBytes returns the grandparent-overlap budget the
// executor uses when deciding whether to cut an output file, recorded (not
// enforced) on every Compaction this picker produces.
func (p *pickerBase) MaxGrandParentOverlapBytes(level int) int64 {
	return p.MaxFileSizeForLevel(level) * int64(p.opts.MaxGrandparentOverlapFactor)
}

// ExpandedCompactionByteSizeLimit is the size budget ExpandWhileOverlapping
// enforces on an expanded inputs[0] (§4.2 step 5).
func (p *pickerBase) ExpandedCompactionByteSizeLimit(level int) uint64 {
	return uint64(p.MaxFileSizeForLevel(level)) * uint64(p.opts.ExpandedCompactionFactor)
}

// sourceCompactionByteSizeLimit is the budget used while growing inputs[0]
// in SetupOtherInputs (§4.3) without enlarging inputs[1].
func (p *pickerBase) sourceCompactionByteSizeLimit(level int) uint64 {
	return uint64(p.MaxFileSizeForLevel(level)) * uint64(p.opts.SourceCompactionFactor)
}

// MaxBytesForLevel returns the leveled policy's capacity target for level.
// L0's budget is L0CompactionTrigger * WriteBufferSize, the byte half of
// the L0 score; L ≥ 1 uses Base * Multiplier^(L-1), with each level's
// multiplier optionally scaled by MaxBytesForLevelMultiplierAdditional.
func (p *pickerBase) MaxBytesForLevel(level int) float64 {
	if level <= 0 {
		return float64(p.opts.L0CompactionTrigger) * float64(p.opts.WriteBufferSize)
	}
	result := float64(p.opts.MaxBytesForLevelBase)
	for l := 1; l < level; l++ {
		mult := p.opts.MaxBytesForLevelMultiplier
		if l-1 < len(p.opts.MaxBytesForLevelMultiplierAdditional) {
			mult *= p.opts.MaxBytesForLevelMultiplierAdditional[l-1]
		}
		result *= mult
	}
	return result
}

// FilesInCompaction reports whether any of files is currently locked.
func (p *pickerBase) FilesInCompaction(files []*manifest.FileMetadata) bool {
	return manifest.FilesInCompaction(files)
}

// ParentRangeInCompaction reports whether a file at level overlapping
// [smallest, largest] is locked, returning the first overlapping index for
// the caller to reuse (§4.1).
func (p *pickerBase) ParentRangeInCompaction(
	v *manifest.Version, smallest, largest []byte, level int,
) (inCompaction bool, index int) {
	return manifest.ParentRangeInCompaction(v, p.cmp().UserKeyCompare, smallest, largest, level)
}

// GetRange computes the minimal internal-key span of files. Panics if files
// is empty — callers must never invoke it on an empty candidate set (§4.1).
func (p *pickerBase) GetRange(files []*manifest.FileMetadata) (smallest, largest base.InternalKey) {
	s, l, err := manifest.GetRange(p.cmp(), files)
	if err != nil {
		panic(err)
	}
	return s, l
}

// GetRange2 computes the minimal internal-key span of files1 ∪ files2.
func (p *pickerBase) GetRange2(files1, files2 []*manifest.FileMetadata) (smallest, largest base.InternalKey) {
	s, l, err := manifest.GetRange2(p.cmp(), files1, files2)
	if err != nil {
		panic(err)
	}
	return s, l
}

// ExpandWhileOverlapping implements §4.2: grow inputs at level until no file
// in level\inputs shares a user key with any included file, so that a later
// Get() never sees an older version of a key at level after a newer version
// has already sunk to level+1. Returns the expanded set and false if
// expansion is infeasible (a required file is locked, or the result would
// exceed ExpandedCompactionByteSizeLimit).
func (p *pickerBase) ExpandWhileOverlapping(
	v *manifest.Version, level int, inputs []*manifest.FileMetadata, log *LogBuffer,
) ([]*manifest.FileMetadata, bool) {
	if len(inputs) == 0 {
		return inputs, true
	}
	ucmp := p.cmp().UserKeyCompare
	current := inputs
	for {
		smallest, largest := p.GetRange(current)
		expanded := v.Overlaps(level, ucmp, smallest.UserKey, largest.UserKey)
		if level == 0 {
			// L0 files are not key-disjoint: re-derive the range from the
			// newly found set and keep sweeping until it stops growing,
			// since a newly included file can itself overlap files the
			// first pass did not touch.
			for {
				s2, l2 := p.GetRange(expanded)
				again := v.Overlaps(level, ucmp, s2.UserKey, l2.UserKey)
				if len(again) == len(expanded) {
					break
				}
				expanded = again
			}
		}
		if len(expanded) == len(current) {
			current = expanded
			break
		}
		current = expanded
	}
	if manifest.FilesInCompaction(current) {
		log.Infof("expand L%d: aborting, candidate overlaps an in-progress file", level)
		return nil, false
	}
	if manifest.TotalSize(current) > p.ExpandedCompactionByteSizeLimit(level) {
		log.Infof("expand L%d: aborting, expanded set %d bytes exceeds limit", level, manifest.TotalSize(current))
		return nil, false
	}
	if len(current) != len(inputs) {
		log.Infof("expand L%d: grew %d file(s) to %d to preserve key recency", level, len(inputs), len(current))
	}
	return current, true
}

// SetupOtherInputs implements §4.3: having fixed inputs[0] at level, compute
// the overlapping sibling files at level+1, then attempt a boundary
// preserving grow of inputs[0] that does not enlarge inputs[1], and finally
// compute the grandparents at level+2.
func (p *pickerBase) SetupOtherInputs(v *manifest.Version, c *Compaction) {
	ucmp := p.cmp().UserKeyCompare

	smallest0, largest0 := p.GetRange(c.Inputs[0])
	c.Inputs[1] = v.Overlaps(c.OutputLevel, ucmp, smallest0.UserKey, largest0.UserKey)

	smallestAll, largestAll := p.GetRange2(c.Inputs[0], c.Inputs[1])
	if p.growInputs(v, c, smallestAll, largestAll) {
		smallestAll, largestAll = p.GetRange2(c.Inputs[0], c.Inputs[1])
	}

	if c.OutputLevel+1 < manifest.MaxLevels {
		c.Grandparents = v.Overlaps(c.OutputLevel+1, ucmp, smallestAll.UserKey, largestAll.UserKey)
	}
}

// growInputs enlarges c.Inputs[0] at level without changing c.Inputs[1],
// returning whether it did. sm/la bound Inputs[0] ∪ Inputs[1] before the
// grow.
func (p *pickerBase) growInputs(v *manifest.Version, c *Compaction, sm, la base.InternalKey) bool {
	if len(c.Inputs[1]) == 0 {
		return false
	}
	ucmp := p.cmp().UserKeyCompare
	grown0 := v.Overlaps(c.InputLevel, ucmp, sm.UserKey, la.UserKey)
	if len(grown0) <= len(c.Inputs[0]) {
		return false
	}
	if manifest.FilesInCompaction(grown0) {
		return false
	}
	if manifest.TotalSize(grown0)+manifest.TotalSize(c.Inputs[1]) >= p.sourceCompactionByteSizeLimit(c.InputLevel) {
		return false
	}
	sm1, la1 := p.GetRange(grown0)
	grown1 := v.Overlaps(c.OutputLevel, ucmp, sm1.UserKey, la1.UserKey)
	if len(grown1) != len(c.Inputs[1]) {
		return false
	}
	c.Inputs[0] = grown0
	c.Inputs[1] = grown1
	return true
}

// isBottommostLevel reports whether outputLevel is (or will be, once c
// completes) the deepest level holding any data — i.e. no level below
// outputLevel in v currently holds any file.
func isBottommostLevel(v *manifest.Version, outputLevel int) bool {
	for l := outputLevel + 1; l < manifest.MaxLevels; l++ {
		if len(v.Files[l]) > 0 {
			return false
		}
	}
	return true
}

// sortBySmallest sorts files ascending by Smallest under cmp. pickFileAtLevel
// and defaultCompactRange call it on their own copies of a level's files, so
// they do not depend on the order of the caller-supplied Version.
func sortBySmallest(files []*manifest.FileMetadata, cmp *base.InternalKeyComparator) {
	sort.Sort(manifest.BySmallest{Files: files, Cmp: cmp})
}
