// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"sort"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

// universalPicker implements RocksDB's universal (size-tiered) compaction
// style (spec §4.5): all files live at L0, sorted oldest-first by FileNum,
// and are merged as same-level "tiering" runs rather than being pushed down
// a level pyramid. A separate size-amplification trigger occasionally
// compacts everything into the bottommost level to bound total space usage.
type universalPicker struct {
	pickerBase
}

func (p *universalPicker) Style() CompactionStyle { return CompactionStyleUniversal }

func (p *universalPicker) MaxInputLevel(numLevels int) int { return 0 }

// PickCompaction tries, in order, a read-amplification (size-ratio run)
// compaction and then, only if no run qualifies, a size-amplification
// compaction.
func (p *universalPicker) PickCompaction(v *manifest.Version, log *LogBuffer) *Compaction {
	if p.reg.L0InProgress() {
		log.Infof("universal: an L0 compaction is already in progress (I4)")
		return nil
	}
	if len(v.Files[0]) < p.opts.L0CompactionTrigger {
		log.Infof("universal: only %d L0 file(s), below trigger %d", len(v.Files[0]), p.opts.L0CompactionTrigger)
		return nil
	}

	if c := p.pickReadAmp(v, log); c != nil {
		return c
	}
	return p.pickSizeAmp(v, log)
}

// sortedL0 returns every non-locked L0 file ordered oldest (smallest
// FileNum) first, matching the sorting RocksDB's universal picker relies on
// for both triggers.
func (p *universalPicker) sortedL0(v *manifest.Version) []*manifest.FileMetadata {
	files := make([]*manifest.FileMetadata, 0, len(v.Files[0]))
	for _, f := range v.Files[0] {
		if !f.BeingCompacted() {
			files = append(files, f)
		}
	}
	sort.Sort(manifest.ByFileNum(files))
	return files
}

// pickSizeAmp implements the space-amplification trigger: once
// (sum of all but the newest file) * 100 exceeds MaxSizeAmplificationPercent
// times the newest file's size, compact every eligible L0 file into the
// bottommost level in one shot.
func (p *universalPicker) pickSizeAmp(v *manifest.Version, log *LogBuffer) *Compaction {
	files := p.sortedL0(v)
	if len(files) < 2 {
		return nil
	}
	newest := files[len(files)-1]
	var olderTotal uint64
	for _, f := range files[:len(files)-1] {
		olderTotal += f.Size
	}
	if newest.Size == 0 || olderTotal*100 <= newest.Size*uint64(p.opts.Universal.MaxSizeAmplificationPercent) {
		return nil
	}

	outputLevel := p.opts.NumLevels - 1
	c := &Compaction{
		InputLevel:        0,
		OutputLevel:       outputLevel,
		Style:             CompactionStyleUniversal,
		IsFullCompaction:  true,
		IsBottommostLevel: true,
		MaxOutputFileSize: p.MaxFileSizeForLevel(outputLevel),
	}
	c.Inputs[0] = files
	p.reg.Register(c)
	log.Infof("universal: size-amp trigger, compacting all %d L0 file(s) into L%d", len(files), outputLevel)
	return c
}

// pickReadAmp implements the size-ratio ("tiering") trigger: walk the
// newest-to-oldest L0 files accumulating a run, extending toward older
// files while each older candidate's size stays within (100+SizeRatio)% of
// the run accumulated so far, then take the longest run that satisfies
// MinMergeWidth, bounded by MaxMergeWidth.
func (p *universalPicker) pickReadAmp(v *manifest.Version, log *LogBuffer) *Compaction {
	files := p.sortedL0(v) // oldest first
	if len(files) < int(p.opts.Universal.MinMergeWidth) {
		return nil
	}

	var bestRun []*manifest.FileMetadata
	for start := len(files) - 1; start >= 0; start-- {
		run := []*manifest.FileMetadata{files[start]}
		total := files[start].Size
		for i := start - 1; i >= 0; i-- {
			older := files[i]
			if total > 0 && older.Size*100 > total*uint64(100+p.opts.Universal.SizeRatio) {
				break
			}
			if uint(len(run)) >= p.opts.Universal.MaxMergeWidth {
				break
			}
			run = append(run, older)
			total += older.Size
		}
		if uint(len(run)) >= p.opts.Universal.MinMergeWidth && len(run) > len(bestRun) {
			bestRun = run
		}
	}
	if bestRun == nil {
		log.Infof("universal: no run of %d+ L0 files within size ratio %d%%", p.opts.Universal.MinMergeWidth, p.opts.Universal.SizeRatio)
		return nil
	}

	c := &Compaction{
		InputLevel:        0,
		OutputLevel:       0,
		Style:             CompactionStyleUniversal,
		MaxOutputFileSize: p.MaxFileSizeForLevel(0),
	}
	c.Inputs[0] = make([]*manifest.FileMetadata, len(bestRun))
	for i, f := range bestRun {
		c.Inputs[0][len(bestRun)-1-i] = f
	}
	p.reg.Register(c)
	log.Infof("universal: read-amp trigger, merging %d L0 file(s)", len(bestRun))
	return c
}

// GetPathId assigns a universal-style output file to the lowest-indexed
// DBPath whose TargetSize has not yet been projected full by fileSize,
// falling back to the last path if every path is projected full (§4.5).
func (p *universalPicker) GetPathId(fileSize uint64) int {
	var used uint64
	for i, path := range p.opts.DBPaths {
		if used+fileSize <= path.TargetSize || i == len(p.opts.DBPaths)-1 {
			return i
		}
		used += path.TargetSize
	}
	return 0
}

// CompactRange services a manual range compaction under the universal
// policy, delegating to the shared manual-compaction implementation with the
// caller's inputLevel and outputLevel passed through unchanged (spec §4.7).
func (p *universalPicker) CompactRange(
	v *manifest.Version, inputLevel, outputLevel int, begin, end []byte, log *LogBuffer,
) (*Compaction, []byte, error) {
	return defaultCompactRange(&p.pickerBase, v, inputLevel, outputLevel, begin, end, log)
}
