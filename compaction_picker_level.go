// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"math"

	"github.com/tekcomms/rocksdb/internal/base"
	"github.com/tekcomms/rocksdb/internal/manifest"
	"github.com/tekcomms/rocksdb/internal/metrics"
)

// leveledPicker implements the default RocksDB/LevelDB leveled compaction
// style (spec §4.4): every level above L0 is key-disjoint and sized
// according to a geometric pyramid, and the level with the worst
// capacity-vs-actual-size score is compacted one level deeper.
type leveledPicker struct {
	pickerBase

	// compactPointer records, per level, the largest key handed off by the
	// previous pick from that level, so repeated picks sweep a level's key
	// space round robin instead of repeatedly choosing the same hot file.
	compactPointer []base.InternalKey
}

func (p *leveledPicker) Style() CompactionStyle { return CompactionStyleLevel }

func (p *leveledPicker) MaxInputLevel(numLevels int) int {
	if numLevels < 2 {
		return 0
	}
	return numLevels - 2
}

// score computes, for every level of v, the leveled policy's priority
// metric: for L0 it is the larger of the file count divided by
// L0CompactionTrigger and the level's total bytes divided by
// MaxBytesForLevel(0); for L ≥ 1 it is the level's actual size (excluding
// files already locked by an in-progress compaction) divided by its
// capacity target. A score ≥ 1 means the level is over budget.
func (p *leveledPicker) score(v *manifest.Version, beingCompacted []uint64) []float64 {
	n := v.NumLevels()
	scores := make([]float64, n)
	fileCountScore := float64(len(v.Files[0])) / float64(p.opts.L0CompactionTrigger)
	byteScore := float64(manifest.TotalSize(v.Files[0])) / p.MaxBytesForLevel(0)
	scores[0] = math.Max(fileCountScore, byteScore)
	// The bottommost level is never an input to a leveled compaction (spec
	// max input level = numLevels-2), so it is left unscored here, mirroring
	// the teacher's own initCompactionQueue bound of level < numLevels-1.
	for l := 1; l < n && l < p.opts.NumLevels-1; l++ {
		actual := v.TotalSizeAtLevel(l)
		if l < len(beingCompacted) && beingCompacted[l] < actual {
			actual -= beingCompacted[l]
		}
		scores[l] = float64(actual) / p.MaxBytesForLevel(l)
	}
	for l, s := range scores {
		metrics.SetLevelScore(l, s)
	}
	return scores
}

// pickLevel returns the level with the highest score ≥ 1, preferring the
// shallowest level on ties, or -1 if every level is within budget.
func (p *leveledPicker) pickLevel(scores []float64) int {
	best, bestScore := -1, 1.0
	for l, s := range scores {
		if s >= bestScore {
			if best == -1 || s > bestScore {
				best, bestScore = l, s
			}
		}
	}
	return best
}

// PickCompaction implements spec §4.4: compute per-level scores, select the
// worst-scoring level, choose a seed file at that level (round robin via
// compactPointer, or all of L0), expand for key recency, compute siblings
// and grandparents, and register the result.
func (p *leveledPicker) PickCompaction(v *manifest.Version, log *LogBuffer) *Compaction {
	scores := p.score(v, p.reg.SizeBeingCompacted(v))
	level := p.pickLevel(scores)
	if level == -1 {
		log.Infof("level: no level over budget, nothing to do")
		return nil
	}

	if level == 0 && p.reg.L0InProgress() {
		log.Infof("level: L0 over budget but an L0 compaction is already in progress (I4)")
		return nil
	}

	var seed []*manifest.FileMetadata
	if level == 0 {
		seed = append(seed, v.Files[0]...)
	} else {
		seed = p.pickFileAtLevel(v, level)
		if seed == nil {
			log.Infof("level: L%d over budget but every file is locked", level)
			return nil
		}
	}

	inputs, ok := p.ExpandWhileOverlapping(v, level, seed, log)
	if !ok {
		return nil
	}

	outputLevel := level + 1
	if outputLevel >= manifest.MaxLevels {
		outputLevel = level
	}

	smallest, largest := p.GetRange(inputs)
	if inCompaction, _ := p.ParentRangeInCompaction(v, smallest.UserKey, largest.UserKey, outputLevel); inCompaction {
		log.Infof("level: output level L%d has an overlapping file already locked", outputLevel)
		return nil
	}

	c := &Compaction{
		InputLevel:                level,
		OutputLevel:                outputLevel,
		Style:                      CompactionStyleLevel,
		Score:                      scores[level],
		MaxOutputFileSize:          p.MaxFileSizeForLevel(outputLevel),
		MaxGrandparentOverlapBytes: p.MaxGrandParentOverlapBytes(outputLevel),
	}
	c.Inputs[0] = inputs
	p.SetupOtherInputs(v, c)
	c.IsBottommostLevel = isBottommostLevel(v, c.OutputLevel)

	if level > 0 && len(inputs) > 0 {
		p.compactPointer[level] = inputs[len(inputs)-1].Largest
	}

	p.reg.Register(c)
	log.Infof("level: picked L%d -> L%d, %d+%d files, score %.2f", level, outputLevel, len(c.Inputs[0]), len(c.Inputs[1]), c.Score)
	return c
}

// pickFileAtLevel chooses a seed file at level ≥ 1: the first file (in
// ascending Smallest order) whose Largest exceeds the level's compact
// pointer and which is not already locked, wrapping around to the start of
// the level if the pointer has swept past every file. Returns nil if every
// file at level is currently locked.
func (p *leveledPicker) pickFileAtLevel(v *manifest.Version, level int) []*manifest.FileMetadata {
	files := make([]*manifest.FileMetadata, len(v.Files[level]))
	copy(files, v.Files[level])
	sortBySmallest(files, p.cmp())

	pointer := p.compactPointer[level]
	tryFrom := func(skipBelow bool) *manifest.FileMetadata {
		for _, f := range files {
			if f.BeingCompacted() {
				continue
			}
			if skipBelow && pointer.Valid() && p.cmp().Compare(f.Largest, pointer) <= 0 {
				continue
			}
			return f
		}
		return nil
	}

	f := tryFrom(true)
	if f == nil {
		f = tryFrom(false)
	}
	if f == nil {
		return nil
	}
	return []*manifest.FileMetadata{f}
}

// CompactRange services a manual range compaction at this level, delegating
// to the shared manual-compaction implementation (spec §4.7).
func (p *leveledPicker) CompactRange(
	v *manifest.Version, inputLevel, outputLevel int, begin, end []byte, log *LogBuffer,
) (*Compaction, []byte, error) {
	return defaultCompactRange(&p.pickerBase, v, inputLevel, outputLevel, begin, end, log)
}
