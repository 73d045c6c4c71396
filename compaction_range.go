// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"github.com/tekcomms/rocksdb/internal/manifest"
)

// defaultCompactRange implements spec §4.7's manual range compaction for the
// leveled and universal policies: gather every file at inputLevel
// overlapping [begin, end] (declining the request if any of them is
// locked), expand for key recency, cap the
// result at MaxCompactionBytes (or the level's expanded-size limit if unset)
// and report a resumption point when the cap truncated the request, then
// compute siblings/grandparents exactly as PickCompaction does.
//
// begin == nil means "from the first key"; end == nil means "to the last
// key" — together nil, nil requests the whole level.
func defaultCompactRange(
	pb *pickerBase, v *manifest.Version, inputLevel, outputLevel int, begin, end []byte, log *LogBuffer,
) (*Compaction, []byte, error) {
	if err := validateManualRange(pb, v, inputLevel, outputLevel, begin, end); err != nil {
		return nil, nil, err
	}

	if inputLevel == 0 && pb.reg.L0InProgress() {
		log.Infof("manual: an L0 compaction is already in progress (I4)")
		return nil, nil, nil
	}

	ucmp := pb.cmp().UserKeyCompare
	candidates := v.Overlaps(inputLevel, ucmp, begin, end)
	if len(candidates) == 0 {
		log.Infof("manual: no files at L%d overlap the requested range", inputLevel)
		return nil, nil, nil
	}
	if manifest.FilesInCompaction(candidates) {
		log.Infof("manual: a file in the requested range is already locked")
		return nil, nil, nil
	}

	inputs, ok := pb.ExpandWhileOverlapping(v, inputLevel, candidates, log)
	if !ok {
		return nil, nil, nil
	}

	limit := pb.opts.MaxCompactionBytes
	if limit == 0 {
		limit = pb.ExpandedCompactionByteSizeLimit(inputLevel)
	}

	var compactionEnd []byte
	if manifest.TotalSize(inputs) > limit {
		sortBySmallest(inputs, pb.cmp())
		truncated := inputs[:0:0]
		var size uint64
		for i, f := range inputs {
			if size+f.Size > limit && len(truncated) > 0 {
				compactionEnd = append([]byte{}, inputs[i].Smallest.UserKey...)
				break
			}
			truncated = append(truncated, f)
			size += f.Size
		}
		if len(truncated) == 0 {
			// A single file alone exceeds the budget; compact it anyway
			// rather than making no progress.
			truncated = inputs[:1]
			if len(inputs) > 1 {
				compactionEnd = append([]byte{}, inputs[1].Smallest.UserKey...)
			}
		}
		inputs = truncated
		log.Infof("manual: capped L%d input to %d file(s) (%d bytes), resuming from %q", inputLevel, len(inputs), size, compactionEnd)
	}

	smallest, largest := pb.GetRange(inputs)
	if outputLevel != inputLevel {
		if inCompaction, _ := pb.ParentRangeInCompaction(v, smallest.UserKey, largest.UserKey, outputLevel); inCompaction {
			log.Infof("manual: output level L%d has an overlapping file already locked", outputLevel)
			return nil, nil, nil
		}
	}

	c := &Compaction{
		InputLevel:                inputLevel,
		OutputLevel:                outputLevel,
		IsManual:                   true,
		MaxOutputFileSize:          pb.MaxFileSizeForLevel(outputLevel),
		MaxGrandparentOverlapBytes: pb.MaxGrandParentOverlapBytes(outputLevel),
	}
	c.Inputs[0] = inputs
	pb.SetupOtherInputs(v, c)
	c.IsBottommostLevel = isBottommostLevel(v, c.OutputLevel)

	pb.reg.Register(c)
	log.Infof("manual: picked L%d -> L%d, %d+%d files", inputLevel, outputLevel, len(c.Inputs[0]), len(c.Inputs[1]))
	return c, compactionEnd, nil
}

// validateManualRange rejects a CompactRange request that is structurally
// impossible to satisfy (spec §7, InvalidManualRange): an out-of-bounds
// level, an output level unreachable from the input level, or begin > end
// under the comparator.
func validateManualRange(pb *pickerBase, v *manifest.Version, inputLevel, outputLevel int, begin, end []byte) error {
	if inputLevel < 0 || inputLevel >= v.NumLevels() {
		return ErrInvalidManualRange
	}
	if outputLevel < inputLevel {
		return ErrInvalidManualRange
	}
	if begin != nil && end != nil && pb.cmp().UserKeyCompare(begin, end) > 0 {
		return ErrInvalidManualRange
	}
	return nil
}
