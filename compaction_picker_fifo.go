// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"sort"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

// fifoPicker implements RocksDB's FIFO compaction style (spec §4.6): all
// files live at L0, never merged, and are dropped oldest-first once the
// total L0 size exceeds FIFOOptions.MaxTableFilesSize. This is the simplest
// of the three policies — it never reads or rewrites data, only deletes
// whole files — and is meant for pure TTL/ring-buffer workloads.
type fifoPicker struct {
	pickerBase
}

func (p *fifoPicker) Style() CompactionStyle { return CompactionStyleFIFO }

func (p *fifoPicker) MaxInputLevel(numLevels int) int { return 0 }

// PickCompaction selects the oldest (smallest FileNum) non-locked L0 files
// to drop, stopping as soon as the remaining total would fit within
// FIFO.MaxTableFilesSize. Returns nil if the level is already within budget.
func (p *fifoPicker) PickCompaction(v *manifest.Version, log *LogBuffer) *Compaction {
	total := v.TotalSizeAtLevel(0)
	budget := p.opts.FIFO.MaxTableFilesSize
	if total <= budget {
		log.Infof("fifo: L0 total %d bytes within budget %d", total, budget)
		return nil
	}

	files := make([]*manifest.FileMetadata, 0, len(v.Files[0]))
	for _, f := range v.Files[0] {
		if !f.BeingCompacted() {
			files = append(files, f)
		}
	}
	sort.Sort(manifest.ByFileNum(files))

	var drop []*manifest.FileMetadata
	remaining := total
	for _, f := range files {
		if remaining <= budget {
			break
		}
		drop = append(drop, f)
		remaining -= f.Size
	}
	if len(drop) == 0 {
		log.Infof("fifo: over budget but every L0 file is locked")
		return nil
	}

	c := &Compaction{
		InputLevel:           0,
		OutputLevel:          0,
		Style:                CompactionStyleFIFO,
		IsDeletionCompaction: true,
		IsBottommostLevel:    true,
	}
	c.Inputs[0] = drop
	p.reg.Register(c)
	log.Infof("fifo: dropping %d oldest L0 file(s), %d -> %d bytes", len(drop), total, remaining)
	return c
}

// CompactRange degenerates to the same oldest-first drop PickCompaction
// performs: FIFO has no notion of a user-chosen destination level, so a
// manual request is serviced identically regardless of the requested range
// or levels (spec §4.6, §4.7). compaction_end is always nil since one call
// always drains every over-budget file.
func (p *fifoPicker) CompactRange(
	v *manifest.Version, inputLevel, outputLevel int, begin, end []byte, log *LogBuffer,
) (*Compaction, []byte, error) {
	return p.PickCompaction(v, log), nil, nil
}
