// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"context"

	"github.com/tekcomms/rocksdb/internal/manifest"
)

// RunCompactRange drives a manual range compaction to completion (spec
// §4.10): it repeatedly calls picker.CompactRange, starting from begin and
// resuming from the compaction_end returned by the previous call, until
// either the whole range has been covered or ctx is cancelled. For each
// Compaction it picks, RunCompactRange registers it (via CompactRange
// itself), invokes run to perform the actual merge, and always releases the
// compaction's file locks before continuing — even if run returns an error.
//
// run is the caller's executor: RunCompactRange never reads, merges, or
// writes an SST itself (that remains out of scope here, per §1); it only
// re-invokes the picker and manages the registry handoff between calls.
func RunCompactRange(
	ctx context.Context,
	picker Picker,
	reg *Registry,
	v *manifest.Version,
	inputLevel, outputLevel int,
	begin, end []byte,
	log *LogBuffer,
	run func(*Compaction) error,
) error {
	cursor := begin
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c, compactionEnd, err := picker.CompactRange(v, inputLevel, outputLevel, cursor, end, log)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}

		runErr := run(c)
		status := CompactionSucceeded
		if runErr != nil {
			status = CompactionAborted
		}
		reg.ReleaseCompactionFiles(c, status)
		if runErr != nil {
			return runErr
		}

		if compactionEnd == nil {
			return nil
		}
		cursor = compactionEnd
	}
}
