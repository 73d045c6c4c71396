// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestSetInProgressUpdatesGauge reads CompactionsInProgress back via
// testutil rather than trusting the setter, so the gauge is genuinely
// exercised rather than merely assumed to work once registered.
func TestSetInProgressUpdatesGauge(t *testing.T) {
	SetInProgress("level", 1, 3)
	require.Equal(t, float64(3), testutil.ToFloat64(CompactionsInProgress.WithLabelValues("level", "1")))

	SetInProgress("level", 1, 0)
	require.Equal(t, float64(0), testutil.ToFloat64(CompactionsInProgress.WithLabelValues("level", "1")))
}

// TestSetLevelScoreUpdatesGauge covers the per-level score gauge
// leveledPicker.score populates on every call.
func TestSetLevelScoreUpdatesGauge(t *testing.T) {
	SetLevelScore(2, 1.5)
	require.Equal(t, 1.5, testutil.ToFloat64(LevelScore.WithLabelValues("2")))
}

// TestRecordPickedSizeIncrementsCounterAndHistogram covers both halves of
// RecordPickedSize: the PicksTotal counter, read back via testutil, and the
// HdrHistogram distribution, read back via PickedSizeSnapshot.
func TestRecordPickedSizeIncrementsCounterAndHistogram(t *testing.T) {
	before := testutil.ToFloat64(PicksTotal.WithLabelValues("fifo"))

	RecordPickedSize("fifo", 1024)
	RecordPickedSize("fifo", 2048)
	RecordPickedSize("fifo", 4096)

	require.Equal(t, before+3, testutil.ToFloat64(PicksTotal.WithLabelValues("fifo")))

	p50 := PickedSizeSnapshot(50)
	require.Greater(t, p50, int64(0))
	require.LessOrEqual(t, p50, int64(4096))
}

// TestRecordPickedSizeIgnoresNonPositiveBytes covers the histogram's guard
// against zero/negative sizes (e.g. an empty manual-compaction no-op) while
// still incrementing PicksTotal.
func TestRecordPickedSizeIgnoresNonPositiveBytes(t *testing.T) {
	before := testutil.ToFloat64(PicksTotal.WithLabelValues("universal"))

	RecordPickedSize("universal", 0)

	require.Equal(t, before+1, testutil.ToFloat64(PicksTotal.WithLabelValues("universal")))
}

// TestCollectorsAreRegistered confirms every exported collector was wired
// into the default registry by init, rather than left dangling unused.
func TestCollectorsAreRegistered(t *testing.T) {
	require.Equal(t, 1, testutil.CollectAndCount(CompactionsInProgress, "rocksdb_picker_compactions_in_progress"))
	require.GreaterOrEqual(t, testutil.CollectAndCount(LevelScore), 1)
	require.GreaterOrEqual(t, testutil.CollectAndCount(PicksTotal), 1)
}
