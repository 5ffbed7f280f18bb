// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"time"

	"github.com/SoftbearStudios/tankarena/server/world"
)

const (
	// HistoryWindow is how long samples are kept.
	HistoryWindow = 3 * time.Second
	// historyCapacity holds HistoryWindow at world.TicksPerSecond with slack.
	historyCapacity = 256
)

// Sample is a timestamped position.
type Sample struct {
	Time     time.Duration
	Position world.Vec2f
}

// History is a ring buffer of the most recent positions of a tank. Samples
// older than HistoryWindow are evicted on Push, and the oldest sample is
// evicted when full.
type History struct {
	samples [historyCapacity]Sample
	start   int
	len     int
}

// Push records pos at now. now must not decrease between calls.
func (h *History) Push(now time.Duration, pos world.Vec2f) {
	for h.len > 0 && now-h.samples[h.start].Time >= HistoryWindow {
		h.pop()
	}
	if h.len == historyCapacity {
		h.pop()
	}
	h.samples[(h.start+h.len)%historyCapacity] = Sample{Time: now, Position: pos}
	h.len++
}

func (h *History) pop() {
	h.start = (h.start + 1) % historyCapacity
	h.len--
}

func (h *History) Len() int {
	return h.len
}

// At returns the i'th oldest sample.
func (h *History) At(i int) Sample {
	return h.samples[(h.start+i)%historyCapacity]
}

// OldestAtLeast returns the oldest sample at least age old, if any.
func (h *History) OldestAtLeast(now, age time.Duration) (Sample, bool) {
	if h.len == 0 {
		return Sample{}, false
	}
	oldest := h.At(0)
	if now-oldest.Time < age {
		return Sample{}, false
	}
	return oldest, true
}

func (h *History) Reset() {
	h.start = 0
	h.len = 0
}
