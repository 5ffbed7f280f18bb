// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"time"
)

const (
	// TickPeriod is the period all per tick tuning constants were balanced at.
	TickPeriod     = time.Second / 60
	TicksPerSecond = int(time.Second / TickPeriod)

	// MaxFrames caps how much a single step may integrate after a stall.
	MaxFrames = 4
)

// Frames converts an elapsed duration into how many nominal ticks it is worth.
// Per tick rates (turn speed, friction, etc.) are multiplied or raised by it.
func Frames(dt time.Duration) float32 {
	return clamp(float32(float64(dt)/float64(TickPeriod)), 0, MaxFrames)
}

// Seconds returns dt in seconds as a float32.
func Seconds(dt time.Duration) float32 {
	return float32(dt.Seconds())
}
