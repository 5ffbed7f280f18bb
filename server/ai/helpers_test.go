// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// fixedRand always returns the same value.
type fixedRand float32

func (r fixedRand) Float32() float32 {
	return float32(r)
}

func testNav(width, height float32, obstacles ...*arena.Obstacle) *Navigator {
	a := arena.New(width, height, arena.MapForest)
	a.Obstacles = obstacles
	cfg := DefaultConfig()
	return &Navigator{Arena: a, Config: &cfg}
}

func testBody(x, y float32) Body {
	return Body{Center: world.Vec2f{X: x, Y: y}, Width: 50, Height: 40, Speed: 1}
}

func rock(x, y, width, height float32) *arena.Obstacle {
	return arena.NewRect(arena.KindRock, x, y, width, height)
}

// wall is a contiguous line of 60px rocks from (x0, y0) to (x1, y1), along one axis.
func wall(x0, y0, x1, y1 float32) []*arena.Obstacle {
	var rocks []*arena.Obstacle
	for x := x0; x <= x1; x += 60 {
		for y := y0; y <= y1; y += 60 {
			rocks = append(rocks, rock(x, y, 60, 60))
		}
	}
	return rocks
}
