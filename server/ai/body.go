// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package ai

import (
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/world"
)

// Body is the footprint the planner reasons about. Unlike tank.Tank, its
// position is the center.
type Body struct {
	Center world.Vec2f
	Width  float32
	Height float32
	Speed  float32
}

func BodyOf(t *tank.Tank) Body {
	return Body{
		Center: t.Center(),
		Width:  t.Width,
		Height: t.Height,
		Speed:  t.Speed,
	}
}

// At is b moved to center.
func (b Body) At(center world.Vec2f) Body {
	b.Center = center
	return b
}

func (b Body) Box() world.AABB {
	return b.BoxAt(b.Center)
}

// BoxAt is the footprint of b centered on p.
func (b Body) BoxAt(p world.Vec2f) world.AABB {
	return world.AABBCentered(p, b.Width, b.Height)
}

func (b Body) Size() float32 {
	return max(b.Width, b.Height)
}
