// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/chewxy/math32"
)

// SpawnPosition returns the top left corner of a width by height box inside
// region that overlaps neither obstacles nor occupied. If no grid cell is free
// a random position is returned instead.
func SpawnPosition(a *Arena, region world.AABB, width, height float32, occupied []world.AABB, rng Rand) world.Vec2f {
	cell := max(width, height) * 2
	cellsX := int(region.Width / cell)
	cellsY := int(region.Height / cell)

	var free []world.Vec2f

	for i := 0; i < cellsX; i++ {
	cells:
		for j := 0; j < cellsY; j++ {
			pos := world.Vec2f{
				X: region.X + float32(i)*cell + (cell-width)/2,
				Y: region.Y + float32(j)*cell + (cell-height)/2,
			}
			rect := world.AABBFrom(pos.X, pos.Y, width, height)

			for _, o := range a.Obstacles {
				if o.Bounds().Overlaps(rect) {
					continue cells
				}
			}
			for _, r := range occupied {
				if r.Overlaps(rect) {
					continue cells
				}
			}
			free = append(free, pos)
		}
	}

	if len(free) > 0 {
		return free[rng.Intn(len(free))]
	}

	return world.Vec2f{
		X: region.X + rng.Float32()*max(region.Width-width, 0),
		Y: region.Y + rng.Float32()*max(region.Height-height, 0),
	}
}

// LeftHalf is where the player's side spawns.
func (a *Arena) LeftHalf() world.AABB {
	return world.AABBFrom(0, 0, a.Width/2, a.Height)
}

// RightHalf is where enemies spawn.
func (a *Arena) RightHalf() world.AABB {
	return world.AABBFrom(a.Width/2, 0, a.Width/2, a.Height)
}

// RelaySpawns returns the fixed spawn points of an n player networked game.
// Counts without a fixed table get a ring; n < 1 returns nil.
func RelaySpawns(n int, width, height float32) []world.Vec2f {
	center := world.Vec2f{X: width / 2, Y: height / 2}
	ring := func(count int, radius float32) []world.Vec2f {
		points := make([]world.Vec2f, count)
		for i := range points {
			angle := world.Angle(float32(i) * 2 * math32.Pi / float32(count))
			points[i] = center.AddScaled(angle.Vec2f(), radius)
		}
		return points
	}

	switch n {
	case 2:
		return []world.Vec2f{{X: 300, Y: height - 200}, {X: 300, Y: 200}}
	case 3:
		return ring(3, min(width, height)*0.3)
	case 4:
		const margin = 200
		return []world.Vec2f{
			{X: margin, Y: margin},
			{X: width - margin, Y: margin},
			{X: width - margin, Y: height - margin},
			{X: margin, Y: height - margin},
		}
	}
	if n < 1 {
		return nil
	}
	return ring(n, min(width, height)*0.35)
}
