// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"github.com/SoftbearStudios/tankarena/server/world"
)

// MapID selects obstacle layout and physics.
type MapID string

const (
	MapForest MapID = "1"
	MapDesert MapID = "2"
	MapIce    MapID = "3"

	DefaultMap = MapForest
)

func (id MapID) Valid() bool {
	return id == MapForest || id == MapDesert || id == MapIce
}

// Arena is the rectangular play field and its obstacles.
type Arena struct {
	Width     float32
	Height    float32
	Map       MapID
	Obstacles []*Obstacle
}

func New(width, height float32, mapID MapID) *Arena {
	return &Arena{
		Width:  width,
		Height: height,
		Map:    mapID,
	}
}

func (a *Arena) Bounds() world.AABB {
	return world.AABBFrom(0, 0, a.Width, a.Height)
}

// Ice maps use velocity based movement.
func (a *Arena) Ice() bool {
	return a.Map == MapIce
}

// Clamp returns the top left position of a width by height box kept inside the arena.
func (a *Arena) Clamp(pos world.Vec2f, width, height float32) world.Vec2f {
	pos.X = world.Clamp(pos.X, 0, max(a.Width-width, 0))
	pos.Y = world.Clamp(pos.Y, 0, max(a.Height-height, 0))
	return pos
}

// Outside p is more than margin away from the arena.
func (a *Arena) Outside(p world.Vec2f, margin float32) bool {
	return p.X <= -margin || p.X >= a.Width+margin || p.Y <= -margin || p.Y >= a.Height+margin
}

// SolidOverlap returns the first solid obstacle overlapping rect, or nil.
func (a *Arena) SolidOverlap(rect world.AABB) *Obstacle {
	for _, o := range a.Obstacles {
		if o.Solid() && o.Bounds().Overlaps(rect) {
			return o
		}
	}
	return nil
}

// SlowedAt rect overlaps a swamp.
func (a *Arena) SlowedAt(rect world.AABB) bool {
	for _, o := range a.Obstacles {
		if o.Slows() && o.Bounds().Overlaps(rect) {
			return true
		}
	}
	return false
}

// RemoveDestroyed drops obstacles that are no longer Alive and returns them.
func (a *Arena) RemoveDestroyed() (removed []*Obstacle) {
	kept := a.Obstacles[:0]
	for _, o := range a.Obstacles {
		if o.Alive() {
			kept = append(kept, o)
		} else {
			removed = append(removed, o)
		}
	}
	for i := len(kept); i < len(a.Obstacles); i++ {
		a.Obstacles[i] = nil
	}
	a.Obstacles = kept
	return
}
