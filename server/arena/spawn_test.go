// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"math/rand"
	"testing"

	"github.com/SoftbearStudios/tankarena/server/world"
	"github.com/stretchr/testify/assert"
)

func TestSpawnPosition(t *testing.T) {
	a := New(2000, 1500, MapForest)
	rng := rand.New(rand.NewSource(7))
	Scatter(a, 2, rng)

	var occupied []world.AABB
	for i := 0; i < 12; i++ {
		region := a.LeftHalf()
		if i%2 == 1 {
			region = a.RightHalf()
		}
		pos := SpawnPosition(a, region, 50, 40, occupied, rng)
		rect := world.AABBFrom(pos.X, pos.Y, 50, 40)

		assert.True(t, region.Contains(rect), "inside region")
		assert.Nil(t, a.SolidOverlap(rect))
		for _, o := range occupied {
			assert.False(t, o.Overlaps(rect))
		}
		occupied = append(occupied, rect)
	}
}

func TestSpawnPositionFallback(t *testing.T) {
	a := New(100, 100, MapDesert)
	a.Obstacles = []*Obstacle{NewRect(KindOilrig, 0, 0, 100, 100)}
	pos := SpawnPosition(a, a.Bounds(), 50, 40, nil, rand.New(rand.NewSource(1)))
	assert.True(t, a.Bounds().Expand(0.01).Contains(world.AABBFrom(pos.X, pos.Y, 50, 40)))
}

func TestRelaySpawns(t *testing.T) {
	assert.Equal(t, []world.Vec2f{{X: 300, Y: 1300}, {X: 300, Y: 200}}, RelaySpawns(2, 2000, 1500))
	assert.Len(t, RelaySpawns(3, 2000, 1500), 3)
	assert.Equal(t, world.Vec2f{X: 1800, Y: 1300}, RelaySpawns(4, 2000, 1500)[2])
	assert.Len(t, RelaySpawns(6, 2000, 1500), 6)
	assert.Len(t, RelaySpawns(5, 2000, 1500), 5)
	assert.Nil(t, RelaySpawns(0, 2000, 1500))
}
