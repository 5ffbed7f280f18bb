// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"math/rand"
	"testing"

	"github.com/SoftbearStudios/tankarena/server/world"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampIdempotent(t *testing.T) {
	a := New(2000, 1500, MapForest)
	r := rand.New(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		pos := world.Vec2f{X: (r.Float32() - 0.25) * 4000, Y: (r.Float32() - 0.25) * 3000}
		once := a.Clamp(pos, 50, 40)
		assert.Equal(t, once, a.Clamp(once, 50, 40))
		assert.True(t, a.Bounds().Expand(0.01).Contains(world.AABBFrom(once.X, once.Y, 50, 40)))
	}
}

func TestObstacleDamage(t *testing.T) {
	rock := NewRect(KindRock, 0, 0, 40, 40)
	assert.True(t, rock.Solid())
	assert.False(t, rock.Damage(150))
	assert.True(t, rock.Damage(150))
	assert.False(t, rock.Damage(150), "destroyed only once")
	assert.Equal(t, float32(0), rock.Health)
	assert.False(t, rock.Alive())

	swamp := NewEllipse(KindSwamp, 100, 100, 40, 20)
	assert.False(t, swamp.Damage(1000))
	assert.True(t, swamp.Alive())
	assert.False(t, swamp.Solid())
	assert.True(t, swamp.Slows())
	assert.Equal(t, world.AABBFrom(60, 80, 80, 40), swamp.Bounds())
}

func TestRemoveDestroyed(t *testing.T) {
	a := New(1000, 1000, MapForest)
	tree := NewEllipse(KindTree, 100, 100, 20, 20)
	rock := NewRect(KindRock, 300, 300, 40, 40)
	swamp := NewEllipse(KindSwamp, 500, 500, 40, 20)
	a.Obstacles = []*Obstacle{tree, rock, swamp}

	assert.Empty(t, a.RemoveDestroyed())

	tree.Damage(100)
	removed := a.RemoveDestroyed()
	assert.Equal(t, []*Obstacle{tree}, removed)
	assert.Equal(t, []*Obstacle{rock, swamp}, a.Obstacles)

	assert.Equal(t, rock, a.SolidOverlap(world.AABBFrom(320, 320, 50, 40)))
	assert.Nil(t, a.SolidOverlap(world.AABBFrom(490, 490, 50, 40)))
	assert.True(t, a.SlowedAt(world.AABBFrom(490, 490, 50, 40)))
}

func TestObstacleJSON(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	buf, err := json.Marshal(NewRect(KindRock, 10, 20, 40, 30))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"rock","x":10,"y":20,"width":40,"height":30,"health":200,"maxHealth":200}`, string(buf))

	buf, err = json.Marshal(NewEllipse(KindSwamp, 10, 20, 30, 20))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"swamp","x":10,"y":20,"width":60,"height":40,"radiusX":30,"radiusY":20}`, string(buf))

	var o Obstacle
	require.NoError(t, json.Unmarshal([]byte(`{"type":"iglu","x":1,"y":2,"width":3,"height":4}`), &o))
	assert.Equal(t, KindIglu, o.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"castle"}`), &o))
}

func TestScatter(t *testing.T) {
	for _, mapID := range []MapID{MapForest, MapDesert, MapIce} {
		t.Run(string(mapID), func(t *testing.T) {
			a := New(2000, 1500, mapID)
			Scatter(a, 1.5, rand.New(rand.NewSource(42)))

			counts := make(map[Kind]int)
			for _, o := range a.Obstacles {
				counts[o.Kind]++
			}

			switch mapID {
			case MapForest:
				assert.Equal(t, 30, counts[KindTree])
				assert.Equal(t, 10, counts[KindSwamp])
				assert.Equal(t, 7, counts[KindRock])
			case MapDesert:
				assert.Zero(t, counts[KindTree])
				assert.Equal(t, 7, counts[KindRock])
				assert.GreaterOrEqual(t, counts[KindOilrig], 10)
				assert.LessOrEqual(t, counts[KindOilrig], 15)
			case MapIce:
				assert.Equal(t, map[Kind]int{KindIglu: 12}, counts)
			}
		})
	}
}

func TestLookupMode(t *testing.T) {
	m, err := LookupMode("6v6")
	require.NoError(t, err)
	w, h := m.Size()
	assert.Equal(t, float32(3200), w)
	assert.Equal(t, float32(2400), h)

	_, err = LookupMode("7v7")
	assert.ErrorIs(t, err, ErrUnknownMode)

	rm, err := LookupRelayMode("3v3")
	require.NoError(t, err)
	assert.Equal(t, 6, rm.MaxPlayers)
	assert.True(t, rm.TeamMode)
}
