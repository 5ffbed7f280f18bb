// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLCG(t *testing.T) {
	l := NewLCG(DefaultSeed)
	assert.Equal(t, 96382.0/233280, l.Next())
	assert.Equal(t, 3239.0/233280, l.Next())

	for i := 0; i < 10000; i++ {
		v := l.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestGenerateLayout(t *testing.T) {
	tests := []struct {
		mapID  MapID
		counts map[Kind]int
	}{
		{MapForest, map[Kind]int{KindTree: 20, KindSwamp: 7, KindRock: 5}},
		{MapDesert, map[Kind]int{KindRock: 8, KindOilrig: 6}},
		{MapIce, map[Kind]int{KindIglu: 12}},
		{"9", map[Kind]int{}},
	}

	for _, test := range tests {
		t.Run(string(test.mapID), func(t *testing.T) {
			layout := GenerateLayout(test.mapID, RelayWidth, RelayHeight)
			counts := make(map[Kind]int)
			for _, o := range layout {
				counts[o.Kind]++
				assert.Equal(t, o.Kind.Data().MaxHealth, o.Health)
				if o.Kind == KindIglu {
					assert.GreaterOrEqual(t, o.X, float32(60))
					assert.Less(t, o.X, float32(RelayWidth-60))
					assert.GreaterOrEqual(t, o.Width, float32(90))
					assert.Less(t, o.Width, float32(120))
				}
			}
			assert.Equal(t, test.counts, counts)

			// Same layout every game.
			assert.Equal(t, layout, GenerateLayout(test.mapID, RelayWidth, RelayHeight))
		})
	}
}

func TestLayoutFirstTree(t *testing.T) {
	tree := GenerateLayout(MapForest, RelayWidth, RelayHeight)[0]
	l := NewLCG(DefaultSeed)
	x := float32(l.Next() * RelayWidth)
	y := float32(l.Next() * RelayHeight)
	r := float32(20 + l.Next()*20)

	assert.Equal(t, KindTree, tree.Kind)
	assert.Equal(t, x, tree.X)
	assert.Equal(t, y, tree.Y)
	assert.Equal(t, r, tree.RadiusX)
	assert.Equal(t, 2*r, tree.Width)
}

func TestRangeRoundsOnce(t *testing.T) {
	a, b := NewLCG(DefaultSeed), NewLCG(DefaultSeed)
	for i := 0; i < 1000; i++ {
		exact := 60 + b.Next()*(RelayWidth-120)
		got := a.Range(60, RelayWidth-120)
		assert.Equal(t, float32(exact), got)
		assert.InDelta(t, exact, float64(got), 1e-4)
	}
}
