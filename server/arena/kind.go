// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"fmt"
)

// Kind is the type of an Obstacle.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindTree
	KindRock
	KindSwamp
	KindIglu
	KindOilrig
	kindCount
)

// KindData is the static data shared by every Obstacle of a Kind.
type KindData struct {
	Name      string
	MaxHealth float32 // 0 is indestructible
	Elliptic  bool    // Position is the center and RadiusX/RadiusY define bounds
	Slows     bool    // overlapping tanks move at SwampSpeedFactor
}

// SwampSpeedFactor is applied to the speed of a tank overlapping a slowing obstacle.
const SwampSpeedFactor = 0.5

var kinds = [kindCount]KindData{
	KindInvalid: {Name: "invalid"},
	KindTree:    {Name: "tree", MaxHealth: 100, Elliptic: true},
	KindRock:    {Name: "rock", MaxHealth: 200},
	KindSwamp:   {Name: "swamp", Elliptic: true, Slows: true},
	KindIglu:    {Name: "iglu", MaxHealth: 300},
	KindOilrig:  {Name: "oilrig", MaxHealth: 300},
}

func (kind Kind) Data() *KindData {
	if kind >= kindCount {
		return &kinds[KindInvalid]
	}
	return &kinds[kind]
}

func (kind Kind) String() string {
	return kind.Data().Name
}

func (kind Kind) Destructible() bool {
	return kind.Data().MaxHealth > 0
}

func (kind Kind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

func (kind *Kind) UnmarshalText(text []byte) error {
	for k := KindTree; k < kindCount; k++ {
		if kinds[k].Name == string(text) {
			*kind = k
			return nil
		}
	}
	return fmt.Errorf("invalid obstacle type %q", text)
}
