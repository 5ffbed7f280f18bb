// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package tank

import (
	"fmt"
	"time"
)

// Type is a tank model.
type Type uint8

const (
	TypePurple Type = iota
	TypeOrange
	TypeBrown
	typeCount
)

// HealthMultiplier scales a Spec's BaseHealth into MaxHealth.
const HealthMultiplier = 5

// Spec is the static data of a Type.
type Spec struct {
	Name       string
	BaseHealth float32
	Armor      float32 // percent
	Speed      float32
	Damage     float32
	Cooldown   time.Duration
}

var specs = [typeCount]Spec{
	TypePurple: {Name: "purple", BaseHealth: 120, Armor: 60, Speed: 1, Damage: 70, Cooldown: 400 * time.Millisecond},
	TypeOrange: {Name: "orange", BaseHealth: 90, Armor: 90, Speed: 1.5, Damage: 30, Cooldown: 150 * time.Millisecond},
	TypeBrown:  {Name: "brown", BaseHealth: 250, Armor: 40, Speed: 0.7, Damage: 150, Cooldown: time.Second},
}

// Types lists every Type.
func Types() []Type {
	return []Type{TypePurple, TypeOrange, TypeBrown}
}

func (typ Type) Spec() *Spec {
	if typ >= typeCount {
		return &specs[TypePurple]
	}
	return &specs[typ]
}

// MaxHealth is BaseHealth scaled by HealthMultiplier.
func (spec *Spec) MaxHealth() float32 {
	return spec.BaseHealth * HealthMultiplier
}

// ArmorFraction is the share of incoming damage that is absorbed.
func (spec *Spec) ArmorFraction() float32 {
	return min(spec.Armor/100, 0.8)
}

func (typ Type) String() string {
	return typ.Spec().Name
}

func (typ Type) MarshalText() ([]byte, error) {
	return []byte(typ.String()), nil
}

func (typ *Type) UnmarshalText(text []byte) error {
	t, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*typ = t
	return nil
}

func ParseType(name string) (Type, error) {
	for t := TypePurple; t < typeCount; t++ {
		if specs[t].Name == name {
			return t, nil
		}
	}
	return TypePurple, fmt.Errorf("invalid tank type %q", name)
}
