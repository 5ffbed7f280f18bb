// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"errors"
	"fmt"
)

// BaseWidth and BaseHeight are the viewport a Mode's multiplier scales.
const (
	BaseWidth  = 800
	BaseHeight = 600

	// RelayWidth and RelayHeight are the fixed arena of networked games.
	RelayWidth  = 2000
	RelayHeight = 1500

	RoundsToWin = 3
)

var ErrUnknownMode = errors.New("unknown game mode")

// Mode is a single player game mode.
type Mode struct {
	Name       string  `json:"id"`
	Allies     int     `json:"allies"`
	Enemies    int     `json:"enemies"`
	Multiplier float32 `json:"multiplier"`
	Density    float32 `json:"density"`
}

var Modes = []Mode{
	{Name: "1v1", Allies: 0, Enemies: 1, Multiplier: 2.5, Density: 1.5},
	{Name: "6v6", Allies: 5, Enemies: 6, Multiplier: 4, Density: 2},
	{Name: "12v12", Allies: 11, Enemies: 12, Multiplier: 5, Density: 2.5},
	{Name: "20v20", Allies: 19, Enemies: 20, Multiplier: 6, Density: 3},
}

func LookupMode(name string) (Mode, error) {
	for _, m := range Modes {
		if m.Name == name {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Size is the arena size of m.
func (m Mode) Size() (width, height float32) {
	return BaseWidth * m.Multiplier, BaseHeight * m.Multiplier
}

// RelayMode is a networked game mode.
type RelayMode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MaxPlayers  int    `json:"maxPlayers"`
	TeamMode    bool   `json:"teamMode"`
	Description string `json:"description"`
}

var RelayModes = []RelayMode{
	{ID: "1v1", Name: "1 vs 1", MaxPlayers: 2, Description: "Classic one on one duel"},
	{ID: "2v2", Name: "2 vs 2 (Teams)", MaxPlayers: 4, TeamMode: true, Description: "Team battle, two against two"},
	{ID: "3v3", Name: "3 vs 3 (Teams)", MaxPlayers: 6, TeamMode: true, Description: "Team battle, three against three"},
	{ID: "free-for-all-3", Name: "Free for all (3 players)", MaxPlayers: 3, Description: "Everyone against everyone, 3 players"},
	{ID: "free-for-all-4", Name: "Free for all (4 players)", MaxPlayers: 4, Description: "Everyone against everyone, 4 players"},
	{ID: "free-for-all-6", Name: "Free for all (6 players)", MaxPlayers: 6, Description: "Everyone against everyone, 6 players"},
}

func LookupRelayMode(id string) (RelayMode, error) {
	for _, m := range RelayModes {
		if m.ID == id {
			return m, nil
		}
	}
	return RelayMode{}, fmt.Errorf("%w: %q", ErrUnknownMode, id)
}
