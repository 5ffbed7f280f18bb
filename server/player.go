// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"strconv"
)

const (
	DefaultName      = "Unknown player"
	DefaultTank      = "purple"
	DefaultCharacter = "jaccelini"

	PlayerNameLengthMin = 1
	PlayerNameLengthMax = 16
	selectionLengthMax  = 32
)

// Team of a player in a team mode.
const (
	Team1 = "team1"
	Team2 = "team2"
)

// Player is a client's lobby state. Its fields are also its wire format.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Character string `json:"selectedCharacter,omitempty"`
	Tank      string `json:"selectedTank,omitempty"`
	Ready     bool   `json:"ready"`
	GameMode  string `json:"gameMode,omitempty"`
	Host      bool   `json:"isHost,omitempty"`
	Team      string `json:"team,omitempty"`

	// Room is nil until the player joins a game.
	Room *Room `json:"-"`
}

// Selected is true once a character and a tank are chosen.
func (p *Player) Selected() bool {
	return p.Character != "" && p.Tank != ""
}

func playerID(n uint32) string {
	return strconv.FormatUint(uint64(n), 16)
}
