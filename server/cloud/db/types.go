// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"errors"
	"net"
)

var ErrNotFound = errors.New("not found")

// Balance is a player's coin count.
type Balance struct {
	Player  string `dynamo:"player" gorm:"primaryKey"`
	Coins   int    `dynamo:"coins"`
	Updated int64  `dynamo:"updated"`
}

// Match is the result of a finished match.
type Match struct {
	ID       string `dynamo:"id" gorm:"primaryKey"`
	Player   string `dynamo:"player" gorm:"index"`
	Mode     string `dynamo:"mode"`
	Map      string `dynamo:"map"`
	Winner   string `dynamo:"winner"`
	Friendly int    `dynamo:"friendly"` // rounds won by the player's side
	Hostile  int    `dynamo:"hostile"`
	Rounds   int    `dynamo:"rounds"`
	Coins    int    `dynamo:"coins"` // earned during the match
	Ended    int64  `dynamo:"ended" gorm:"index"`
	TTL      int64  `dynamo:"ttl,omitempty" gorm:"-"`
}

// Server is a running relay server.
type Server struct {
	Region  string `dynamo:"region" gorm:"primaryKey"`
	Slot    int    `dynamo:"slot" gorm:"primaryKey;autoIncrement:false"`
	IP      net.IP `dynamo:"ip"`
	Players int    `dynamo:"players"`
	Rooms   int    `dynamo:"rooms"`
	TTL     int64  `dynamo:"ttl,omitempty"`
}
