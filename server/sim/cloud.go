// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"fmt"

	"github.com/SoftbearStudios/tankarena/server/cloud/db"
)

// Cloud persists coins and match results.
type Cloud interface {
	fmt.Stringer
	AddCoins(player string, delta int) (balance int, err error)
	Coins(player string) (balance int, err error)
	RecordMatch(match db.Match) error
}

// Offline keeps nothing.
type Offline struct{}

func (offline Offline) String() string {
	return "offline"
}

func (offline Offline) AddCoins(player string, delta int) (int, error) {
	return 0, nil
}

func (offline Offline) Coins(player string) (int, error) {
	return 0, nil
}

func (offline Offline) RecordMatch(match db.Match) error {
	return nil
}
