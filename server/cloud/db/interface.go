// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

type Database interface {
	// AddCoins adds delta to player's balance, creating it if needed, and
	// returns the new balance.
	AddCoins(player string, delta int) (balance int, err error)
	// ReadCoins returns ErrNotFound for unknown players.
	ReadCoins(player string) (balance int, err error)
	// TopBalances returns up to n balances, richest first.
	TopBalances(n int) (balances []Balance, err error)
	RecordMatch(match Match) error
	ReadMatches(player string, n int) (matches []Match, err error)
	UpdateServer(server Server) error
	ReadServersByRegion(region string) (servers []Server, err error)
}
