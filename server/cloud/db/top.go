// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"container/heap"
	"sort"
)

// Balances sorts richest first, then by player. It is also a heap.
type Balances []Balance

func (b Balances) Len() int {
	return len(b)
}

func (b Balances) Less(i, j int) bool {
	return b[i].richer(&b[j])
}

func (b Balances) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

func (b *Balances) Push(x interface{}) {
	*b = append(*b, x.(Balance))
}

func (b *Balances) Pop() interface{} {
	old := *b
	n := len(old)
	x := old[n-1]
	*b = old[:n-1]
	return x
}

func (balance *Balance) richer(other *Balance) bool {
	if balance.Coins == other.Coins {
		return balance.Player < other.Player
	}
	return balance.Coins > other.Coins
}

// Top returns the count richest balances, richest first. balances is
// reordered.
func Top(balances []Balance, count int) []Balance {
	if count <= 20 {
		return topInsert(balances, count)
	} else {
		return topHeap(balances, count)
	}
}

// topHeap Uses heap to get top count balances.
// It has a time complexity of O(n + m * log(n)).
func topHeap(balances []Balance, count int) []Balance {
	h := Balances(balances)
	heap.Init(&h)

	top := make([]Balance, 0, min(count, len(balances)))
	for h.Len() > 0 && len(top) < cap(top) {
		top = append(top, heap.Pop(&h).(Balance))
	}

	return top
}

// topInsert Uses insertion to get top count balances.
// It has a time complexity of O(n * m).
func topInsert(balances []Balance, count int) []Balance {
	n := len(balances)
	if count > n {
		count = n
	}
	if count <= 0 {
		return nil
	}

	// Insert into subset
	subset := Balances(balances[:count])
	sort.Sort(subset)

	if count < n {
		end := len(subset) - 1

		for _, b := range balances[count:] {
			j := end
			if !b.richer(&subset[j]) {
				continue
			}
			subset[j] = b

			for ; j > 0 && subset[j].richer(&subset[j-1]); j-- {
				subset.Swap(j, j-1)
			}
		}
	}

	return append([]Balance(nil), subset...)
}
