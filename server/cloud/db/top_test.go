// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createBalances(n int) []Balance {
	random := rand.New(rand.NewSource(0))

	balances := make([]Balance, n)
	for i := range balances {
		coins := int(random.NormFloat64()*300 + 100)
		if coins < 0 {
			coins = 0
		}
		balances[i] = Balance{Player: "player" + strconv.Itoa(i), Coins: coins}
	}
	return balances
}

func TestTop(t *testing.T) {
	for _, f := range []struct {
		name string
		top  func([]Balance, int) []Balance
	}{
		{"insert", topInsert},
		{"heap", topHeap},
	} {
		t.Run(f.name, func(t *testing.T) {
			balances := []Balance{
				{Player: "c", Coins: 5},
				{Player: "a", Coins: 30},
				{Player: "d", Coins: 30},
				{Player: "b", Coins: 1},
			}
			assert.Equal(t, []Balance{{Player: "a", Coins: 30}, {Player: "d", Coins: 30}, {Player: "c", Coins: 5}},
				f.top(balances, 3))
			assert.Len(t, f.top([]Balance{{Player: "a"}}, 10), 1)
			assert.Empty(t, f.top(nil, 10))
		})
	}
}

func TestTopMatchesSort(t *testing.T) {
	balances := createBalances(500)
	sorted := append([]Balance(nil), balances...)
	sort.Sort(Balances(sorted))

	assert.Equal(t, sorted[:10], Top(append([]Balance(nil), balances...), 10))
	assert.Equal(t, sorted[:50], Top(append([]Balance(nil), balances...), 50))
}

func benchTopFunc(b *testing.B, f func([]Balance, int) []Balance, n, count int) {
	set := createBalances(n)

	b.Run(strconv.Itoa(n), func(b *testing.B) {
		b.StopTimer()
		b.ReportAllocs()

		s := make([]Balance, len(set))

		for i := 0; i < b.N; i++ {
			copy(s, set)
			b.StartTimer()

			top := f(s, count)

			b.StopTimer()
			if !sort.IsSorted(Balances(top)) {
				b.Errorf("not sorted: %v", top)
			}
		}

		b.StartTimer()
	})
}

func BenchmarkTop10Heap(b *testing.B) {
	for i := 64; i <= 4096; i *= 2 {
		benchTopFunc(b, topHeap, i, 10)
	}
}

func BenchmarkTop10Insert(b *testing.B) {
	for i := 64; i <= 4096; i *= 2 {
		benchTopFunc(b, topInsert, i, 10)
	}
}
