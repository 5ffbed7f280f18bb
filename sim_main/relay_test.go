// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SoftbearStudios/tankarena/server"
	"github.com/SoftbearStudios/tankarena/server/sim"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// duelOverRelay starts a 1v1 between two relay clients on an in-process hub.
func duelOverRelay(t *testing.T) (a, b *relayClient, optsA, optsB *sim.Options) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	hub := server.NewHub(server.HubOptions{Cloud: server.Offline{}, Logger: zerolog.Nop()})
	go hub.Run(ctx)
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	join := func(name string) (*relayClient, *sim.Options, <-chan error) {
		r, err := dialRelay(ctx, url, zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(r.Close)
		opts := &sim.Options{PlayerName: name, PlayerType: tank.TypeOrange, Human: true, Networked: true, Logger: zerolog.Nop()}
		done := make(chan error, 1)
		go func() {
			done <- r.lobby(ctx, opts, "1v1")
		}()
		return r, opts, done
	}

	a, optsA, doneA := join("alpha")
	b, optsB, doneB := join("bravo")
	require.NoError(t, <-doneA)
	require.NoError(t, <-doneB)
	return
}

// next reads from r until a message of typ arrives.
func next(t *testing.T, r *relayClient, typ string) envelope {
	t.Helper()
	require.NoError(t, r.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		e, err := r.read()
		require.NoError(t, err)
		if e.Type == typ {
			return e
		}
	}
}

func TestRelayHealth(t *testing.T) {
	a, b, optsA, optsB := duelOverRelay(t)
	require.Len(t, optsA.Peers, 1)
	require.Len(t, optsB.Peers, 1)
	assert.Equal(t, b.playerID, optsA.Peers[0].ID)

	cA, err := sim.New(*optsA)
	require.NoError(t, err)
	cB, err := sim.New(*optsB)
	require.NoError(t, err)

	loopA := sim.NewLoop(cA, zerolog.Nop())
	a.attach(loopA)
	b.do = func(f func(*sim.Context)) { f(cB) }

	puppet := cB.Puppet(a.playerID)
	require.NotNil(t, puppet)
	half := puppet.MaxHealth / 2

	loopA.Hurt(sim.HealthUpdate{Damage: 3, Health: half})
	damage := next(t, b, "player-damage")
	var relay server.DamageRelay
	require.NoError(t, json.Unmarshal(damage.Data, &relay))
	assert.Equal(t, server.DamageRelay{PlayerID: a.playerID, Damage: 3, NewHealth: half, AttackerID: a.playerID, Timestamp: relay.Timestamp}, relay)

	b.handle(damage)
	assert.Equal(t, half, puppet.Health)

	// Unknown peers and our own echoes change nothing.
	stray := func(typ string, data interface{}) envelope {
		buf, err := json.Marshal(data)
		require.NoError(t, err)
		return envelope{Type: typ, Data: buf}
	}
	b.handle(stray("player-damage", server.DamageRelay{PlayerID: "nobody", NewHealth: 1, AttackerID: "nobody"}))
	b.handle(stray("player-death", server.DeathRelay{PlayerID: "nobody", KillerID: "nobody"}))
	b.handle(stray("player-damage", server.DamageRelay{PlayerID: a.playerID, NewHealth: 1, AttackerID: b.playerID}))
	for _, tk := range cB.Tanks {
		if tk == puppet {
			assert.Equal(t, half, tk.Health)
		} else {
			assert.Equal(t, tk.MaxHealth, tk.Health)
		}
	}

	loopA.Die()
	death := next(t, b, "player-death")
	b.handle(death)
	assert.False(t, puppet.Alive())
}
