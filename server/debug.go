// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"runtime"
	"sort"

	"github.com/rs/zerolog"
)

// Debug logs memory use and every room.
func (h *Hub) Debug() {
	if h.logger.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	status := h.status()
	h.logger.Debug().
		Stringer("cloud", h.cloud).
		Uint64("heapInUseMB", stats.HeapInuse/1e6).
		Uint64("nextGCMB", stats.NextGC/1e6).
		Int("clients", status.Players).
		Int("rooms", status.Rooms).
		Int("playing", status.Playing).
		Msg("debug")

	rooms := append([]*Room{}, h.rooms...)
	sort.Slice(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		if a.Mode.ID != b.Mode.ID {
			return a.Mode.ID < b.Mode.ID
		}
		return a.ID < b.ID
	})

	for _, room := range rooms {
		ready := 0
		names := zerolog.Arr()
		for _, client := range room.Clients {
			player := &client.Data().Player
			if player.Ready {
				ready++
			}
			names.Str(player.Name)
		}

		h.logger.Debug().
			Str("room", room.ID).
			Str("mode", room.Mode.ID).
			Str("state", string(room.State)).
			Str("host", room.hostID()).
			Int("ready", ready).
			Array("players", names).
			Msg("room")
	}
}
