// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
)

// A nil *cloud.Cloud is valid to use with any methods (acts as a no-op)
// This just means server is in offline mode
type Cloud interface {
	fmt.Stringer
	UpdateServer(players, rooms int) error
	UpdateLeaderboard() error
}

type Offline struct{}

func (offline Offline) String() string {
	return "offline"
}

func (offline Offline) UpdateServer(players, rooms int) error {
	return nil
}

func (offline Offline) UpdateLeaderboard() error {
	return nil
}

// Status is served at the index.
type Status struct {
	Players int `json:"players"`
	Rooms   int `json:"rooms"`
	Playing int `json:"playing"`
}

func (h *Hub) status() Status {
	status := Status{Players: h.clients.Len, Rooms: len(h.rooms)}
	for _, room := range h.rooms {
		if room.State == RoomPlaying {
			status.Playing++
		}
	}
	return status
}

// Cloud refreshes the status and reports it to the cloud.
func (h *Hub) Cloud() {
	status := h.status()

	statusJSON, err := json.Marshal(status)
	if err == nil {
		h.statusJSON.Store(statusJSON)
	} else {
		h.logger.Error().Err(err).Msg("marshaling status")
	}

	if h.metrics != nil {
		h.metrics.SetRelay(status.Rooms, status.Players)
	}

	go func() {
		if err := h.cloud.UpdateLeaderboard(); err != nil {
			h.logger.Warn().Err(err).Msg("updating leaderboard")
		}
	}()

	if err := h.cloud.UpdateServer(status.Players, status.Rooms); err != nil {
		h.logger.Warn().Err(err).Stringer("cloud", h.cloud).Msg("updating server")
	}
}
