// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// Filesystem publishes static files that clients fetch without going
// through a relay.
type Filesystem interface {
	Upload(file File) error
}

// File is a static object. Name is slash separated; Key makes it relative
// to the static root.
type File struct {
	Name   string
	MaxAge time.Duration
	Data   []byte
}

const (
	// LeaderboardName lists the richest players.
	LeaderboardName = "leaderboard.json"
	relaysDir       = "relays"
)

// RelayStatusName is where the relay in slot of region publishes its room
// counts.
func RelayStatusName(region string, slot int) string {
	return path.Join(relaysDir, region, strconv.Itoa(slot)+".json")
}

// Key is Name cleaned so that it can't leave the static root.
func (file File) Key() string {
	return strings.TrimPrefix(path.Clean("/"+file.Name), "/")
}

func (file File) CacheControl() string {
	return fmt.Sprintf("no-transform, public, max-age=%d", int(file.MaxAge/time.Second))
}

var contentTypes = map[string]string{
	".json": "application/json",
}

// ContentType is empty for extensions the store can guess itself.
func (file File) ContentType() string {
	return contentTypes[path.Ext(file.Name)]
}
