// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/SoftbearStudios/tankarena/server/cloud/db"
	"github.com/SoftbearStudios/tankarena/server/cloud/dns"
	"github.com/SoftbearStudios/tankarena/server/cloud/fs"
	jsoniter "github.com/json-iterator/go"
)

const (
	UpdatePeriod = 30 * time.Second

	// LeaderboardSize is how many balances leaderboard.json lists.
	LeaderboardSize = 10
	matchTTL        = 90 * 24 * time.Hour
)

var ErrNoSlot = errors.New("no empty server slot")

// A nil cloud is valid to use with any methods (acts as a no-op)
// This just means server is in offline mode
type Cloud struct {
	region     string
	serverSlot int
	ip         net.IP
	database   db.Database
	dns        dns.DNS       // optional
	fs         fs.Filesystem // optional
}

func (cloud *Cloud) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	if cloud == nil {
		builder.WriteString("offline")
	} else {
		builder.WriteString(cloud.region)
		builder.WriteByte(' ')
		builder.WriteString(strconv.Itoa(cloud.serverSlot))
		builder.WriteByte(' ')
		builder.WriteString(cloud.ip.String())
	}
	builder.WriteByte(']')
	return builder.String()
}

// New sets up an AWS cloud from EC2 user data. Returns nil cloud on error
func New() (*Cloud, error) {
	userData, err := loadUserData()
	if err != nil {
		return nil, err
	}

	ip, err := getPublicIP()
	if err != nil {
		return nil, err
	}
	session, err := getAWSSession(userData.Region)
	if err != nil {
		return nil, err
	}

	database, err := db.NewDynamoDBDatabase(session, userData.Stage)
	if err != nil {
		return nil, err
	}
	route53, err := dns.NewRoute53DNS(session, userData.Domain, userData.Route53ZoneID)
	if err != nil {
		return nil, err
	}
	s3, err := fs.NewS3Filesystem(session, userData.Stage)
	if err != nil {
		return nil, err
	}

	cloud := &Cloud{
		region:   userData.Region,
		ip:       ip,
		database: database,
		dns:      route53,
		fs:       s3,
	}
	if err := cloud.claimSlot(userData.ServerSlots); err != nil {
		return nil, err
	}
	return cloud, nil
}

// NewLocal wraps a database without DNS. Static files go to staticDir if it
// isn't empty.
func NewLocal(database db.Database, staticDir string) (*Cloud, error) {
	cloud := &Cloud{
		region:   "local",
		ip:       net.IPv4(127, 0, 0, 1),
		database: database,
	}
	if staticDir != "" {
		cloud.fs = fs.LocalFilesystem{Dir: staticDir}
	}
	if err := cloud.claimSlot(1); err != nil {
		return nil, err
	}
	return cloud, nil
}

func (cloud *Cloud) claimSlot(slots int) error {
	servers, err := cloud.database.ReadServersByRegion(cloud.region)
	if err != nil {
		return fmt.Errorf("reading servers: %w", err)
	}

	cloud.serverSlot = -1

	// Reclaim old slot if applicable
	for _, server := range servers {
		if cloud.ip.Equal(server.IP) {
			cloud.serverSlot = server.Slot
			break
		}
	}

	// Otherwise allocate a slot
	if cloud.serverSlot == -1 {
	scan:
		for slot := 0; slot < slots; slot++ {
			for _, server := range servers {
				if server.Slot == slot {
					// Slot is taken
					continue scan
				}
			}
			cloud.serverSlot = slot
			break
		}
	}

	if cloud.serverSlot == -1 {
		return ErrNoSlot
	}

	if cloud.dns != nil {
		if err := cloud.dns.UpdateRoute(cloud.region, cloud.serverSlot, cloud.ip); err != nil {
			return fmt.Errorf("updating route: %w", err)
		}
	}

	return cloud.UpdateServer(0, 0)
}

// RelayStatus is what a relay publishes about itself for clients picking one.
type RelayStatus struct {
	Region  string `json:"region"`
	Slot    int    `json:"slot"`
	Players int    `json:"players"`
	Rooms   int    `json:"rooms"`
}

// Call at least every 30s
func (cloud *Cloud) UpdateServer(players, rooms int) error {
	if cloud == nil {
		return nil
	}
	err := cloud.database.UpdateServer(db.Server{
		Region:  cloud.region,
		Slot:    cloud.serverSlot,
		IP:      cloud.ip,
		Players: players,
		Rooms:   rooms,
		TTL:     time.Now().Unix() + int64(UpdatePeriod/time.Second) + 5,
	})
	if err != nil || cloud.fs == nil {
		return err
	}

	statusJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(RelayStatus{
		Region:  cloud.region,
		Slot:    cloud.serverSlot,
		Players: players,
		Rooms:   rooms,
	})
	if err != nil {
		return err
	}
	return cloud.fs.Upload(fs.File{
		Name:   fs.RelayStatusName(cloud.region, cloud.serverSlot),
		MaxAge: UpdatePeriod,
		Data:   statusJSON,
	})
}

func (cloud *Cloud) AddCoins(player string, delta int) (int, error) {
	if cloud == nil {
		return 0, nil
	}
	return cloud.database.AddCoins(player, delta)
}

// Coins is zero for players that never earned any.
func (cloud *Cloud) Coins(player string) (int, error) {
	if cloud == nil {
		return 0, nil
	}
	coins, err := cloud.database.ReadCoins(player)
	if errors.Is(err, db.ErrNotFound) {
		return 0, nil
	}
	return coins, err
}

func (cloud *Cloud) TopCoins(n int) ([]db.Balance, error) {
	if cloud == nil {
		return nil, nil
	}
	return cloud.database.TopBalances(n)
}

func (cloud *Cloud) RecordMatch(match db.Match) error {
	if cloud == nil {
		return nil
	}
	if match.TTL == 0 {
		match.TTL = time.Unix(match.Ended, 0).Add(matchTTL).Unix()
	}
	return cloud.database.RecordMatch(match)
}

func (cloud *Cloud) Matches(player string, n int) ([]db.Match, error) {
	if cloud == nil {
		return nil, nil
	}
	return cloud.database.ReadMatches(player, n)
}

// LeaderboardScore is an entry of leaderboard.json.
type LeaderboardScore struct {
	Name  string `json:"name"`
	Coins int    `json:"coins"`
}

// UpdateLeaderboard uploads the richest players as leaderboard.json.
func (cloud *Cloud) UpdateLeaderboard() (err error) {
	if cloud == nil || cloud.fs == nil {
		return nil
	}

	balances, err := cloud.database.TopBalances(LeaderboardSize)
	if err != nil {
		return
	}

	leaderboard := make([]LeaderboardScore, len(balances))
	for i, balance := range balances {
		leaderboard[i] = LeaderboardScore{Name: balance.Player, Coins: balance.Coins}
	}

	leaderboardJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(leaderboard)
	if err != nil {
		return
	}
	return cloud.fs.Upload(fs.File{Name: fs.LeaderboardName, MaxAge: 10 * time.Second, Data: leaderboardJSON})
}
