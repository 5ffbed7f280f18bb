// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
)

type DynamoDBDatabase struct {
	svc          *dynamodb.DynamoDB
	db           *dynamo.DB
	coinsTable   dynamo.Table
	matchesTable dynamo.Table
	serversTable dynamo.Table
}

func NewDynamoDBDatabase(session *session.Session, stage string) (*DynamoDBDatabase, error) {
	ddb := &DynamoDBDatabase{svc: dynamodb.New(session)}
	ddb.db = dynamo.NewFromIface(ddb.svc)
	ddb.coinsTable = ddb.db.Table("tankarena-" + stage + "-coins")
	ddb.matchesTable = ddb.db.Table("tankarena-" + stage + "-matches")
	ddb.serversTable = ddb.db.Table("tankarena-" + stage + "-servers")
	return ddb, nil
}

func (ddb *DynamoDBDatabase) AddCoins(player string, delta int) (int, error) {
	var balance Balance
	err := ddb.coinsTable.Update("player", player).
		Add("coins", delta).
		Set("updated", time.Now().Unix()).
		Value(&balance)
	return balance.Coins, err
}

func (ddb *DynamoDBDatabase) ReadCoins(player string) (int, error) {
	var balance Balance
	err := ddb.coinsTable.Get("player", player).One(&balance)
	if errors.Is(err, dynamo.ErrNotFound) {
		return 0, ErrNotFound
	}
	return balance.Coins, err
}

// TopBalances scans the whole table; it is only called once per leaderboard
// update.
func (ddb *DynamoDBDatabase) TopBalances(n int) (balances []Balance, err error) {
	query := ddb.coinsTable.Scan().Iter()

	for {
		var balance Balance
		ok := query.Next(&balance)
		if !ok {
			err = query.Err()
			break
		}
		balances = append(balances, balance)
	}
	if err != nil {
		return nil, err
	}

	return Top(balances, n), nil
}

func (ddb *DynamoDBDatabase) RecordMatch(match Match) error {
	return ddb.matchesTable.Put(match).Run()
}

// ReadMatches relies on the matches table having player as hash key and ended
// as range key.
func (ddb *DynamoDBDatabase) ReadMatches(player string, n int) (matches []Match, err error) {
	err = ddb.matchesTable.Get("player", player).
		Order(dynamo.Descending).
		Limit(int64(n)).
		All(&matches)
	return
}

func (ddb *DynamoDBDatabase) UpdateServer(server Server) error {
	return ddb.serversTable.Put(server).Run()
}

func (ddb *DynamoDBDatabase) ReadServersByRegion(region string) (servers []Server, err error) {
	query := ddb.serversTable.Get("region", region).Iter()

	for {
		var server Server
		ok := query.Next(&server)
		if !ok {
			err = query.Err()
			return
		}
		servers = append(servers, server)
	}
}
