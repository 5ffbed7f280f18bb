// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLDatabase stores everything in a SQL database via gorm. Servers have no
// TTL index, so ReadServersByRegion filters expired rows itself.
type SQLDatabase struct {
	db *gorm.DB
}

func NewPostgresDatabase(dsn string) (*SQLDatabase, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return NewSQLDatabase(db)
}

// NewSQLiteDatabase opens the database at path, or a private in-memory one if
// path is empty.
func NewSQLiteDatabase(path string) (*SQLDatabase, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// Every connection to :memory: is a different database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLDatabase(db)
}

// NewSQLDatabase migrates the schema of an open database.
func NewSQLDatabase(db *gorm.DB) (*SQLDatabase, error) {
	if err := db.AutoMigrate(&Balance{}, &Match{}, &Server{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &SQLDatabase{db: db}, nil
}

func (sdb *SQLDatabase) AddCoins(player string, delta int) (balance int, err error) {
	err = sdb.db.Transaction(func(tx *gorm.DB) error {
		var b Balance
		err := tx.Where("player = ?", player).First(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b = Balance{Player: player, Coins: delta, Updated: time.Now().Unix()}
			balance = b.Coins
			return tx.Create(&b).Error
		} else if err != nil {
			return err
		}

		b.Coins += delta
		b.Updated = time.Now().Unix()
		balance = b.Coins
		return tx.Model(&b).Updates(map[string]any{"coins": b.Coins, "updated": b.Updated}).Error
	})
	return
}

func (sdb *SQLDatabase) ReadCoins(player string) (int, error) {
	var b Balance
	err := sdb.db.Where("player = ?", player).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	return b.Coins, err
}

func (sdb *SQLDatabase) TopBalances(n int) (balances []Balance, err error) {
	err = sdb.db.Order("coins DESC").Order("player").Limit(n).Find(&balances).Error
	return
}

func (sdb *SQLDatabase) RecordMatch(match Match) error {
	return sdb.db.Create(&match).Error
}

// ReadMatches returns the n most recent matches of player.
func (sdb *SQLDatabase) ReadMatches(player string, n int) (matches []Match, err error) {
	err = sdb.db.Where("player = ?", player).Order("ended DESC").Limit(n).Find(&matches).Error
	return
}

func (sdb *SQLDatabase) UpdateServer(server Server) error {
	return sdb.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&server).Error
}

func (sdb *SQLDatabase) ReadServersByRegion(region string) (servers []Server, err error) {
	err = sdb.db.Where("region = ? AND (ttl = 0 OR ttl > ?)", region, time.Now().Unix()).Find(&servers).Error
	return
}
