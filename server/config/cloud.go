// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/SoftbearStudios/tankarena/server/cloud"
	"github.com/SoftbearStudios/tankarena/server/cloud/db"
	"github.com/spf13/viper"
)

// PostgresDSN builds a connection string from db.*.
func PostgresDSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
}

// OpenCloud connects to the store named by db.driver. The offline driver
// returns a nil cloud, which is valid to use.
func OpenCloud() (*cloud.Cloud, error) {
	var database db.Database
	var err error

	switch driver := viper.GetString("db.driver"); driver {
	case "offline", "":
		return nil, nil
	case "dynamodb":
		return cloud.New()
	case "sqlite":
		database, err = db.NewSQLiteDatabase(viper.GetString("db.path"))
	case "postgres":
		database, err = db.NewPostgresDatabase(PostgresDSN())
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return cloud.NewLocal(database, viper.GetString("db.staticDir"))
}
