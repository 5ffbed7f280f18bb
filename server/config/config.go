// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config reads tankarena.cfg.json into viper.
package config

import (
	"errors"
	"fmt"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/spf13/viper"
)

const FileName = "tankarena.cfg.json"

// Load sets default values and reads FileName from configDir. A missing file
// leaves the defaults.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "")

	viper.SetDefault("server.port", 8192)
	viper.SetDefault("server.maxConnections", 4096)
	viper.SetDefault("server.origin", "")

	viper.SetDefault("sim.mode", arena.Modes[0].Name)
	viper.SetDefault("sim.map", string(arena.MapForest))
	viper.SetDefault("sim.networked", false)
	viper.SetDefault("sim.relay", "ws://localhost:8192/ws")
	viper.SetDefault("sim.gameMode", "1v1")
	viper.SetDefault("sim.tank", "purple")
	viper.SetDefault("sim.player", "")
	viper.SetDefault("sim.seed", 0)

	viper.SetDefault("db.driver", "offline")
	viper.SetDefault("db.path", "tankarena.db")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "tankarena")
	viper.SetDefault("db.staticDir", "")

	viper.SetDefault("nats.url", "")
	viper.SetDefault("nats.bucket", "tankarena-rooms")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "tankarena")
	viper.SetDefault("influx.bucket", "ticks")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// AIConfig is ai.DefaultConfig overridden by the keys under "ai".
func AIConfig() (ai.Config, error) {
	cfg := ai.DefaultConfig()
	if err := viper.UnmarshalKey("ai", &cfg); err != nil {
		return cfg, fmt.Errorf("error reading ai config: %w", err)
	}
	return cfg, nil
}

// Mode looks up sim.mode.
func Mode() (arena.Mode, error) {
	name := viper.GetString("sim.mode")
	for _, mode := range arena.Modes {
		if mode.Name == name {
			return mode, nil
		}
	}
	return arena.Mode{}, fmt.Errorf("unknown mode %q", name)
}

// Map returns sim.map, which must be a known map.
func Map() (arena.MapID, error) {
	mapID := arena.MapID(viper.GetString("sim.map"))
	if !mapID.Valid() {
		return "", fmt.Errorf("unknown map %q", mapID)
	}
	return mapID, nil
}
