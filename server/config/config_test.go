// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SoftbearStudios/tankarena/server/ai"
	"github.com/SoftbearStudios/tankarena/server/arena"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"server": { "port": 9000 },
		"sim": { "mode": "6v6", "map": "3" },
		"db": { "driver": "sqlite" }
	}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 9000, viper.GetInt("server.port"))
	assert.Equal(t, 4096, viper.GetInt("server.maxConnections"))
	assert.Equal(t, "sqlite", viper.GetString("db.driver"))

	mode, err := Mode()
	require.NoError(t, err)
	assert.Equal(t, arena.Modes[1], mode)

	mapID, err := Map()
	require.NoError(t, err)
	assert.Equal(t, arena.MapIce, mapID)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "offline", viper.GetString("db.driver"))
	assert.False(t, viper.GetBool("graylog.enabled"))
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{ not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestAIConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"ai": { "stuckAge": "3s", "optimalDistance": 200, "avoidSwamps": false, "maxQueue": 5 }
	}`)))

	cfg, err := AIConfig()
	require.NoError(t, err)

	expected := ai.DefaultConfig()
	expected.StuckAge = 3 * time.Second
	expected.OptimalDistance = 200
	expected.AvoidSwamps = false
	expected.MaxQueue = 5
	assert.Equal(t, expected, cfg)
}

func TestAIConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	cfg, err := AIConfig()
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultConfig(), cfg)
}

func TestUnknownModeAndMap(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("sim.mode", "100v100")
	viper.Set("sim.map", "9")
	_, err := Mode()
	assert.Error(t, err)
	_, err = Map()
	assert.Error(t, err)
}

func TestOpenCloud(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	c, err := OpenCloud()
	require.NoError(t, err)
	assert.Nil(t, c, "offline")

	viper.Set("db.driver", "sqlite")
	viper.Set("db.path", filepath.Join(t.TempDir(), "coins.db"))
	c, err = OpenCloud()
	require.NoError(t, err)
	require.NotNil(t, c)
	_, err = c.AddCoins("alice", 1)
	assert.NoError(t, err)

	viper.Set("db.driver", "mongo")
	_, err = OpenCloud()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=tankarena sslmode=disable", PostgresDSN())
}
