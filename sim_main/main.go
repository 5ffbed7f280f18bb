// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SoftbearStudios/tankarena/server/config"
	"github.com/SoftbearStudios/tankarena/server/logging"
	"github.com/SoftbearStudios/tankarena/server/sim"
	"github.com/SoftbearStudios/tankarena/server/tank"
	"github.com/SoftbearStudios/tankarena/server/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func main() {
	var configDir string
	flag.StringVar(&configDir, "config", ".", "directory containing "+config.FileName)
	flag.Parse()

	if err := config.Load(configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level: viper.GetString("logLevel"),
		Dir:   viper.GetString("logsDir"),
		Name:  "sim",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "setting up logs:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, logger)
	stop()
	_ = closeLogs()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger zerolog.Logger) error {
	opts, err := options(logger)
	if err != nil {
		return err
	}

	observers := sim.Observers{}
	metrics, err := telemetry.NewMetrics(telemetry.Meter())
	if err != nil {
		return err
	}
	observers = append(observers, metrics)

	if viper.GetBool("influx.enabled") {
		influx, closeInflux, err := telemetry.ConnectInflux(
			viper.GetString("influx.url"),
			viper.GetString("influx.token"),
			viper.GetString("influx.org"),
			viper.GetString("influx.bucket"),
			map[string]string{"mode": opts.Mode.Name, "map": string(opts.Map)},
			logger,
		)
		if err != nil {
			// Only measurements are lost
			logger.Error().Err(err).Msg("influx error")
		} else {
			defer closeInflux()
			observers = append(observers, influx)
		}
	}

	var relay *relayClient
	if opts.Networked {
		relay, err = dialRelay(ctx, viper.GetString("sim.relay"), logger)
		if err != nil {
			return err
		}
		defer relay.Close()

		if err := relay.lobby(ctx, opts, viper.GetString("sim.gameMode")); err != nil {
			return err
		}
	}

	c, err := sim.New(*opts)
	if err != nil {
		return err
	}

	loop := sim.NewLoop(c, logger)
	loop.Observer = observers
	if relay != nil {
		relay.attach(loop)
		go relay.readPump(ctx)
	}
	return loop.Run(ctx)
}

func options(logger zerolog.Logger) (*sim.Options, error) {
	mode, err := config.Mode()
	if err != nil {
		return nil, err
	}
	mapID, err := config.Map()
	if err != nil {
		return nil, err
	}
	aiConfig, err := config.AIConfig()
	if err != nil {
		return nil, err
	}
	playerType, err := tank.ParseType(viper.GetString("sim.tank"))
	if err != nil {
		return nil, err
	}
	c, err := config.OpenCloud()
	if err != nil {
		return nil, fmt.Errorf("opening cloud: %w", err)
	}

	return &sim.Options{
		Mode:       mode,
		Map:        mapID,
		PlayerName: viper.GetString("sim.player"),
		PlayerType: playerType,
		Networked:  viper.GetBool("sim.networked"),
		Seed:       viper.GetInt64("sim.seed"),
		AI:         aiConfig,
		Cloud:      c,
		Logger:     logger,
	}, nil
}
