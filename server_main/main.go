// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoftbearStudios/tankarena/server"
	"github.com/SoftbearStudios/tankarena/server/config"
	"github.com/SoftbearStudios/tankarena/server/logging"
	"github.com/SoftbearStudios/tankarena/server/telemetry"
	"github.com/spf13/viper"
	"golang.org/x/net/netutil"
)

func main() {
	var (
		configDir string
		port      int
	)

	flag.StringVar(&configDir, "config", ".", "directory containing "+config.FileName)
	flag.IntVar(&port, "port", 0, "http service port, overrides server.port")
	flag.Parse()

	if err := config.Load(configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if port != 0 {
		viper.Set("server.port", port)
	}

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:       viper.GetString("logLevel"),
		Dir:         viper.GetString("logsDir"),
		Name:        "relay",
		GraylogAddr: graylogAddr(),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "setting up logs:", err)
		os.Exit(1)
	}
	defer func() {
		_ = closeLogs()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c server.Cloud
	c, err = config.OpenCloud()
	if err != nil {
		// Cloud is not required for server to function, just log an error
		logger.Error().Err(err).Msg("cloud error")
		c = server.Offline{}
	}

	metrics, err := telemetry.NewMetrics(telemetry.Meter())
	if err != nil {
		logger.Fatal().Err(err).Msg("creating metrics")
	}

	var store server.RoomStore
	if url := viper.GetString("nats.url"); url != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		kv, closeKV, err := server.ConnectKV(connectCtx, url, viper.GetString("nats.bucket"), logger)
		cancel()
		if err != nil {
			// Rooms are only published, so carry on without
			logger.Error().Err(err).Str("url", url).Msg("room store error")
		} else {
			defer closeKV()
			store = kv
		}
	}

	maxConnections := viper.GetInt("server.maxConnections")
	hub := server.NewHub(server.HubOptions{
		Cloud:      c,
		Store:      store,
		Metrics:    metrics,
		Logger:     logger,
		MaxClients: maxConnections,
		Origin:     viper.GetString("server.origin"),
	})

	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	addr := fmt.Sprint(":", viper.GetInt("server.port"))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("listen")
	}
	l = netutil.LimitListener(l, maxConnections)

	mux := http.NewServeMux()
	mux.Handle("/", hub.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Stringer("cloud", c).Int("maxConnections", maxConnections).Msg("relay server started")

	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serve")
	}
	<-hubDone
}

func graylogAddr() string {
	if viper.GetBool("graylog.enabled") {
		return viper.GetString("graylog.address")
	}
	return ""
}
