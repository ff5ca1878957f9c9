// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/edgelet/bridge"
	"github.com/bureau-foundation/edgelet/daemon"
	"github.com/bureau-foundation/edgelet/incoming"
	"github.com/bureau-foundation/edgelet/lib/config"
	"github.com/bureau-foundation/edgelet/lib/logging"
	"github.com/bureau-foundation/edgelet/lib/process"
	"github.com/bureau-foundation/edgelet/lib/version"
	"github.com/bureau-foundation/edgelet/transport"
)

func main() {
	process.Main(run)
}

func run() error {
	var configPath string
	var showVersion bool

	flagSet := pflag.NewFlagSet("edgelet-mgmt", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to config file (default: $EDGELET_CONFIG)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		fmt.Printf("edgelet-mgmt %s\n", version.Full())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewStderr(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Info("starting edgelet-mgmt", version.LogAttrs(), "environment", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := daemon.ManagementHandler(logger)
	endpoints := []struct{ name, uri string }{
		{"management", cfg.Listen.Management},
		{"workload", cfg.Listen.Workload},
	}

	var servers []*incoming.Incoming
	defer func() {
		for _, server := range servers {
			server.Close()
		}
	}()
	for _, endpoint := range endpoints {
		if endpoint.uri == "" {
			continue
		}
		listener, err := daemon.Listen(cfg, endpoint.uri)
		if err != nil {
			return fmt.Errorf("%s endpoint: %w", endpoint.name, err)
		}
		server := incoming.New(listener, incoming.Options{Logger: logger.With("endpoint", endpoint.name)})
		servers = append(servers, server)
		logger.Info("listening", "endpoint", endpoint.name, "address", server.Address())
	}

	if cfg.Bridge.Listen != "" {
		forwarder, err := startBridge(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer forwarder.Stop()
	}

	errs := make(chan error, len(servers))
	var wait sync.WaitGroup
	for _, server := range servers {
		wait.Go(func() {
			if err := server.Serve(ctx, handler); err != nil {
				errs <- fmt.Errorf("serving %s: %w", server.Address(), err)
				stop()
			}
		})
	}
	wait.Wait()
	close(errs)

	if err := errors.Join(collect(errs)...); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func startBridge(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bridge.Bridge, error) {
	destination, err := transport.ParseDestination(cfg.Bridge.Destination)
	if err != nil {
		return nil, fmt.Errorf("bridge destination: %w", err)
	}
	connector, err := daemon.OutboundConnector(cfg, logger)
	if err != nil {
		return nil, err
	}
	listener, err := daemon.Listen(cfg, cfg.Bridge.Listen)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}

	forwarder := &bridge.Bridge{
		Listener:    listener,
		Connector:   connector,
		Destination: destination,
		Logger:      logger.With("component", "bridge"),
	}
	if err := forwarder.Start(ctx); err != nil {
		listener.Close()
		return nil, err
	}
	return forwarder, nil
}

func collect(errs <-chan error) []error {
	var collected []error
	for err := range errs {
		collected = append(collected, err)
	}
	return collected
}
