// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/edgelet/bridge"
	"github.com/bureau-foundation/edgelet/daemon"
	"github.com/bureau-foundation/edgelet/lib/config"
	"github.com/bureau-foundation/edgelet/lib/logging"
	"github.com/bureau-foundation/edgelet/lib/peercred"
	"github.com/bureau-foundation/edgelet/lib/process"
	"github.com/bureau-foundation/edgelet/lib/version"
	"github.com/bureau-foundation/edgelet/transport"
)

func main() {
	process.Main(func() error { return run(os.Args[1:], os.Stdout) })
}

// flags holds the command line. Empty values leave the config untouched.
type flags struct {
	configPath  string
	listen      string
	destination string
	proxy       string
	noProxy     bool
	allowPIDs   []int32
	verbose     bool
	showVersion bool
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var parsed flags
	flagSet := pflag.NewFlagSet("edgelet-bridge", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVarP(&parsed.configPath, "config", "c", "", "path to config file (optional)")
	flagSet.StringVarP(&parsed.listen, "listen", "l", "", "listen URI: tcp://host:port, unix:///path, or npipe://./pipe/name")
	flagSet.StringVarP(&parsed.destination, "destination", "d", "", "destination URL, e.g. https://iothub.example:443")
	flagSet.StringVar(&parsed.proxy, "proxy", "", "HTTP proxy URI (default: from config or HTTPS_PROXY)")
	flagSet.BoolVar(&parsed.noProxy, "no-proxy", false, "connect directly, ignoring configured and environment proxies")
	flagSet.Int32SliceVar(&parsed.allowPIDs, "allow-pid", nil, "only forward connections from these peer process ids (repeatable; requires a unix listener)")
	flagSet.BoolVarP(&parsed.verbose, "verbose", "v", false, "enable per-connection debug logging")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(args); err != nil {
		return flags{}, err
	}
	if flagSet.NArg() > 0 {
		return flags{}, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	return parsed, nil
}

// resolveConfig loads the config file, if any, and applies flags on top.
func resolveConfig(parsed flags) (*config.Config, error) {
	cfg := config.Default()
	if parsed.configPath != "" {
		loaded, err := config.LoadFile(parsed.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if parsed.listen != "" {
		cfg.Bridge.Listen = parsed.listen
	}
	if parsed.destination != "" {
		cfg.Bridge.Destination = parsed.destination
	}
	if parsed.proxy != "" {
		cfg.Proxy.URI = parsed.proxy
	}
	if parsed.noProxy {
		cfg.Proxy.URI = ""
		cfg.Proxy.FromEnvironment = false
	}
	if parsed.verbose {
		cfg.Log.Level = "debug"
	}

	if cfg.Bridge.Listen == "" || cfg.Bridge.Destination == "" {
		return nil, fmt.Errorf("--listen and --destination are required (or a config file with a bridge section)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func allowedPeers(pids []int32) []peercred.PID {
	var peers []peercred.PID
	for _, pid := range pids {
		peers = append(peers, peercred.Value(pid))
	}
	return peers
}

func run(args []string, output io.Writer) error {
	parsed, err := parseFlags(args, output)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if parsed.showVersion {
		fmt.Fprintf(output, "edgelet-bridge %s\n", version.Info())
		return nil
	}

	cfg, err := resolveConfig(parsed)
	if err != nil {
		return err
	}

	logger, err := logging.NewStderr(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger.Info("starting edgelet-bridge", version.LogAttrs())

	destination, err := transport.ParseDestination(cfg.Bridge.Destination)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	connector, err := daemon.OutboundConnector(cfg, logger)
	if err != nil {
		return err
	}
	listener, err := daemon.Listen(cfg, cfg.Bridge.Listen)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forwarder := &bridge.Bridge{
		Listener:     listener,
		Connector:    connector,
		Destination:  destination,
		AllowedPeers: allowedPeers(parsed.allowPIDs),
		Logger:       logger,
	}
	if err := forwarder.Start(ctx); err != nil {
		listener.Close()
		return err
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")
	forwarder.Stop()
	logger.Info("shutdown complete")
	return nil
}
