// Copyright 2026 The Reactotron Authors
// SPDX-License-Identifier: Apache-2.0

// Reactotron-server is a standalone debugging bridge. Instrumented
// applications connect over WebSocket, introduce themselves, and
// stream events; the server prints them and relays custom command
// invocations back to clients.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ads-mirrors/react-reactotron-infinitered/lib/config"
	"github.com/ads-mirrors/react-reactotron-infinitered/lib/tlsconfig"
	"github.com/ads-mirrors/react-reactotron-infinitered/lib/version"
	"github.com/ads-mirrors/react-reactotron-infinitered/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var host string
	var port int
	var certPath string
	var keyPath string
	var pfxPath string
	var passphrase string
	var verbose bool

	flagSet := pflag.NewFlagSet("reactotron-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&host, "host", "", "interface to listen on (default: all interfaces)")
	flagSet.IntVarP(&port, "port", "p", config.DefaultPort, "TCP port to listen on")
	flagSet.StringVar(&certPath, "cert", "", "path to PEM certificate (enables TLS, requires --key)")
	flagSet.StringVar(&keyPath, "key", "", "path to PEM private key (enables TLS, requires --cert)")
	flagSet.StringVar(&pfxPath, "pfx", "", "path to PKCS#12 certificate bundle (enables TLS)")
	flagSet.StringVar(&passphrase, "passphrase", "", "passphrase for the PKCS#12 bundle")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every received frame")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("reactotron-server %s\n", version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	configuration := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		configuration = loaded
	}

	// Flags override the config file, but only when actually set.
	if flagSet.Changed("host") {
		configuration.Host = host
	}
	if flagSet.Changed("port") {
		configuration.Port = port
	}
	if flagSet.Changed("cert") {
		configuration.TLS.CertPath = certPath
	}
	if flagSet.Changed("key") {
		configuration.TLS.KeyPath = keyPath
	}
	if flagSet.Changed("pfx") {
		configuration.TLS.PFXPath = pfxPath
	}
	if flagSet.Changed("passphrase") {
		configuration.TLS.Passphrase = passphrase
	}
	if err := configuration.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	tlsConfig, err := tlsconfig.Resolve(configuration.TLS)
	if err != nil {
		return fmt.Errorf("loading TLS material: %w", err)
	}

	bridge := server.New(server.Config{
		Host:   configuration.Host,
		Port:   configuration.Port,
		TLS:    tlsConfig,
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bridge.Start(ctx); err != nil {
		return err
	}

	logger.Info("reactotron-server started",
		"version", version.Info(),
		"address", bridge.Addr(),
		"tls", tlsConfig != nil,
	)

	var runErr error
	for event := range bridge.Events() {
		switch event := event.(type) {
		case server.Listening:
			logger.Info("listening", "port", event.Port)
		case server.Connecting:
			logger.Info("client connecting", "connection_id", event.ID, "address", event.Address)
		case server.Connected:
			logger.Info("client connected",
				"connection_id", event.Connection.ID,
				"client_id", event.Connection.ClientID,
				"name", event.Connection.Name,
			)
		case server.Disconnected:
			logger.Info("client disconnected",
				"connection_id", event.Connection.ID,
				"client_id", event.Connection.ClientID,
			)
		case server.CommandReceived:
			logger.Debug("frame",
				"client_id", event.Connection.ClientID,
				"type", event.Frame.Type,
				"payload", string(event.Frame.Payload),
			)
		case server.CommandsChanged:
			logger.Info("custom commands updated", "connection_id", event.ConnectionID)
		case server.PortUnavailable:
			logger.Error("port unavailable", "port", event.Port)
		case server.Stopped:
			runErr = event.Err
		}
	}
	logger.Info("reactotron-server stopped")
	return runErr
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Reactotron debugging bridge.

Listens for WebSocket connections from instrumented applications and
prints the events they report. Clients that register custom commands
can be invoked through the server's API.

TLS can be enabled either with a PEM certificate and key pair
(--cert/--key) or with a PKCS#12 bundle (--pfx, optionally with
--passphrase). Clients then connect with wss:// URLs.

Usage:
  reactotron-server [flags]

Examples:
  # Listen on the default port 9090
  reactotron-server

  # Listen on a specific port with frame logging
  reactotron-server --port 9091 --verbose

  # Serve TLS with a PEM pair
  reactotron-server --cert server.crt --key server.key

Flags:
%s`, flagSet.FlagUsages())
}
