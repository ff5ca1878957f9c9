// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bureau-foundation/edgelet/incoming"
	"github.com/bureau-foundation/edgelet/lib/config"
	"github.com/bureau-foundation/edgelet/lib/version"
	"github.com/bureau-foundation/edgelet/proxy"
	"github.com/bureau-foundation/edgelet/transport"
)

// dialTimeout bounds the TCP dial of a direct (unproxied) connection.
const dialTimeout = 30 * time.Second

// Listen opens the listen URI raw, applying the socket mode from cfg to
// Unix sockets.
func Listen(cfg *config.Config, raw string) (incoming.Listener, error) {
	u, err := config.ParseListenURI(raw)
	if err != nil {
		return nil, err
	}
	mode, err := cfg.SocketMode()
	if err != nil {
		return nil, err
	}
	listener, err := incoming.ListenURL(u, incoming.UnixOptions{Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", raw, err)
	}
	return listener, nil
}

// OutboundConnector builds the connector for outbound traffic. An
// explicit proxy.uri routes every destination through that proxy;
// otherwise, when proxy.from_environment is set, HTTPS_PROXY /
// HTTP_PROXY / NO_PROXY decide. With neither, connections are direct.
func OutboundConnector(cfg *config.Config, logger *slog.Logger) (transport.Connector, error) {
	direct := &transport.TCPConnector{Timeout: dialTimeout}

	var selected proxy.Proxy
	switch {
	case cfg.Proxy.URI != "":
		parsed, err := proxy.ParseProxy(proxy.InterceptAll(), cfg.Proxy.URI)
		if err != nil {
			return nil, err
		}
		selected = parsed
	case cfg.Proxy.FromEnvironment:
		parsed, ok, err := proxy.ProxyFromEnvironment()
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Info("no proxy configured, connecting directly")
			return direct, nil
		}
		selected = parsed
	default:
		logger.Info("proxy disabled, connecting directly")
		return direct, nil
	}

	timeout, err := cfg.HandshakeTimeout()
	if err != nil {
		return nil, err
	}
	connector, err := proxy.NewConnector(direct, selected, proxy.ConnectorOptions{
		Logger:           logger,
		HandshakeTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("routing outbound connections through proxy",
		"proxy", selected.URI().Redacted(),
		"handshake_timeout", timeout,
	)
	return connector, nil
}

// PeerInfo is the /v1/peer response body.
type PeerInfo struct {
	Kind    string `json:"kind"`
	PID     string `json:"pid"`
	Address string `json:"address"`
}

// ManagementHandler returns the management API handler. It must be
// served through incoming.Incoming.Serve so each request carries its
// Stream.
func ManagementHandler(logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /v1/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{
			"version": version.Version,
			"info":    version.Info(),
		})
	})

	mux.HandleFunc("GET /v1/peer", func(w http.ResponseWriter, r *http.Request) {
		stream, ok := incoming.StreamFromContext(r.Context())
		if !ok {
			writeJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": "no stream for request"})
			return
		}
		pid, err := stream.PeerPID()
		if err != nil {
			logger.Warn("resolving peer credentials failed", "error", err)
			writeJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, logger, http.StatusOK, PeerInfo{
			Kind:    stream.Kind().String(),
			PID:     pid.String(),
			Address: incoming.AddrOf(stream.RemoteAddr()).String(),
		})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug("writing response failed", "error", err)
	}
}
