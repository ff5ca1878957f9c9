// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package daemon

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bureau-foundation/edgelet/incoming"
	"github.com/bureau-foundation/edgelet/lib/config"
	"github.com/bureau-foundation/edgelet/lib/testutil"
	"github.com/bureau-foundation/edgelet/proxy"
	"github.com/bureau-foundation/edgelet/transport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearProxyEnvironment removes every variable httpproxy reads.
func clearProxyEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "NO_PROXY", "no_proxy", "REQUEST_METHOD"} {
		t.Setenv(name, "")
	}
}

func TestOutboundConnector(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		fromEnv   bool
		env       map[string]string
		wantProxy string
	}{
		{name: "disabled", fromEnv: false},
		{name: "environment unset", fromEnv: true},
		{name: "explicit uri", uri: "http://proxy.example:3128", wantProxy: "proxy.example:3128"},
		{name: "explicit uri without scheme", uri: "proxy.example:3128", wantProxy: "proxy.example:3128"},
		{
			name:      "environment",
			fromEnv:   true,
			env:       map[string]string{"HTTPS_PROXY": "http://env-proxy:8080"},
			wantProxy: "env-proxy:8080",
		},
		{
			name:      "explicit uri wins over environment",
			uri:       "http://proxy.example:3128",
			fromEnv:   true,
			env:       map[string]string{"HTTPS_PROXY": "http://env-proxy:8080"},
			wantProxy: "proxy.example:3128",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearProxyEnvironment(t)
			for name, value := range test.env {
				t.Setenv(name, value)
			}
			cfg := config.Default()
			cfg.Proxy.URI = test.uri
			cfg.Proxy.FromEnvironment = test.fromEnv

			connector, err := OutboundConnector(cfg, quietLogger())
			if err != nil {
				t.Fatalf("OutboundConnector: %v", err)
			}

			if test.wantProxy == "" {
				if _, ok := connector.(*transport.TCPConnector); !ok {
					t.Fatalf("connector = %T, want *transport.TCPConnector", connector)
				}
				return
			}
			proxied, ok := connector.(*proxy.Connector)
			if !ok {
				t.Fatalf("connector = %T, want *proxy.Connector", connector)
			}
			if host := proxied.Proxy().URI().Host; host != test.wantProxy {
				t.Errorf("proxy host = %q, want %q", host, test.wantProxy)
			}
		})
	}
}

func TestOutboundConnectorRejectsBadProxy(t *testing.T) {
	clearProxyEnvironment(t)
	cfg := config.Default()
	cfg.Proxy.URI = "socks5://proxy.example:1080"

	if _, err := OutboundConnector(cfg, quietLogger()); err == nil {
		t.Fatal("expected error for socks5 proxy")
	}
}

func TestOutboundConnectorRejectsBadTimeout(t *testing.T) {
	clearProxyEnvironment(t)
	cfg := config.Default()
	cfg.Proxy.URI = "http://proxy.example:3128"
	cfg.Proxy.HandshakeTimeout = "eventually"

	if _, err := OutboundConnector(cfg, quietLogger()); err == nil {
		t.Fatal("expected error for unparseable handshake timeout")
	}
}

func TestListenRejectsUnknownScheme(t *testing.T) {
	if _, err := Listen(config.Default(), "http://127.0.0.1:0"); err == nil {
		t.Fatal("expected error for http listen URI")
	}
}

// startManagement serves ManagementHandler on a loopback TCP listener
// and returns its address.
func startManagement(t *testing.T) string {
	t.Helper()
	listener, err := Listen(config.Default(), "tcp://127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	in := incoming.New(listener, incoming.Options{Logger: quietLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- in.Serve(ctx, ManagementHandler(quietLogger())) }()
	t.Cleanup(func() {
		cancel()
		if err := testutil.RequireReceive(t, served, 5*time.Second, "waiting for Serve to return"); err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return in.Address()
}

func getJSON(t *testing.T, url string, body any) int {
	t.Helper()
	client := &http.Client{
		Transport: transport.HTTPTransport(&transport.TCPConnector{}, nil),
		Timeout:   5 * time.Second,
	}
	response, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(body); err != nil {
		t.Fatalf("decoding %s: %v", url, err)
	}
	return response.StatusCode
}

func TestManagementHandler(t *testing.T) {
	address := startManagement(t)

	var health map[string]string
	if status := getJSON(t, "http://"+address+"/health", &health); status != http.StatusOK {
		t.Errorf("/health status = %d", status)
	}
	if health["status"] != "ok" {
		t.Errorf("/health = %v", health)
	}

	var peer PeerInfo
	if status := getJSON(t, "http://"+address+"/v1/peer", &peer); status != http.StatusOK {
		t.Errorf("/v1/peer status = %d", status)
	}
	if peer.Kind != "tcp" || peer.PID != "any" {
		t.Errorf("/v1/peer = %+v, want kind tcp, pid any", peer)
	}
	if peer.Address == "" {
		t.Error("/v1/peer address is empty")
	}

	var build map[string]string
	getJSON(t, "http://"+address+"/v1/version", &build)
	if build["version"] == "" {
		t.Errorf("/v1/version = %v", build)
	}
}

func TestManagementHandlerWithoutStream(t *testing.T) {
	handler := ManagementHandler(quietLogger())
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/peer", nil))
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", recorder.Code)
	}
}
