// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package transport

import (
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/edgelet/lib/testutil"
)

func TestHTTPTransportUnix(t *testing.T) {
	path := filepath.Join(testutil.SocketDir(t), "mgmt.sock")

	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	})}
	go server.Serve(listener)
	defer server.Close()

	client := &http.Client{Transport: HTTPTransport(&UnixConnector{}, nil), Timeout: 5 * time.Second}
	response, err := client.Get(UnixURL(path, "/health").String())
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	if string(body) != "/health" {
		t.Errorf("body = %q, want /health", body)
	}
}
