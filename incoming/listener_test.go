// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package incoming

import (
	"net/url"
	"testing"
)

func TestListenURLTCP(t *testing.T) {
	listener, err := ListenURL(&url.URL{Scheme: "tcp", Host: "127.0.0.1:0"}, UnixOptions{})
	if err != nil {
		t.Fatalf("ListenURL: %v", err)
	}
	defer listener.Close()
	if !listener.Addr().IsTCP() {
		t.Errorf("Addr() = %v, want a TCP address", listener.Addr())
	}
}

func TestListenURLErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown scheme", "http://127.0.0.1:80"},
		{"tcp without host", "tcp:///nothing"},
		{"unix without path", "unix://"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			u, err := url.Parse(test.raw)
			if err != nil {
				t.Fatalf("url.Parse: %v", err)
			}
			if listener, err := ListenURL(u, UnixOptions{}); err == nil {
				listener.Close()
				t.Errorf("ListenURL(%q) succeeded", test.raw)
			}
		})
	}
}

func TestPipePath(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"npipe://./pipe/edgelet", `\\.\pipe\edgelet`},
		{"npipe:///pipe/edgelet", `\\.\pipe\edgelet`},
		{"npipe://server/pipe/iotedge/mgmt", `\\server\pipe\iotedge\mgmt`},
	}
	for _, test := range tests {
		u, err := url.Parse(test.raw)
		if err != nil {
			t.Fatalf("url.Parse(%q): %v", test.raw, err)
		}
		if got := PipePath(u); got != test.want {
			t.Errorf("PipePath(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
