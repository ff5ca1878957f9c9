// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"testing"
)

func TestUnixURL(t *testing.T) {
	u := UnixURL("/var/run/iotedge/mgmt.sock", "/modules")
	if u.Scheme != "unix" || u.Path != "/modules" {
		t.Fatalf("UnixURL = %s", u)
	}
	destination, err := DestinationFromURL(u)
	if err != nil {
		t.Fatalf("DestinationFromURL: %v", err)
	}
	path, err := SocketPath(destination)
	if err != nil {
		t.Fatalf("SocketPath: %v", err)
	}
	if path != "/var/run/iotedge/mgmt.sock" {
		t.Errorf("SocketPath = %q", path)
	}
}

func TestUnixConnectorInvalidDestination(t *testing.T) {
	tests := []struct {
		name        string
		destination Destination
	}{
		{"wrong scheme", Destination{Scheme: "http", Host: "2f746d70", Port: 0}},
		{"not hex", Destination{Scheme: "unix", Host: "not-hex", Port: 0}},
		{"empty path", Destination{Scheme: "unix", Host: "", Port: 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := (&UnixConnector{}).Connect(context.Background(), test.destination)
			var invalid *InvalidDestinationError
			if !errors.As(err, &invalid) {
				t.Fatalf("Connect error = %v, want *InvalidDestinationError", err)
			}
			if invalid.Destination != test.destination {
				t.Errorf("error destination = %v, want %v", invalid.Destination, test.destination)
			}
			if !IsInvalidDestination(err) {
				t.Error("IsInvalidDestination = false")
			}
		})
	}
}
