// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Edgelet-mgmt is the edge device control-plane daemon. It serves the
// management API on the management and workload endpoints (TCP, Unix
// socket, or named pipe) and, when the config has a bridge section,
// forwards local connections to the configured destination through
// the outbound proxy.
package main
