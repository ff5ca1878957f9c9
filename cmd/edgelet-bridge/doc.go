// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Edgelet-bridge forwards local connections to a remote destination
// through an HTTP proxy, so that modules on an edge device that cannot
// speak to a proxy themselves can reach the cloud. It can run
// standalone or from the bridge section of an edgelet config file;
// flags override the file.
package main
