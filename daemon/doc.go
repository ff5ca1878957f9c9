// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package daemon assembles edgelet's transport pieces from a loaded
// config.Config. The binaries under cmd/ stay thin: they parse flags,
// load configuration, and hand it to the constructors here.
//
//   - [Listen] opens a listen URI (tcp, unix, npipe) with the
//     configured socket mode.
//   - [OutboundConnector] returns a direct TCP connector or a
//     proxy.Connector, depending on proxy.uri and proxy.from_environment.
//   - [ManagementHandler] serves the local management API, which
//     reports the caller's peer credentials and the build version.
package daemon
