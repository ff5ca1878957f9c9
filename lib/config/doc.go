// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for edgelet binaries.
//
// Configuration is loaded from a single file specified by either the
// EDGELET_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no automatic file search.
// Files are YAML; files named *.json or *.jsonc are read as JSON with
// comments and trailing commas allowed.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production defaults to JSON logs.
//
// Variable expansion is performed on endpoint fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Listen, Proxy, Log, Bridge
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [ParseListenURI] -- validates tcp://, unix://, npipe:// endpoints
//
// This package depends on no other edgelet packages.
package config
