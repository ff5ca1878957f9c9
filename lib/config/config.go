// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// EnvironmentVariable names the variable Load reads the config path from.
const EnvironmentVariable = "EDGELET_CONFIG"

// Config is the master configuration for edgelet.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Listen configures the local management and workload endpoints.
	Listen ListenConfig `yaml:"listen"`

	// Proxy configures the outbound HTTP proxy.
	Proxy ProxyConfig `yaml:"proxy"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Bridge configures the local port forward.
	Bridge BridgeConfig `yaml:"bridge"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Listen *ListenConfig   `yaml:"listen,omitempty"`
	Proxy  *ProxyOverrides `yaml:"proxy,omitempty"`
	Log    *LogConfig      `yaml:"log,omitempty"`
	Bridge *BridgeConfig   `yaml:"bridge,omitempty"`
}

// ProxyOverrides mirrors ProxyConfig for environment sections.
// FromEnvironment is a pointer so an override that omits it leaves the
// base value alone.
type ProxyOverrides struct {
	URI              string `yaml:"uri"`
	FromEnvironment  *bool  `yaml:"from_environment"`
	HandshakeTimeout string `yaml:"handshake_timeout"`
}

// ListenConfig configures the local endpoints. Each endpoint is a
// listen URI: tcp://host:port, unix:///path, or npipe://./pipe/name.
type ListenConfig struct {
	// Management is the endpoint for the management API.
	// Default: unix:///var/run/edgelet/mgmt.sock (npipe://./pipe/edgelet-mgmt on Windows)
	Management string `yaml:"management"`

	// Workload is the endpoint modules use.
	// Default: unix:///var/run/edgelet/workload.sock (npipe://./pipe/edgelet-workload on Windows)
	Workload string `yaml:"workload"`

	// SocketMode is the octal permission mode of Unix socket files.
	// Default: 0660
	SocketMode string `yaml:"socket_mode"`
}

// ProxyConfig configures the outbound HTTP proxy.
type ProxyConfig struct {
	// URI is the proxy, e.g. http://proxy.example:3128. When set, every
	// outbound connection is routed through it.
	URI string `yaml:"uri"`

	// FromEnvironment reads the proxy from HTTPS_PROXY / HTTP_PROXY
	// (honoring NO_PROXY) when URI is empty.
	// Default: true
	FromEnvironment bool `yaml:"from_environment"`

	// HandshakeTimeout bounds dialing the proxy, the CONNECT exchange,
	// and the TLS handshake.
	// Default: 30s
	HandshakeTimeout string `yaml:"handshake_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	// Default: info (development), info (production)
	Level string `yaml:"level"`

	// Format is auto, text, or json.
	// Default: auto (development), json (production, unless the base
	// config or the production section names a format other than auto)
	Format string `yaml:"format"`
}

// BridgeConfig configures the local port forward.
type BridgeConfig struct {
	// Listen is the listen URI modules connect to.
	Listen string `yaml:"listen"`

	// Destination is the URL every bridged connection is forwarded to,
	// e.g. https://iothub.example:443.
	Destination string `yaml:"destination"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	management := "unix:///var/run/edgelet/mgmt.sock"
	workload := "unix:///var/run/edgelet/workload.sock"
	if runtime.GOOS == "windows" {
		management = "npipe://./pipe/edgelet-mgmt"
		workload = "npipe://./pipe/edgelet-workload"
	}

	return &Config{
		Environment: Development,
		Listen: ListenConfig{
			Management: management,
			Workload:   workload,
			SocketMode: "0660",
		},
		Proxy: ProxyConfig{
			FromEnvironment:  true,
			HandshakeTimeout: "30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the EDGELET_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if EDGELET_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your edgelet.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are read as JSON with comments; anything else as
// YAML.
//
// The config file is the single source of truth. Environment variables do not
// override config values. The only expansion performed is ${HOME} and
// similar variables in endpoint fields for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is a subset of YAML once comments and trailing commas
		// are stripped.
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides != nil {
		c.applyOverrides(overrides)
	}

	// Production defaults: machine-readable logs unless a format was chosen.
	if c.Environment == Production && (c.Log.Format == "" || c.Log.Format == "auto") {
		c.Log.Format = "json"
	}
}

// applyOverrides merges the non-empty fields of overrides into c.
func (c *Config) applyOverrides(overrides *ConfigOverrides) {
	if overrides.Listen != nil {
		if overrides.Listen.Management != "" {
			c.Listen.Management = overrides.Listen.Management
		}
		if overrides.Listen.Workload != "" {
			c.Listen.Workload = overrides.Listen.Workload
		}
		if overrides.Listen.SocketMode != "" {
			c.Listen.SocketMode = overrides.Listen.SocketMode
		}
	}

	if overrides.Proxy != nil {
		if overrides.Proxy.URI != "" {
			c.Proxy.URI = overrides.Proxy.URI
		}
		if overrides.Proxy.FromEnvironment != nil {
			c.Proxy.FromEnvironment = *overrides.Proxy.FromEnvironment
		}
		if overrides.Proxy.HandshakeTimeout != "" {
			c.Proxy.HandshakeTimeout = overrides.Proxy.HandshakeTimeout
		}
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}

	if overrides.Bridge != nil {
		if overrides.Bridge.Listen != "" {
			c.Bridge.Listen = overrides.Bridge.Listen
		}
		if overrides.Bridge.Destination != "" {
			c.Bridge.Destination = overrides.Bridge.Destination
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// endpoint fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Listen.Management = expandVars(c.Listen.Management, vars)
	c.Listen.Workload = expandVars(c.Listen.Workload, vars)
	c.Proxy.URI = expandVars(c.Proxy.URI, vars)
	c.Bridge.Listen = expandVars(c.Bridge.Listen, vars)
	c.Bridge.Destination = expandVars(c.Bridge.Destination, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Listen.Management == "" {
		errs = append(errs, fmt.Errorf("listen.management is required"))
	} else if _, err := ParseListenURI(c.Listen.Management); err != nil {
		errs = append(errs, fmt.Errorf("listen.management: %w", err))
	}
	if c.Listen.Workload != "" {
		if _, err := ParseListenURI(c.Listen.Workload); err != nil {
			errs = append(errs, fmt.Errorf("listen.workload: %w", err))
		}
	}
	if _, err := c.SocketMode(); err != nil {
		errs = append(errs, fmt.Errorf("listen.socket_mode: %w", err))
	}

	if c.Proxy.URI != "" {
		if _, err := url.Parse(c.Proxy.URI); err != nil {
			errs = append(errs, fmt.Errorf("proxy.uri: %w", err))
		}
	}
	if _, err := c.HandshakeTimeout(); err != nil {
		errs = append(errs, fmt.Errorf("proxy.handshake_timeout: %w", err))
	}

	levels := []string{"debug", "info", "warn", "error"}
	if !contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", levels))
	}
	formats := []string{"auto", "text", "json"}
	if !contains(formats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", formats))
	}

	if (c.Bridge.Listen == "") != (c.Bridge.Destination == "") {
		errs = append(errs, fmt.Errorf("bridge.listen and bridge.destination must be set together"))
	}
	if c.Bridge.Listen != "" {
		if _, err := ParseListenURI(c.Bridge.Listen); err != nil {
			errs = append(errs, fmt.Errorf("bridge.listen: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ParseListenURI parses a listen URI and checks its scheme.
func ParseListenURI(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "tcp", "unix", "npipe":
		return u, nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %q (want tcp, unix, or npipe)", u.Scheme, raw)
	}
}

// SocketMode returns Listen.SocketMode as a file mode.
func (c *Config) SocketMode() (os.FileMode, error) {
	if c.Listen.SocketMode == "" {
		return 0o660, nil
	}
	mode, err := strconv.ParseUint(c.Listen.SocketMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q", c.Listen.SocketMode)
	}
	if mode&^0o777 != 0 {
		return 0, fmt.Errorf("mode %q has bits outside 0777", c.Listen.SocketMode)
	}
	return os.FileMode(mode), nil
}

// HandshakeTimeout returns Proxy.HandshakeTimeout as a duration. Empty
// means no timeout.
func (c *Config) HandshakeTimeout() (time.Duration, error) {
	if c.Proxy.HandshakeTimeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Proxy.HandshakeTimeout)
	if err != nil {
		return 0, err
	}
	if timeout < 0 {
		return 0, fmt.Errorf("negative timeout %s", timeout)
	}
	return timeout, nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
