// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package proxy

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/bureau-foundation/edgelet/transport"
)

// Intercept decides which destinations go through the proxy.
type Intercept interface {
	Intercepts(destination transport.Destination) bool
}

// InterceptFunc adapts a function to Intercept.
type InterceptFunc func(destination transport.Destination) bool

func (f InterceptFunc) Intercepts(destination transport.Destination) bool {
	return f(destination)
}

type interceptAll struct{}

func (interceptAll) Intercepts(transport.Destination) bool { return true }

// InterceptAll routes every destination through the proxy.
func InterceptAll() Intercept { return interceptAll{} }

type environmentIntercept struct {
	proxyFor func(*url.URL) (*url.URL, error)
}

// InterceptEnvironment routes a destination through the proxy when
// config would pick a proxy for it: NO_PROXY exclusions apply, and
// loopback destinations are never intercepted.
func InterceptEnvironment(config *httpproxy.Config) Intercept {
	return environmentIntercept{proxyFor: config.ProxyFunc()}
}

func (e environmentIntercept) Intercepts(destination transport.Destination) bool {
	proxyURL, err := e.proxyFor(&url.URL{Scheme: destination.Scheme, Host: destination.Address()})
	return err == nil && proxyURL != nil
}

// Proxy is an HTTP proxy and the policy selecting the traffic it
// carries. A Proxy is immutable and safe to share.
type Proxy struct {
	uri       *url.URL
	intercept Intercept
}

// NewProxy validates uri and pairs it with intercept. The URI must name
// a host; its scheme must be http or empty (defaulting to http).
func NewProxy(intercept Intercept, uri *url.URL) (Proxy, error) {
	if intercept == nil {
		return Proxy{}, fmt.Errorf("proxy: intercept policy is required")
	}
	if uri == nil || uri.Hostname() == "" {
		return Proxy{}, fmt.Errorf("proxy: proxy URI %q has no host", uri)
	}
	if uri.Scheme != "" && uri.Scheme != "http" {
		return Proxy{}, fmt.Errorf("proxy: unsupported proxy scheme %q in %q", uri.Scheme, uri)
	}
	copied := *uri
	return Proxy{uri: &copied, intercept: intercept}, nil
}

// ParseProxy parses raw, which may omit the scheme ("proxy:3128").
func ParseProxy(intercept Intercept, raw string) (Proxy, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	uri, err := url.Parse(raw)
	if err != nil {
		return Proxy{}, fmt.Errorf("proxy: parsing proxy URI: %w", err)
	}
	return NewProxy(intercept, uri)
}

// ProxyFromEnvironment builds a Proxy from HTTPS_PROXY (or HTTP_PROXY)
// with NO_PROXY applied through InterceptEnvironment. ok is false when
// neither variable is set.
//
// The intercept policy follows the variables per scheme: with only
// HTTP_PROXY set, http destinations go through the proxy and https
// destinations are dialed directly.
func ProxyFromEnvironment() (proxy Proxy, ok bool, err error) {
	config := httpproxy.FromEnvironment()
	raw := config.HTTPSProxy
	if raw == "" {
		raw = config.HTTPProxy
	}
	if raw == "" {
		return Proxy{}, false, nil
	}
	proxy, err = ParseProxy(InterceptEnvironment(config), raw)
	if err != nil {
		return Proxy{}, false, err
	}
	return proxy, true, nil
}

// URI returns a copy of the proxy URI.
func (p Proxy) URI() *url.URL {
	if p.uri == nil {
		return nil
	}
	copied := *p.uri
	return &copied
}

// Intercept returns the proxy's intercept policy.
func (p Proxy) Intercept() Intercept { return p.intercept }

// Destination returns where to dial to reach the proxy.
func (p Proxy) Destination() (transport.Destination, error) {
	if p.uri == nil {
		return transport.Destination{}, fmt.Errorf("proxy: zero Proxy has no URI")
	}
	uri := *p.uri
	if uri.Scheme == "" {
		uri.Scheme = "http"
	}
	return transport.DestinationFromURL(&uri)
}
