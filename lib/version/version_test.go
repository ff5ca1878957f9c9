// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func withBuild(t *testing.T, commit, dirty string) {
	t.Helper()
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })
	GitCommit, GitDirty = commit, dirty
}

func TestInfo(t *testing.T) {
	withBuild(t, "abc1234", "false")
	if got := Info(); !strings.Contains(got, "(abc1234, ") {
		t.Errorf("Info() = %q, want commit abc1234", got)
	}

	withBuild(t, "abc1234", "true")
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want dirty marker", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() = %q, want prefix %q", full, Info())
	}
	if !strings.Contains(full, "Platform: ") {
		t.Errorf("Full() = %q, missing platform", full)
	}
}

func TestLogAttrs(t *testing.T) {
	withBuild(t, "abc1234", "false")

	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	logger.Info("starting", LogAttrs())

	if !strings.Contains(buffer.String(), "build.commit=abc1234") {
		t.Errorf("log line %q missing build.commit", buffer.String())
	}
}
