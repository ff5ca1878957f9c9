// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// exit is replaced in tests.
var exit = os.Exit

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	report(os.Stderr, err)
	exit(1)
}

// Main runs run and exits according to its result: nothing happens on
// success or when run stopped because its context was cancelled (a
// signal-initiated shutdown), and any other error is fatal.
func Main(run func() error) {
	err := run()
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	Fatal(err)
}

func report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
