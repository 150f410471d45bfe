// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparselin

import (
	"fmt"
	"io"
	"os"
)

// Logger reports progress at the verbosity level configured by
// Params.Verbose. It is the solver's only ambient logging surface; no
// structured-logging library is pulled in for this (see DESIGN.md), since
// none of the numeric libraries this solver is built from logs at all.
type Logger struct {
	out     io.Writer
	verbose int
}

func newLogger(verbose int) *Logger {
	return &Logger{out: os.Stderr, verbose: verbose}
}

// SetOutput redirects log output; primarily for tests.
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// Summary logs at verbosity ≥ 1.
func (l *Logger) Summary(format string, args ...any) { l.logAt(1, format, args...) }

// Detailed logs at verbosity ≥ 2.
func (l *Logger) Detailed(format string, args ...any) { l.logAt(2, format, args...) }

// Debug logs at verbosity ≥ 3.
func (l *Logger) Debug(format string, args ...any) { l.logAt(3, format, args...) }

func (l *Logger) logAt(level int, format string, args ...any) {
	if l == nil || l.verbose < level {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}
