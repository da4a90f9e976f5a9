/*
 * Copyright (C) 2024 gofindutils Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package diag generalizes the teacher's accumulating errs []error plus
// logError(err) pattern into a small, explicitly-passed diagnostics sink
// with a process-wide exit-code flag, as spec'd for Ls/Printf write
// failures.
package diag

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Flag is an atomic exit-code cell. The zero value means "no elevation
// requested yet".
type Flag struct {
	code int32
}

// Raise sets the flag to code unless a higher code is already set.
func (f *Flag) Raise(code int) {
	for {
		cur := atomic.LoadInt32(&f.code)
		if int32(code) <= cur {
			return
		}
		if atomic.CompareAndSwapInt32(&f.code, cur, int32(code)) {
			return
		}
	}
}

// Code returns the current exit code, 0 if nothing has raised it.
func (f *Flag) Code() int {
	return int(atomic.LoadInt32(&f.code))
}

// Diagnostics collects per-entry and renderer errors during a run and
// exposes them as a single multierror, the way the teacher's []error slice
// did, without relying on a package-level global.
type Diagnostics struct {
	log     *logrus.Logger
	verbose bool

	mu   sync.Mutex
	errs *multierror.Error
}

// New returns a Diagnostics sink. When verbose is true, each logged error
// is also written immediately through the logger at Warn level (the
// teacher's --errors/-e flag).
func New(log *logrus.Logger, verbose bool) *Diagnostics {
	if log == nil {
		log = logrus.New()
	}
	return &Diagnostics{log: log, verbose: verbose}
}

// Report records an error against an optional path. It never aborts the
// caller; traversal-level callers always continue after calling Report.
func (d *Diagnostics) Report(path string, err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	d.errs = multierror.Append(d.errs, err)
	d.mu.Unlock()
	if d.verbose {
		if path != "" {
			d.log.WithField("path", path).Warn(err)
		} else {
			d.log.Warn(err)
		}
	}
}

// Note logs an informational diagnostic (verbose mode only) without
// accumulating it into Errors, for conditions that are expected behavior
// rather than a failure (e.g. -delete's "." special case).
func (d *Diagnostics) Note(path, msg string) {
	if !d.verbose {
		return
	}
	if path != "" {
		d.log.WithField("path", path).Info(msg)
	} else {
		d.log.Info(msg)
	}
}

// Errors folds all recorded errors into one error, or nil if none were
// recorded.
func (d *Diagnostics) Errors() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errs == nil {
		return nil
	}
	return d.errs.ErrorOrNil()
}

// Len reports how many errors have been recorded so far.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errs == nil {
		return 0
	}
	return len(d.errs.Errors)
}
