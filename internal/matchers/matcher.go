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

// Package matchers implements the find expression matcher taxonomy:
// predicate and action variants sharing one small capability interface, the
// way the teacher's internal/xdotool.Tool and strace tracer interfaces keep
// one method set across several concrete implementations.
package matchers

import (
	"io"
	"time"

	"github.com/anonymouse64/gofindutils/internal/diag"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/mountinfo"
)

// Matcher is the shared contract every predicate and action node
// implements: a boolean test against one entry, plus whether that test has
// observable side effects (print, exec, delete, quit, prune). The parser
// builds the tree generically against this interface so new matcher kinds
// can be added without touching And/Or/Not/List.
type Matcher interface {
	Matches(e *fsentry.Entry, mio *IO) (bool, error)
	HasSideEffects() bool
}

// IO is the per-entry scratch passed to matchers: a borrowed reference to
// the output sink, the skip/quit flags the traversal driver reads back
// after each evaluation, and the time/filesystem-list capability
// providers. It never references the matcher tree that produced it.
type IO struct {
	Out  io.Writer
	Diag *diag.Diagnostics
	// ExitFlag is raised to 1 by renderer write failures, per spec.md §7.
	ExitFlag *diag.Flag

	Skip bool
	Quit bool

	Now    func() time.Time
	Mounts *mountinfo.Cache

	// StartingPoint is the root this entry's walk began from, used by the
	// %P printf directive to strip it from the path.
	StartingPoint string
}

// NewIO returns an IO with sensible defaults (real clock, a fresh mount
// cache) for callers that don't need to override them in tests.
func NewIO(out io.Writer, d *diag.Diagnostics, exitFlag *diag.Flag) *IO {
	return &IO{
		Out:      out,
		Diag:     d,
		ExitFlag: exitFlag,
		Now:      time.Now,
		Mounts:   &mountinfo.Cache{},
	}
}

func (mio *IO) reportErr(path string, err error) {
	if mio.Diag != nil {
		mio.Diag.Report(path, err)
	}
}

func (mio *IO) noteDiag(path, msg string) {
	if mio.Diag != nil {
		mio.Diag.Note(path, msg)
	}
}
