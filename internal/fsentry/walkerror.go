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

package fsentry

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// WalkError is returned by traversal and metadata lookups. It carries an
// optional path, an optional depth, and the underlying OS error so callers
// can classify it for retry/broken-link handling.
type WalkError struct {
	Path  string
	Depth *int
	Err   error
}

func (w *WalkError) Error() string {
	if w.Path == "" {
		return w.Err.Error()
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Err.Error())
}

// Unwrap exposes the underlying error so errors.Is/errors.As keep working.
func (w *WalkError) Unwrap() error { return w.Err }

// NewWalkError wraps err with the path it occurred on.
func NewWalkError(path string, err error) *WalkError {
	return &WalkError{Path: path, Err: err}
}

// NewWalkErrorAt wraps err with both a path and a traversal depth.
func NewWalkErrorAt(path string, depth int, err error) *WalkError {
	return &WalkError{Path: path, Depth: &depth, Err: err}
}

// errno extracts a syscall.Errno from err, looking through os.PathError and
// os.LinkError wrappers the way the standard library produces them.
func errno(err error) (syscall.Errno, bool) {
	var e syscall.Errno
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}

// IsNotFound reports whether the error represents a missing path, including
// the ENOTDIR case where a path component that should be a directory isn't.
func (w *WalkError) IsNotFound() bool {
	if os.IsNotExist(w.Err) {
		return true
	}
	if e, ok := errno(w.Err); ok {
		return e == syscall.ENOENT || e == syscall.ENOTDIR
	}
	return false
}

// IsLoop reports whether the error represents a symlink loop (ELOOP).
func (w *WalkError) IsLoop() bool {
	e, ok := errno(w.Err)
	return ok && e == syscall.ELOOP
}
