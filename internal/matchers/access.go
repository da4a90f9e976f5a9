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

package matchers

import (
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/mountinfo"
	"golang.org/x/sys/unix"
)

// AccessMode is one of readable/writable/executable for the -readable,
// -writable, -executable predicates.
type AccessMode uint8

const (
	AccessReadable AccessMode = iota
	AccessWritable
	AccessExecutable
)

// Access checks access(2) from the real uid/gid, honoring the process's
// actual permissions rather than the file's nominal mode bits.
type Access struct {
	Mode AccessMode
}

func (a *Access) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	var bit uint32
	switch a.Mode {
	case AccessWritable:
		bit = unix.W_OK
	case AccessExecutable:
		bit = unix.X_OK
	default:
		bit = unix.R_OK
	}
	err := unix.Access(e.Path(), bit)
	if err != nil {
		// access(2) returning EACCES is a normal "no" rather than a
		// diagnosable error; only report other failures.
		if err != unix.EACCES {
			mio.reportErr(e.Path(), err)
		}
		return false, nil
	}
	return true, nil
}

func (a *Access) HasSideEffects() bool { return false }

// FileSystem matches the entry's mount's filesystem type against a literal
// string, caching the last dev_id -> fs_type lookup in its own cache.
type FileSystem struct {
	Want string

	cache mountinfo.Cache
}

func (f *FileSystem) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	fsType, err := f.cache.FSTypeForPath(e.Path())
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return fsType == f.Want, nil
}

func (f *FileSystem) HasSideEffects() bool { return false }
