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
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// FollowMode controls whether symlinks are followed when resolving an
// entry's metadata.
type FollowMode uint8

const (
	// FollowNever never follows symlinks; file-type reporting reflects the
	// link itself (-P, the default).
	FollowNever FollowMode = iota
	// FollowRoots follows symlinks only when they are one of the starting
	// points given on the command line (-H).
	FollowRoots
	// FollowAlways follows every symlink encountered during the walk (-L).
	FollowAlways
)

// Metadata is the lazily populated, cached stat result for an Entry.
type Metadata struct {
	Type  FileType
	Mode  uint32
	Size  int64
	Dev   uint64
	Ino   uint64
	Nlink uint64
	Uid   uint32
	Gid   uint32
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
	// IsSymlink is true when this metadata was obtained with lstat and the
	// path itself is a symbolic link (independent of whether Type reports
	// the link's own type or, for a followed link, the target's type).
	IsSymlink bool
}

// Entry represents a path discovered by traversal, or supplied explicitly
// as a starting point. Metadata, once resolved, is cached for the entry's
// lifetime.
type Entry struct {
	path       string
	depth      int
	follow     FollowMode
	isRoot     bool
	meta       *Metadata
	metaErr    error
	metaForced bool // true once metadata has been looked up at least once
}

// New creates a walk entry for path at the given depth. isRoot marks this
// entry as one of the starting points passed on the command line, which
// matters for FollowRoots.
func New(path string, depth int, follow FollowMode, isRoot bool) *Entry {
	return &Entry{path: path, depth: depth, follow: follow, isRoot: isRoot}
}

// Path returns the entry's path exactly as discovered (absolute or
// relative, matching how the starting point was given).
func (e *Entry) Path() string { return e.path }

// FileName returns the last path component.
func (e *Entry) FileName() string { return filepath.Base(e.path) }

// Depth returns the entry's depth below its starting point; 0 for a root.
func (e *Entry) Depth() int { return e.depth }

// Follow reports this entry's symlink-follow mode.
func (e *Entry) Follow() FollowMode { return e.follow }

// shouldFollowSymlink decides, for this entry specifically, whether a
// symlink at this path should be resolved to its target.
func (e *Entry) shouldFollowSymlink() bool {
	switch e.follow {
	case FollowAlways:
		return true
	case FollowRoots:
		return e.isRoot
	default:
		return false
	}
}

// Metadata resolves (on first call) and returns this entry's metadata. The
// first lookup calls stat or lstat per the follow policy; subsequent calls
// return the cached result, success or error.
func (e *Entry) Metadata() (*Metadata, error) {
	if e.metaForced {
		return e.meta, e.metaErr
	}
	e.metaForced = true
	e.meta, e.metaErr = statEntry(e.path, e.shouldFollowSymlink())
	return e.meta, e.metaErr
}

// FileType returns the entry's file type, honoring the follow policy (a
// root symlink under FollowRoots reports the target's type).
func (e *Entry) FileType() (FileType, error) {
	m, err := e.Metadata()
	if err != nil {
		return Unknown, err
	}
	return m.Type, nil
}

// PathIsSymlink reports whether the path itself (regardless of follow
// mode) is a symbolic link. This always does an explicit lstat rather than
// relying on cached, follow-mode-dependent metadata.
func (e *Entry) PathIsSymlink() (bool, error) {
	m, err := statEntry(e.path, false)
	if err != nil {
		return false, err
	}
	return m.Type == Symlink, nil
}

// AsBrokenLink reinterprets this entry as an explicit entry backed by an
// lstat of the link itself, for when traversal hits a broken symlink:
// actions like name matching still need to see *something*.
func (e *Entry) AsBrokenLink() *Entry {
	fresh := New(e.path, e.depth, FollowNever, e.isRoot)
	return fresh
}

func statEntry(path string, follow bool) (*Metadata, error) {
	var st unix.Stat_t
	var err error
	if follow {
		err = unix.Stat(path, &st)
		if err != nil {
			// fall back to lstat so a broken symlink still yields metadata
			// for the link itself rather than no metadata at all.
			var lst unix.Stat_t
			if lerr := unix.Lstat(path, &lst); lerr == nil {
				return metadataFromStat(&lst, true), nil
			}
			return nil, NewWalkError(path, err)
		}
		var lst unix.Stat_t
		isLink := false
		if lerr := unix.Lstat(path, &lst); lerr == nil {
			isLink = (lst.Mode & unix.S_IFMT) == unix.S_IFLNK
		}
		m := metadataFromStat(&st, false)
		m.IsSymlink = isLink
		return m, nil
	}

	err = unix.Lstat(path, &st)
	if err != nil {
		return nil, NewWalkError(path, err)
	}
	m := metadataFromStat(&st, false)
	m.IsSymlink = (st.Mode & unix.S_IFMT) == unix.S_IFLNK
	return m, nil
}

func metadataFromStat(st *unix.Stat_t, forcedLink bool) *Metadata {
	m := &Metadata{
		Mode:  st.Mode,
		Size:  st.Size,
		Dev:   uint64(st.Dev),
		Ino:   st.Ino,
		Nlink: uint64(st.Nlink),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Atime: timespecToTime(st.Atim),
		Mtime: timespecToTime(st.Mtim),
		Ctime: timespecToTime(st.Ctim),
	}
	if forcedLink {
		m.Type = Symlink
		m.IsSymlink = true
		return m
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		m.Type = Directory
	case unix.S_IFREG:
		m.Type = Regular
	case unix.S_IFLNK:
		m.Type = Symlink
	case unix.S_IFBLK:
		m.Type = BlockDevice
	case unix.S_IFCHR:
		m.Type = CharDevice
	case unix.S_IFIFO:
		m.Type = Fifo
	case unix.S_IFSOCK:
		m.Type = Socket
	default:
		m.Type = Unknown
	}
	return m
}

func timespecToTime(ts unix.Timespec) time.Time {
	return time.Unix(int64(ts.Sec), int64(ts.Nsec))
}
