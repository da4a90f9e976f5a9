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

// Package mountinfo reads the host's mount table for the -fstype matcher
// and the %F printf directive, and caches the last dev_id -> fs_type
// mapping the way spec.md §4.3 describes.
package mountinfo

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Mount describes one line of /proc/self/mountinfo (or /proc/mounts as a
// fallback): the mount point path and the filesystem type string reported
// for it.
type Mount struct {
	Path   string
	FSType string
}

// ReadMounts parses the live mount table. It tries /proc/self/mountinfo
// first (richer, has mount point + fs type directly after a " - "
// separator) and falls back to /proc/mounts (simpler "dev mnt fstype opts"
// format) if that file can't be read.
func ReadMounts() ([]Mount, error) {
	if f, err := os.Open("/proc/self/mountinfo"); err == nil {
		defer f.Close()
		return parseMountinfo(f), nil
	}
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMounts(f), nil
}

func parseMountinfo(f *os.File) []Mount {
	var mounts []Mount
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		parts := strings.SplitN(line, " - ", 2)
		if len(parts) != 2 {
			continue
		}
		left := strings.Fields(parts[0])
		right := strings.Fields(parts[1])
		if len(left) < 5 || len(right) < 1 {
			continue
		}
		mounts = append(mounts, Mount{Path: left[4], FSType: right[0]})
	}
	return mounts
}

func parseMounts(f *os.File) []Mount {
	var mounts []Mount
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, Mount{Path: fields[1], FSType: fields[2]})
	}
	return mounts
}

// LongestPrefixMatch returns the fs type of the mount entry whose path is
// the longest prefix of target, mirroring how the kernel resolves which
// mount "owns" a given path.
func LongestPrefixMatch(mounts []Mount, target string) (string, bool) {
	best := -1
	var bestType string
	for _, m := range mounts {
		if !strings.HasPrefix(target, m.Path) {
			continue
		}
		if len(m.Path) > best {
			best = len(m.Path)
			bestType = m.FSType
		}
	}
	if best < 0 {
		return "", false
	}
	return bestType, true
}

// Cache is a single-slot (dev_id -> fs_type) memo scoped to one -fstype
// matcher instance, per spec.md §9: it lives inside the matcher, never as
// a package global, and relies on the single-threaded evaluation invariant
// for its lack of locking.
type Cache struct {
	once   sync.Once
	mounts []Mount
	err    error

	haveDev bool
	dev     uint64
	fsType  string
}

// FSTypeForPath returns the filesystem type for path's containing mount,
// amortizing repeated lookups for entries on the same device.
func (c *Cache) FSTypeForPath(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", err
	}
	dev := uint64(st.Dev)
	if c.haveDev && dev == c.dev {
		return c.fsType, nil
	}

	c.once.Do(func() {
		c.mounts, c.err = ReadMounts()
	})
	if c.err != nil {
		// unreadable mount list: "no match with a diagnostic" per spec.md §9.
		return "", c.err
	}

	fsType, _ := LongestPrefixMatch(c.mounts, path)
	c.haveDev = true
	c.dev = dev
	c.fsType = fsType
	return fsType, nil
}
