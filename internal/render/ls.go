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

package render

import (
	"fmt"
	"io"
	"os/user"
	"strconv"
	"time"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// Ls writes one "-ls" row for e, matching the layout GNU find's -ls
// produces: inode, 1K-block count, symbolic mode, link count,
// owner, group, size, mtime, path (plus " -> target" for symlinks).
func Ls(w io.Writer, e *fsentry.Entry, ctx Ctx) error {
	m, err := e.Metadata()
	if err != nil {
		_, werr := fmt.Fprintf(w, "%s\n", e.Path())
		if werr != nil {
			return werr
		}
		return nil
	}

	owner := strconv.FormatUint(uint64(m.Uid), 10)
	if u, lerr := user.LookupId(owner); lerr == nil {
		owner = u.Username
	}
	group := strconv.FormatUint(uint64(m.Gid), 10)
	if g, lerr := user.LookupGroupId(group); lerr == nil {
		group = g.Name
	}

	mtime := m.Mtime.Format("Jan _2 15:04")
	if ctx.Now != nil && ctx.Now().Sub(m.Mtime) > 180*24*time.Hour {
		mtime = m.Mtime.Format("Jan _2  2006")
	}

	path := e.Path()
	if m.IsSymlink {
		if target, rerr := readLinkTarget(e.Path()); rerr == nil {
			path = path + " -> " + target
		}
	}

	blocks := allocatedBlocks(m.Size)

	_, err = fmt.Fprintf(w, "%6d %4d %s %3d %-8s %-8s %8d %s %s\n",
		m.Ino, blocks, symbolicMode(m), m.Nlink, owner, group, m.Size, mtime, path)
	return err
}

// allocatedBlocks estimates the 1K-block count -ls displays, rounding up
// to the nearest multiple of 4 (with a minimum of 4) to approximate real
// filesystem allocation-unit granularity the way GNU find's -ls does.
func allocatedBlocks(size int64) int64 {
	kb := (size + 1023) / 1024
	blocks := ((kb + 3) / 4) * 4
	if blocks < 4 {
		blocks = 4
	}
	return blocks
}
