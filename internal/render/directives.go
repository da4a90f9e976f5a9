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
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/mountinfo"
)

// Ctx carries the per-walk state a directive may need beyond the entry
// itself: the starting point for %P/%h, the mount cache for %F, and a
// clock for tests that want a fixed "now".
type Ctx struct {
	StartingPoint string
	Mounts        *mountinfo.Cache
	Now           func() time.Time
}

// Render writes one fully-substituted line for e to w. A flush directive
// (\c) does not stop rendering: the components after it are still
// substituted, and Render reports it by returning flushed=true — callers
// that need an actual OS flush should flush w themselves after Render
// returns true.
func (c *Compiled) Render(w io.Writer, e *fsentry.Entry, ctx Ctx) (flushed bool, err error) {
	for _, comp := range c.components {
		switch comp.kind {
		case kindLiteral:
			if _, err := io.WriteString(w, comp.literal); err != nil {
				return flushed, err
			}
		case kindFlush:
			flushed = true
		case kindDirective:
			s, rerr := renderDirective(comp, e, ctx)
			if rerr != nil {
				return flushed, rerr
			}
			if _, err := io.WriteString(w, pad(s, comp)); err != nil {
				return flushed, err
			}
		}
	}
	return flushed, nil
}

func pad(s string, comp component) string {
	if !comp.hasW || len(s) >= abs(comp.width) {
		return s
	}
	width := abs(comp.width)
	padding := strings.Repeat(" ", width-len(s))
	if comp.leftJus || comp.width < 0 {
		return s + padding
	}
	return padding + s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func renderDirective(comp component, e *fsentry.Entry, ctx Ctx) (string, error) {
	m, metaErr := e.Metadata()

	switch comp.directive {
	case 'p':
		return e.Path(), nil
	case 'P':
		return stripStartingPoint(e.Path(), ctx.StartingPoint), nil
	case 'f':
		return e.FileName(), nil
	case 'h':
		return dirName(e.Path()), nil
	case 'd':
		return strconv.Itoa(e.Depth()), nil
	case 'l':
		if metaErr != nil || !m.IsSymlink {
			return "", nil
		}
		target, err := readLinkTarget(e.Path())
		if err != nil {
			return "", nil
		}
		return target, nil
	}

	if metaErr != nil {
		return "?", nil
	}

	switch comp.directive {
	case 's':
		return strconv.FormatInt(m.Size, 10), nil
	case 'b':
		return strconv.FormatInt((m.Size+511)/512, 10), nil
	case 'k':
		return strconv.FormatInt((m.Size+1023)/1024, 10), nil
	case 'D':
		return strconv.FormatUint(m.Dev, 10), nil
	case 'i':
		return strconv.FormatUint(m.Ino, 10), nil
	case 'n':
		return strconv.FormatUint(m.Nlink, 10), nil
	case 'g':
		if g, err := user.LookupGroupId(strconv.FormatUint(uint64(m.Gid), 10)); err == nil {
			return g.Name, nil
		}
		return strconv.FormatUint(uint64(m.Gid), 10), nil
	case 'G':
		return strconv.FormatUint(uint64(m.Gid), 10), nil
	case 'u':
		if u, err := user.LookupId(strconv.FormatUint(uint64(m.Uid), 10)); err == nil {
			return u.Username, nil
		}
		return strconv.FormatUint(uint64(m.Uid), 10), nil
	case 'U':
		return strconv.FormatUint(uint64(m.Uid), 10), nil
	case 'm':
		return fmt.Sprintf("%o", m.Mode&07777), nil
	case 'M':
		return symbolicMode(m), nil
	case 'F':
		if ctx.Mounts == nil {
			return "", nil
		}
		fsType, err := ctx.Mounts.FSTypeForPath(e.Path())
		if err != nil {
			return "", nil
		}
		return fsType, nil
	case 'y':
		return string(typeLetter(m.Type)), nil
	case 'Y':
		return followedTypeLetter(e.Path(), m), nil
	case 'A', 'T', 'C':
		return renderTime(comp, m, ctx), nil
	case 'S':
		if m.Size == 0 {
			return "1.0", nil
		}
		blocks := float64((m.Size + 511) / 512 * 512)
		return fmt.Sprintf("%.1f", blocks/float64(m.Size)), nil
	}
	return "", nil
}

func renderTime(comp component, m *fsentry.Metadata, ctx Ctx) string {
	var t time.Time
	switch comp.directive {
	case 'A':
		t = m.Atime
	case 'C':
		t = m.Ctime
	default:
		t = m.Mtime
	}
	switch comp.sub {
	case '@':
		return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 7, 64)
	case 's':
		return strconv.FormatInt(t.Unix(), 10)
	case 0:
		return t.Format(time.ANSIC)
	default:
		return strftimeField(t, comp.sub)
	}
}

// strftimeField renders a single strftime-style conversion character; only
// the subset find(1) actually documents for %A/%T/%C is implemented.
func strftimeField(t time.Time, field byte) string {
	switch field {
	case 'H':
		return fmt.Sprintf("%02d", t.Hour())
	case 'M':
		return fmt.Sprintf("%02d", t.Minute())
	case 'S':
		return fmt.Sprintf("%02d", t.Second())
	case 'Y':
		return strconv.Itoa(t.Year())
	case 'm':
		return fmt.Sprintf("%02d", int(t.Month()))
	case 'd':
		return fmt.Sprintf("%02d", t.Day())
	case 'j':
		return fmt.Sprintf("%03d", t.YearDay())
	case 'F':
		return t.Format("2006-01-02")
	default:
		return string(field)
	}
}

// dirName computes %h's dirname: the root's dirname is empty, "."'s
// dirname is ".", and a path with no slash (a bare name relative to the
// starting point) also yields ".".
func dirName(path string) string {
	if path == "/" {
		return ""
	}
	if path == "." {
		return "."
	}
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "."
	}
	if idx == 0 {
		return "/"
	}
	return path[:idx]
}

// followedTypeLetter implements %Y: unlike %y, which reports a symlink's
// own type letter, %Y follows the link and reports the target's type, or
// "N" if the target doesn't exist, "L" if resolving it hits a symlink
// loop, or "?" for any other stat error.
func followedTypeLetter(path string, m *fsentry.Metadata) string {
	if !m.IsSymlink {
		return string(typeLetter(m.Type))
	}
	target, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "N"
		}
		var eno syscall.Errno
		if errors.As(err, &eno) && eno == syscall.ELOOP {
			return "L"
		}
		return "?"
	}
	return string(typeLetter(fsentry.FileTypeFromMode(target.Mode())))
}

func typeLetter(t fsentry.FileType) byte {
	switch t {
	case fsentry.Directory:
		return 'd'
	case fsentry.Symlink:
		return 'l'
	case fsentry.BlockDevice:
		return 'b'
	case fsentry.CharDevice:
		return 'c'
	case fsentry.Fifo:
		return 'p'
	case fsentry.Socket:
		return 's'
	case fsentry.Regular:
		return 'f'
	default:
		return 'U'
	}
}

func symbolicMode(m *fsentry.Metadata) string {
	const letters = "rwx"
	var b strings.Builder
	b.WriteByte(typeLetter(m.Type))
	for shift := 2; shift >= 0; shift-- {
		triplet := (m.Mode >> (uint(shift) * 3)) & 07
		for i := 0; i < 3; i++ {
			if triplet&(1<<(2-i)) != 0 {
				b.WriteByte(letters[i])
			} else {
				b.WriteByte('-')
			}
		}
	}
	return b.String()
}

func stripStartingPoint(path, start string) string {
	if start == "" || start == "." {
		return path
	}
	if path == start {
		return "."
	}
	if strings.HasPrefix(path, start+"/") {
		return path[len(start)+1:]
	}
	return path
}

func readLinkTarget(path string) (string, error) {
	return os.Readlink(path)
}
