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
	"fmt"
	"regexp"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"golang.org/x/sys/unix"
)

// RegexType selects the regex dialect to normalize a pattern for before
// compiling it with Go's RE2 engine. Go has no selectable backend, so this
// only changes preprocessing (see DESIGN.md), never the matching engine.
type RegexType string

const (
	RegexDefault       RegexType = "findutils-default"
	RegexPosixBasic    RegexType = "posix-basic"
	RegexPosixExtended RegexType = "posix-extended"
)

// NormalizeRegex rewrites a BRE into the ERE/RE2 form Go's regexp package
// expects, when RegexPosixBasic is selected: the escaped operators
// \( \) \{ \} \| \+ \? lose their backslash, and the bare characters
// ( ) { } | + ?, which a BRE treats as literals, gain one.
func NormalizeRegex(t RegexType, pattern string) string {
	if t != RegexPosixBasic {
		return pattern
	}
	out := make([]byte, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' && i+1 < len(pattern) {
			switch pattern[i+1] {
			case '(', ')', '{', '}', '|', '+', '?':
				out = append(out, pattern[i+1])
				i++
				continue
			}
		}
		out = append(out, pattern[i])
	}
	return string(out)
}

// Regex matches a compiled regular expression against the entry's full
// path.
type Regex struct {
	RE *regexp.Regexp
}

// NewRegex compiles pattern under the given dialect.
func NewRegex(pattern string, t RegexType, caseless bool) (*Regex, error) {
	src := NormalizeRegex(t, pattern)
	if caseless {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return &Regex{RE: re}, nil
}

func (r *Regex) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	return r.RE.MatchString(e.Path()), nil
}

func (r *Regex) HasSideEffects() bool { return false }

// Context matches the SELinux security.selinux extended attribute.
type Context struct {
	Pattern *regexp.Regexp
}

func (ctx *Context) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	buf := make([]byte, 256)
	n, err := unix.Lgetxattr(e.Path(), "security.selinux", buf)
	if err != nil {
		// xattr absent (ENODATA) or unsupported (ENOTSUP/EOPNOTSUPP): no
		// SELinux context to compare, simply doesn't match.
		if err == unix.ENODATA || err == unix.ENOTSUP || err == unix.EOPNOTSUPP {
			return false, nil
		}
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return ctx.Pattern.MatchString(string(buf[:n])), nil
}

func (ctx *Context) HasSideEffects() bool { return false }

// SameFile matches entries sharing the same (device, inode) pair as a
// reference path, optionally following links on both sides.
type SameFile struct {
	Dev, Ino uint64
	Follow   bool
}

// NewSameFile captures the (dev, inode) of refPath.
func NewSameFile(refPath string, follow bool) (*SameFile, error) {
	mode := fsentry.FollowNever
	if follow {
		mode = fsentry.FollowAlways
	}
	e := fsentry.New(refPath, 0, mode, true)
	m, err := e.Metadata()
	if err != nil {
		return nil, err
	}
	return &SameFile{Dev: m.Dev, Ino: m.Ino, Follow: follow}, nil
}

func (sf *SameFile) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	var m *fsentry.Metadata
	var err error
	if sf.Follow {
		m, err = fsentry.New(e.Path(), e.Depth(), fsentry.FollowAlways, true).Metadata()
	} else {
		m, err = e.Metadata()
	}
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return m.Dev == sf.Dev && m.Ino == sf.Ino, nil
}

func (sf *SameFile) HasSideEffects() bool { return false }
