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
	"github.com/anonymouse64/gofindutils/internal/globmatch"
)

// Name matches a glob against the entry's basename, case-sensitively
// (-name) or caselessly (-iname).
type Name struct {
	Pattern  *globmatch.Pattern
	Caseless bool
}

// NewName compiles a -name/-iname pattern.
func NewName(pattern string, caseless bool) (*Name, error) {
	p, err := globmatch.New(pattern, caseless)
	if err != nil {
		return nil, err
	}
	return &Name{Pattern: p, Caseless: caseless}, nil
}

func (n *Name) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	return n.Pattern.Matches(e.FileName()), nil
}

func (n *Name) HasSideEffects() bool { return false }

// Path matches a glob against the entry's whole path (-path/-ipath).
type Path struct {
	Pattern *globmatch.Pattern
}

// NewPath compiles a -path/-ipath pattern.
func NewPath(pattern string, caseless bool) (*Path, error) {
	p, err := globmatch.New(pattern, caseless)
	if err != nil {
		return nil, err
	}
	return &Path{Pattern: p}, nil
}

func (p *Path) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	return p.Pattern.Matches(e.Path()), nil
}

func (p *Path) HasSideEffects() bool { return false }

// LName matches a glob against the target of a symbolic link (-lname). A
// non-symlink entry never matches.
type LName struct {
	Pattern *globmatch.Pattern
}

// NewLName compiles a -lname/-ilname pattern.
func NewLName(pattern string, caseless bool) (*LName, error) {
	p, err := globmatch.New(pattern, caseless)
	if err != nil {
		return nil, err
	}
	return &LName{Pattern: p}, nil
}

func (l *LName) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	isLink, err := e.PathIsSymlink()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	if !isLink {
		return false, nil
	}
	target, err := readLink(e.Path())
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return l.Pattern.Matches(target), nil
}

func (l *LName) HasSideEffects() bool { return false }
