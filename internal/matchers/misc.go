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
	"os"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

func readLink(path string) (string, error) {
	return os.Readlink(path)
}

// Type matches a single file-type letter (f d l b c p s) against the
// entry's (follow-mode-aware) type.
type Type struct {
	Letter byte
}

// NewType parses a -type letter.
func NewType(letter string) (*Type, error) {
	if len(letter) != 1 {
		return nil, errInvalidArg("-type", letter)
	}
	if _, ok := fileTypeLetterOK(letter[0]); !ok {
		return nil, errInvalidArg("-type", letter)
	}
	return &Type{Letter: letter[0]}, nil
}

func fileTypeLetterOK(b byte) (byte, bool) {
	switch b {
	case 'f', 'd', 'l', 'b', 'c', 'p', 's':
		return b, true
	default:
		return 0, false
	}
}

func (t *Type) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	typ, err := e.FileType()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return typ.String() == string(t.Letter), nil
}

func (t *Type) HasSideEffects() bool { return false }

func errInvalidArg(name, value string) error {
	return &invalidArgError{name: name, value: value}
}

type invalidArgError struct {
	name, value string
}

func (e *invalidArgError) Error() string {
	return "invalid argument " + e.value + " to " + e.name
}
