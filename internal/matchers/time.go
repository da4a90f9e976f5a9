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
	"time"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// TimeField selects which of an entry's three timestamps a Newer/-time
// matcher compares.
type TimeField uint8

const (
	FieldAccess TimeField = iota
	FieldModify
	FieldChange
)

func fieldOf(m *fsentry.Metadata, f TimeField) time.Time {
	switch f {
	case FieldAccess:
		return m.Atime
	case FieldChange:
		return m.Ctime
	default:
		return m.Mtime
	}
}

// Newer matches entries whose selected timestamp is strictly after a
// reference time (captured once, from a reference file's metadata, at
// parse time).
type Newer struct {
	Field     TimeField
	Reference time.Time
}

func (n *Newer) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return fieldOf(m, n.Field).After(n.Reference), nil
}

func (n *Newer) HasSideEffects() bool { return false }

// NewNewerFromFile builds a Newer matcher using field's timestamp from
// refPath as the reference.
func NewNewerFromFile(field TimeField, refPath string) (*Newer, error) {
	e := fsentry.New(refPath, 0, fsentry.FollowAlways, true)
	m, err := e.Metadata()
	if err != nil {
		return nil, err
	}
	return &Newer{Field: field, Reference: fieldOf(m, field)}, nil
}
