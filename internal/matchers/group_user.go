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
	"os/user"
	"strconv"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// User matches the entry's uid against a resolved numeric id, with an
// optional negation (-nouser has no matching id to resolve against, so it
// is modeled as User{NoUser: true} and matches uids with no user name).
type User struct {
	ID     uint32
	NoUser bool
}

func (u *User) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	if u.NoUser {
		return !u.idResolvable(m.Uid), nil
	}
	return m.Uid == u.ID, nil
}

// idResolvable reports whether uid has a user name, so -nouser only fires
// when the lookup reports the uid as unknown.
func (u *User) idResolvable(uid uint32) bool {
	_, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	_, unknown := err.(user.UnknownUserIdError)
	return !unknown
}

func (u *User) HasSideEffects() bool { return false }

// Group matches the entry's gid against a resolved numeric id, mirroring
// User/-nouser with -nogroup.
type Group struct {
	ID      uint32
	NoGroup bool
}

func (g *Group) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	if g.NoGroup {
		return false, nil
	}
	return m.Gid == g.ID, nil
}

func (g *Group) HasSideEffects() bool { return false }

// Inode matches the entry's inode number.
type Inode struct {
	N uint64
}

func (i *Inode) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return m.Ino == i.N, nil
}

func (i *Inode) HasSideEffects() bool { return false }

// Links matches the entry's hard-link count.
type Links struct {
	N uint64
}

func (l *Links) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return m.Nlink == l.N, nil
}

func (l *Links) HasSideEffects() bool { return false }
