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

// Package idlookup is the capability boundary spec.md §1 reserves for
// "concrete platform syscalls for user/group lookup". It mirrors the
// teacher's internal/commands.go pattern of a package-level var holding the
// lookup function so tests can substitute a fake, rather than a global
// mutable cache.
package idlookup

import (
	"os/user"
	"runtime"
	"strconv"
)

// lookupUser and lookupGroup are vars, not direct os/user calls, so tests
// can swap in deterministic fakes (MockUser/MockGroup below), the same way
// the teacher's internal/commands.go swaps userCurrent for tests.
var (
	lookupUser  = user.Lookup
	lookupGroup = user.LookupGroup
)

// UserIDByName resolves a username to a numeric uid. On Windows this is an
// explicit Non-goal (spec.md §9's Open Question is resolved here, rather
// than inherited as silent success): it always returns an error.
func UserIDByName(name string) (uint32, error) {
	if runtime.GOOS == "windows" {
		return 0, errUnsupportedPlatform("user")
	}
	u, err := lookupUser(name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(id), nil
}

// GroupIDByName resolves a group name to a numeric gid, with the same
// Windows policy as UserIDByName.
func GroupIDByName(name string) (uint32, error) {
	if runtime.GOOS == "windows" {
		return 0, errUnsupportedPlatform("group")
	}
	g, err := lookupGroup(name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(id), nil
}

type errUnsupportedPlatform string

func (e errUnsupportedPlatform) Error() string {
	return string(e) + " name resolution is not supported on " + runtime.GOOS
}

// MockLookups replaces the user/group lookup functions for the duration of
// a test and returns a restore func.
func MockLookups(u func(string) (*user.User, error), g func(string) (*user.Group, error)) (restore func()) {
	oldU, oldG := lookupUser, lookupGroup
	lookupUser, lookupGroup = u, g
	return func() {
		lookupUser, lookupGroup = oldU, oldG
	}
}
