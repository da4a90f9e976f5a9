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

// Package files backs -fprint/-fprintf/-fls's destination-file
// semantics: the first -fprint to a given name truncates it, and every
// later write within the same run appends.
package files

import "os"

func isRegularFile(fname string) bool {
	info, err := os.Stat(fname)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureExistsAndOpen opens fname for writing, creating it if absent.
// When truncate is true and fname already exists, it is removed and
// recreated first rather than opened for append, matching -fprint's
// truncate-on-first-use rule (internal/expr.Parser calls this once per
// distinct filename per parse, with truncate always true, then keeps
// the handle open for every subsequent write in that expression).
func EnsureExistsAndOpen(fname string, truncate bool) (*os.File, error) {
	exists := isRegularFile(fname)
	if exists && !truncate {
		return os.OpenFile(fname, os.O_WRONLY|os.O_APPEND, 0644)
	}
	if exists {
		if err := os.Remove(fname); err != nil {
			return nil, err
		}
	}
	return os.Create(fname)
}

// EnsureFileIsDeleted removes fname if it exists, and is a no-op
// otherwise.
func EnsureFileIsDeleted(fname string) error {
	if isRegularFile(fname) {
		return os.Remove(fname)
	}
	return nil
}
