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

// Package expr tokenizes and parses a find(1) expression argv tail into a
// matchers.Matcher tree, the way a hand-rolled recursive-descent parser
// walks an operator-precedence grammar: primaries, -not, implicit -and,
// -or, and the comma operator, tightest to loosest.
package expr

import "github.com/anonymouse64/gofindutils/internal/fsentry"

// Config carries the traversal-wide options recognized anywhere in a
// find(1) expression (-maxdepth, -mindepth, -d/-depth, -L/-H/-P,
// -follow), separated from the expression tree itself since the walk
// driver reads them once up front.
type Config struct {
	MinDepth int
	MaxDepth int // -1 means unbounded
	HasMin   bool
	HasMax   bool

	DepthFirst bool // -d/-depth: report a directory after its contents

	Follow fsentry.FollowMode

	// StartingPoints are the leading path arguments preceding the
	// expression tokens.
	StartingPoints []string
}

// NewConfig returns a Config with find(1)'s defaults: no depth bounds,
// breadth-reporting order, never follow symlinks.
func NewConfig() *Config {
	return &Config{MaxDepth: -1, Follow: fsentry.FollowNever}
}
