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
	"strconv"
	"strings"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// PermMode is one of the three find(1) -perm comparison modes.
type PermMode byte

const (
	// PermExact matches when the low 12 permission bits equal the pattern
	// exactly (the default, no prefix).
	PermExact PermMode = iota
	// PermAtLeast matches when (mode & pattern) == pattern (prefix "-").
	PermAtLeast
	// PermAnyOf matches when pattern == 0 || (mode & pattern) != 0 (prefix "/").
	PermAnyOf
)

const permBitsMask = 0o7777

// Perm matches on the low 12 permission bits using one of three modes.
type Perm struct {
	Mode    PermMode
	Pattern uint32
}

// Match implements the three comparison semantics directly on raw mode
// bits (the entry's mode first, the -perm pattern second), usable
// independently of an Entry.
func (mode PermMode) Match(fileMode, pattern uint32) bool {
	fileMode &= permBitsMask
	pattern &= permBitsMask
	switch mode {
	case PermAtLeast:
		return fileMode&pattern == pattern
	case PermAnyOf:
		return pattern == 0 || fileMode&pattern != 0
	default:
		return fileMode == pattern
	}
}

func (p *Perm) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return p.Mode.Match(m.Mode, p.Pattern), nil
}

func (p *Perm) HasSideEffects() bool { return false }

// ParsePermArg parses a find(1) -perm argument: an optional leading "-" or
// "/" selecting the comparison mode, followed by an octal number or a
// symbolic mode string (e.g. "u+x,g-w").
func ParsePermArg(arg string) (*Perm, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing argument to -perm")
	}
	mode := PermExact
	rest := arg
	switch arg[0] {
	case '-':
		mode = PermAtLeast
		rest = arg[1:]
	case '/':
		mode = PermAnyOf
		rest = arg[1:]
	}
	if rest == "" {
		return nil, fmt.Errorf("invalid argument %q to -perm", arg)
	}
	if n, err := strconv.ParseUint(rest, 8, 32); err == nil {
		return &Perm{Mode: mode, Pattern: uint32(n)}, nil
	}
	n, err := parseSymbolicMode(rest)
	if err != nil {
		return nil, fmt.Errorf("invalid mode %q to -perm: %w", arg, err)
	}
	return &Perm{Mode: mode, Pattern: n}, nil
}

// parseSymbolicMode interprets a chmod(1)-style symbolic mode clause list
// (who)(op)(perms), comma separated, accumulating only the "perms" bits
// set (clear/deny clauses are not meaningful for a match pattern, so "-"
// clauses are rejected).
func parseSymbolicMode(s string) (uint32, error) {
	var result uint32
	for _, clause := range strings.Split(s, ",") {
		if clause == "" {
			return 0, fmt.Errorf("empty clause")
		}
		i := 0
		var who uint32
		for i < len(clause) && strings.ContainsRune("ugoa", rune(clause[i])) {
			switch clause[i] {
			case 'u':
				who |= 0o4700
			case 'g':
				who |= 0o2070
			case 'o':
				who |= 0o1007
			case 'a':
				who |= 0o7777
			}
			i++
		}
		if who == 0 {
			who = 0o7777
		}
		if i >= len(clause) {
			return 0, fmt.Errorf("missing operator in %q", clause)
		}
		op := clause[i]
		if op != '+' && op != '=' {
			return 0, fmt.Errorf("unsupported operator %q for a match pattern", string(op))
		}
		i++
		var perm uint32
		for ; i < len(clause); i++ {
			switch clause[i] {
			case 'r':
				perm |= 0o444
			case 'w':
				perm |= 0o222
			case 'x':
				perm |= 0o111
			case 's':
				perm |= 0o6000
			case 't':
				perm |= 0o1000
			default:
				return 0, fmt.Errorf("unknown permission letter %q", string(clause[i]))
			}
		}
		result |= perm & who
	}
	return result, nil
}
