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

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// SizeUnit is one of the -size suffix letters.
type SizeUnit byte

// Unit divisors, in bytes.
const (
	UnitByte        SizeUnit = 'c'
	UnitTwoByteWord SizeUnit = 'w'
	UnitBlock       SizeUnit = 'b'
	UnitKiloByte    SizeUnit = 'k'
	UnitMegaByte    SizeUnit = 'M'
	UnitGigaByte    SizeUnit = 'G'
)

func (u SizeUnit) divisor() int64 {
	switch u {
	case UnitByte:
		return 1
	case UnitTwoByteWord:
		return 2
	case UnitBlock:
		return 512
	case UnitKiloByte:
		return 1024
	case UnitMegaByte:
		return 1024 * 1024
	case UnitGigaByte:
		return 1024 * 1024 * 1024
	default:
		return 1
	}
}

// SizeInUnits converts a byte count to a unit size as ceil(bytes/divisor);
// zero bytes always yields zero.
func SizeInUnits(u SizeUnit, bytes int64) int64 {
	if bytes == 0 {
		return 0
	}
	d := u.divisor()
	return (bytes + d - 1) / d
}

// Comparator is one of the three find(1) numeric comparison modes.
type Comparator byte

const (
	CompareExact Comparator = '='
	CompareLess  Comparator = '-'
	CompareMore  Comparator = '+'
)

// Size matches on file size, rounded up to the given unit, with one of the
// three comparators.
type Size struct {
	Unit SizeUnit
	Cmp  Comparator
	N    int64
}

func (s *Size) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	m, err := e.Metadata()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	actual := SizeInUnits(s.Unit, m.Size)
	switch s.Cmp {
	case CompareLess:
		return actual < s.N, nil
	case CompareMore:
		return actual > s.N, nil
	default:
		return actual == s.N, nil
	}
}

func (s *Size) HasSideEffects() bool { return false }

// ParseSizeArg parses a find(1) -size argument like "+10k", "-1M", "100c".
func ParseSizeArg(arg string) (*Size, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing argument to -size")
	}
	cmp := CompareExact
	i := 0
	switch arg[0] {
	case '+':
		cmp = CompareMore
		i = 1
	case '-':
		cmp = CompareLess
		i = 1
	}
	rest := arg[i:]
	if rest == "" {
		return nil, fmt.Errorf("invalid argument %q to -size", arg)
	}
	unit := UnitBlock
	last := rest[len(rest)-1]
	switch SizeUnit(last) {
	case UnitByte, UnitTwoByteWord, UnitBlock, UnitKiloByte, UnitMegaByte, UnitGigaByte:
		unit = SizeUnit(last)
		rest = rest[:len(rest)-1]
	}
	var n int64
	if _, err := fmt.Sscanf(rest, "%d", &n); err != nil || rest == "" {
		return nil, fmt.Errorf("invalid size value %q", arg)
	}
	return &Size{Unit: unit, Cmp: cmp, N: n}, nil
}
