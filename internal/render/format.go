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

// Package render compiles find(1) -printf format strings into a sequence
// of literal/flush/directive components and renders them per entry, and
// renders the -ls fixed-column row.
package render

import (
	"fmt"
	"strconv"
	"strings"
)

// componentKind tags a compiled format component.
type componentKind uint8

const (
	kindLiteral componentKind = iota
	kindFlush
	kindDirective
)

// component is one compiled piece of a format string.
type component struct {
	kind    componentKind
	literal string // kindLiteral

	directive byte // kindDirective: the primary letter, e.g. 'p', 'A', 'Y'
	sub       byte // kindDirective: secondary char for %A@, %Tk, etc. (0 if none)

	width   int
	hasW    bool
	leftJus bool
}

// Compiled is a parsed -printf format string ready to be rendered once per
// entry.
type Compiled struct {
	components []component
}

// Compile parses a -printf format string. Literal text, the C-style
// escapes (\a \b \f \n \r \t \v \0 \\), octal escapes \NNN, the flush
// directive \c, and %[width][-]directive sequences are all recognized.
func Compile(format string) (*Compiled, error) {
	var comps []component
	var lit strings.Builder
	flushLiteral := func() {
		if lit.Len() > 0 {
			comps = append(comps, component{kind: kindLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	runes := []byte(format)
	i := 0
	for i < len(runes) {
		switch runes[i] {
		case '\\':
			if i+1 >= len(runes) {
				lit.WriteByte('\\')
				i++
				continue
			}
			next := runes[i+1]
			switch next {
			case 'a':
				lit.WriteByte('\a')
			case 'b':
				lit.WriteByte('\b')
			case 'f':
				lit.WriteByte('\f')
			case 'n':
				lit.WriteByte('\n')
			case 'r':
				lit.WriteByte('\r')
			case 't':
				lit.WriteByte('\t')
			case 'v':
				lit.WriteByte('\v')
			case '\\':
				lit.WriteByte('\\')
			case 'c':
				flushLiteral()
				comps = append(comps, component{kind: kindFlush})
				i += 2
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				j := i + 1
				end := j
				for end < len(runes) && end < j+3 && runes[end] >= '0' && runes[end] <= '7' {
					end++
				}
				n, _ := strconv.ParseUint(string(runes[j:end]), 8, 8)
				lit.WriteByte(byte(n))
				i = end
				continue
			default:
				lit.WriteByte(next)
			}
			i += 2
		case '%':
			if i+1 >= len(runes) {
				lit.WriteByte('%')
				i++
				continue
			}
			if runes[i+1] == '%' {
				lit.WriteByte('%')
				i += 2
				continue
			}
			comp, consumed, err := parseDirective(runes[i:])
			if err != nil {
				return nil, err
			}
			flushLiteral()
			comps = append(comps, comp)
			i += consumed
		default:
			lit.WriteByte(runes[i])
			i++
		}
	}
	flushLiteral()
	return &Compiled{components: comps}, nil
}

// parseDirective parses one %[width][-]X[sub] directive starting at s[0]=='%'.
func parseDirective(s []byte) (component, int, error) {
	i := 1
	leftJus := false
	widthStart := i
	for i < len(s) && (s[i] == '-' || (s[i] >= '0' && s[i] <= '9')) {
		if s[i] == '-' {
			leftJus = true
		}
		i++
	}
	widthStr := strings.TrimLeft(string(s[widthStart:i]), "-")
	hasW := widthStr != ""
	var width int
	if hasW {
		w, err := strconv.Atoi(widthStr)
		if err != nil {
			return component{}, 0, fmt.Errorf("invalid width in format directive %q", string(s))
		}
		width = w
	}
	if i >= len(s) {
		return component{}, 0, fmt.Errorf("dangling format directive %q", string(s))
	}
	letter := s[i]
	i++
	var sub byte
	if (letter == 'A' || letter == 'T' || letter == 'C') && i < len(s) {
		sub = s[i]
		i++
	}
	return component{
		kind:      kindDirective,
		directive: letter,
		sub:       sub,
		width:     width,
		hasW:      hasW,
		leftJus:   leftJus,
	}, i, nil
}
