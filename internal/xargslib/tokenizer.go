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

// Package xargslib tokenizes stdin into argument words (whitespace or
// byte delimited, with a hand-rolled quote/escape scanner for the
// default mode's stricter quoting) and batches them into command
// invocations under an ARG_MAX-style byte budget, the way xargs(1)
// builds and runs command lines.
package xargslib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Word is one tokenized argument plus whether it was hard-terminated
// (by a newline, or the configured delimiter byte) as opposed to
// soft-terminated (other ASCII whitespace), per spec.md's hard/soft
// termination glossary entry; -L counts only hard terminations.
type Word struct {
	Text string
	Hard bool
}

// ReadWhitespaceDelimitedWords tokenizes r under xargs' default
// (non -0, non -d) input mode per spec.md §4.8.1: any run of ASCII
// whitespace separates words (newline producing a hard-terminated
// word, other whitespace soft-terminated); '…' and "…" each run
// literally to their matching close with no escape processing inside
// either quote type (an unquoted '#' is an ordinary character, not a
// comment marker); outside quotes, a backslash escapes the single byte
// that follows it. EOF before a quote closes is a fatal error.
func ReadWhitespaceDelimitedWords(r io.Reader) ([]Word, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return scanWhitespaceDelimited(data)
}

func isXargsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}

func scanWhitespaceDelimited(data []byte) ([]Word, error) {
	var words []Word
	var cur strings.Builder
	started := false

	emit := func(hard bool) {
		words = append(words, Word{Text: cur.String(), Hard: hard})
		cur.Reset()
		started = false
	}

	n := len(data)
	for i := 0; i < n; {
		b := data[i]
		switch {
		case b == '\'' || b == '"':
			started = true
			quote := b
			i++
			closed := false
			for i < n {
				if data[i] == quote {
					closed = true
					i++
					break
				}
				cur.WriteByte(data[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("xargs: unterminated quote")
			}
		case b == '\\':
			started = true
			if i+1 >= n {
				return nil, fmt.Errorf("xargs: trailing backslash with nothing to escape")
			}
			cur.WriteByte(data[i+1])
			i += 2
		case b == '\n':
			if started {
				emit(true)
			}
			i++
		case isXargsSpace(b):
			if started {
				emit(false)
			}
			i++
		default:
			started = true
			cur.WriteByte(b)
			i++
		}
	}
	if started {
		emit(false)
	}
	return words, nil
}

// ReadWhitespaceDelimited tokenizes r and returns the plain argument
// text, discarding hard/soft classification, for callers that don't
// need -L accounting.
func ReadWhitespaceDelimited(r io.Reader) ([]string, error) {
	words, err := ReadWhitespaceDelimitedWords(r)
	if err != nil {
		return nil, err
	}
	return wordText(words), nil
}

// ReadNullDelimited tokenizes r as a stream of NUL-terminated words (-0),
// with no further quoting interpreted; every word is hard-terminated.
func ReadNullDelimited(r io.Reader) ([]string, error) {
	words, err := readDelimited(r, 0)
	if err != nil {
		return nil, err
	}
	return wordText(words), nil
}

// ReadLineDelimited tokenizes r as one argument per line (-d '\n' /
// --delimiter='\n' shorthand, also used by replace-mode's default
// delimiter before -L/-n regroup words).
func ReadLineDelimited(r io.Reader) ([]string, error) {
	words, err := readDelimited(r, '\n')
	if err != nil {
		return nil, err
	}
	return wordText(words), nil
}

// ReadCustomDelimited tokenizes r on an arbitrary single-byte delimiter,
// for xargs -d/--delimiter.
func ReadCustomDelimited(r io.Reader, delim byte) ([]string, error) {
	words, err := readDelimited(r, delim)
	if err != nil {
		return nil, err
	}
	return wordText(words), nil
}

// ReadByteDelimitedWords is ReadCustomDelimited's Word-returning form,
// used when the caller needs hard/soft accounting (byte-delimited
// arguments are always hard-terminated per spec.md §4.8.1).
func ReadByteDelimitedWords(r io.Reader, delim byte) ([]Word, error) {
	return readDelimited(r, delim)
}

func wordText(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func readDelimited(r io.Reader, delim byte) ([]Word, error) {
	sc := bufio.NewReader(r)
	var words []Word
	var cur strings.Builder
	for {
		b, err := sc.ReadByte()
		if err != nil {
			if cur.Len() > 0 {
				words = append(words, Word{Text: cur.String(), Hard: true})
			}
			if err == io.EOF {
				return words, nil
			}
			return words, err
		}
		if b == delim {
			words = append(words, Word{Text: cur.String(), Hard: true})
			cur.Reset()
			continue
		}
		cur.WriteByte(b)
	}
}

// ParseDelimiterArg interprets a -d/--delimiter argument the way GNU
// xargs does: \xHH (hex), \0NNN (octal), the single-char C escapes
// (\a \b \f \n \r \t \v \\ \0), or any other single raw byte.
func ParseDelimiterArg(s string) (byte, error) {
	if s == "" {
		return 0, fmt.Errorf("xargs: empty delimiter")
	}
	if s[0] != '\\' {
		if len(s) != 1 {
			return 0, fmt.Errorf("xargs: delimiter must be a single character: %q", s)
		}
		return s[0], nil
	}
	rest := s[1:]
	if rest == "" {
		return '\\', nil
	}
	switch rest[0] {
	case 'x':
		v, err := strconv.ParseUint(rest[1:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("xargs: bad hex delimiter %q: %w", s, err)
		}
		return byte(v), nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v, err := strconv.ParseUint(rest, 8, 8)
		if err != nil {
			return 0, fmt.Errorf("xargs: bad octal delimiter %q: %w", s, err)
		}
		return byte(v), nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case '\\':
		return '\\', nil
	}
	if len(rest) == 1 {
		return rest[0], nil
	}
	return 0, fmt.Errorf("xargs: unrecognized delimiter escape %q", s)
}
