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

// Package locatedb implements the locate(1) query side: opening a
// LOCATE02 database (a file, or stdin via "-d -"), streaming its
// records, and applying the pattern/filter rules against each.
package locatedb

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/anonymouse64/gofindutils/internal/frcode"
	"github.com/anonymouse64/gofindutils/internal/globmatch"
	"github.com/anonymouse64/gofindutils/internal/matchers"
)

// Options configures one locate(1) query.
type Options struct {
	All          bool
	Basename     bool
	IgnoreCase   bool
	Limit        int // 0 means unbounded
	Null         bool
	Existing     bool
	NonExisting  bool
	UseRegex     bool
	RegexDialect matchers.RegexType
}

const globMeta = "*?[]"

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

// predicate is one compiled pattern matcher: either a literal substring
// test, a compiled glob, or a compiled regular expression, per spec.md
// §4.10.
type predicate struct {
	literal string
	glob    *globmatch.Pattern
	re      *regexp.Regexp
}

func compilePredicate(pattern string, opt Options) (*predicate, error) {
	if opt.UseRegex {
		src := matchers.NormalizeRegex(opt.RegexDialect, pattern)
		if opt.IgnoreCase {
			src = "(?i)" + src
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, err
		}
		return &predicate{re: re}, nil
	}
	if hasGlobMeta(pattern) {
		g, err := globmatch.New(pattern, opt.IgnoreCase)
		if err != nil {
			return nil, err
		}
		return &predicate{glob: g}, nil
	}
	lit := pattern
	if opt.IgnoreCase {
		lit = strings.ToLower(lit)
	}
	return &predicate{literal: lit}, nil
}

func (p *predicate) matches(s string, ignoreCase bool) bool {
	if p.re != nil {
		return p.re.MatchString(s)
	}
	if p.glob != nil {
		return p.glob.Matches(s)
	}
	subject := s
	if ignoreCase {
		subject = strings.ToLower(subject)
	}
	return strings.Contains(subject, p.literal)
}

// Query streams every path in db, applies patterns and Options' filters,
// and calls emit for each surviving result until Options.Limit is
// reached or the stream ends.
func Query(db io.Reader, patterns []string, opt Options, emit func(path string) error) error {
	preds := make([]*predicate, len(patterns))
	for i, p := range patterns {
		compiled, err := compilePredicate(p, opt)
		if err != nil {
			return err
		}
		preds[i] = compiled
	}

	dec, err := frcode.NewDecoder(db)
	if err != nil {
		return err
	}

	emitted := 0
	for {
		path, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if opt.Limit > 0 && emitted >= opt.Limit {
			return nil
		}

		subject := path
		if opt.Basename {
			subject = filepath.Base(path)
		}

		if !matchesAll(preds, subject, opt) {
			continue
		}
		if opt.Existing || opt.NonExisting {
			_, statErr := os.Lstat(path)
			exists := statErr == nil
			if opt.Existing && !exists {
				continue
			}
			if opt.NonExisting && exists {
				continue
			}
		}

		if err := emit(path); err != nil {
			return err
		}
		emitted++
	}
}

func matchesAll(preds []*predicate, subject string, opt Options) bool {
	if len(preds) == 0 {
		return true
	}
	if opt.All {
		for _, p := range preds {
			if !p.matches(subject, opt.IgnoreCase) {
				return false
			}
		}
		return true
	}
	for _, p := range preds {
		if p.matches(subject, opt.IgnoreCase) {
			return true
		}
	}
	return false
}

// OpenReader opens path for reading, or returns stdin unmodified when
// path is "-", the supplemented "-d -" stdin-database feature.
func OpenReader(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
