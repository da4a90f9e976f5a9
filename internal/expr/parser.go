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

package expr

import (
	"os"
	"strconv"

	"github.com/anonymouse64/gofindutils/internal/execrunner"
	"github.com/anonymouse64/gofindutils/internal/matchers"
)

// alwaysTrue represents a global option token (-maxdepth N, -follow, ...)
// once the option has been applied to the shared Config: an empty And
// always matches and carries no side effects.
func alwaysTrue() matchers.Matcher { return &matchers.And{} }

// Parser walks a find(1) expression token stream (everything after the
// starting-point path arguments) and builds a matchers.Matcher tree.
type Parser struct {
	tokens      []string
	pos         int
	cfg         *Config
	regex       matchers.RegexType
	caseReg     bool
	fprintFiles map[string]*os.File
}

// New returns a Parser over tokens, recording recognized global options
// into cfg as it parses.
func New(tokens []string, cfg *Config) *Parser {
	return &Parser{tokens: tokens, cfg: cfg, regex: matchers.RegexDefault}
}

// Parse builds the full expression tree, defaulting to a bare -print
// action when the expression contains no action of its own (find(1)'s
// "implicit -print" rule) and wrapping parse failures as *ParseError.
// The returned close func flushes and closes any -fprint/-fprintf/-fls
// destination files opened while parsing; callers must call it once the
// walk completes.
func Parse(tokens []string, cfg *Config) (matchers.Matcher, func() error, error) {
	p := New(tokens, cfg)
	closeFn := func() error {
		var err error
		for _, f := range p.fprintFiles {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
	if len(p.tokens) == 0 {
		return &matchers.Print{Terminator: '\n'}, closeFn, nil
	}
	m, err := p.parseList()
	if err != nil {
		return nil, closeFn, err
	}
	if p.pos != len(p.tokens) {
		return nil, closeFn, errMismatchedParen(p.peek())
	}
	if !m.HasSideEffects() {
		m = &matchers.And{Matchers: []matchers.Matcher{m, &matchers.Print{Terminator: '\n'}}}
	}
	return m, closeFn, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() string {
	if p.atEnd() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() string {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) takeArg(flag string) (string, error) {
	if p.atEnd() {
		return "", errMissingArgument(flag)
	}
	return p.next(), nil
}

// parseList handles the lowest-precedence comma operator.
func (p *Parser) parseList() (matchers.Matcher, error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	items := []matchers.Matcher{first}
	for p.peek() == "," {
		p.next()
		next, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &matchers.List{Matchers: items}, nil
}

// parseOr handles -o/-or.
func (p *Parser) parseOr() (matchers.Matcher, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	groups := []matchers.Matcher{first}
	for p.peek() == "-o" || p.peek() == "-or" {
		p.next()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		groups = append(groups, next)
	}
	if len(groups) == 1 {
		return groups[0], nil
	}
	return &matchers.Or{Groups: groups}, nil
}

// parseAnd handles explicit -a/-and and implicit concatenation.
func (p *Parser) parseAnd() (matchers.Matcher, error) {
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	parts := []matchers.Matcher{first}
	for p.startsOperand() || p.peek() == "-a" || p.peek() == "-and" {
		if p.peek() == "-a" || p.peek() == "-and" {
			p.next()
		}
		next, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &matchers.And{Matchers: parts}, nil
}

// startsOperand reports whether the current token can begin a new
// primary (implying an AND with whatever preceded it), as opposed to
// being a binary operator or a closing paren.
func (p *Parser) startsOperand() bool {
	if p.atEnd() {
		return false
	}
	switch p.peek() {
	case ")", ",", "-o", "-or", "-a", "-and":
		return false
	}
	return true
}

// parseNot handles prefix ! / -not, which may stack.
func (p *Parser) parseNot() (matchers.Matcher, error) {
	negate := false
	for p.peek() == "!" || p.peek() == "-not" {
		p.next()
		negate = !negate
	}
	inner, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if negate {
		return &matchers.Not{Inner: inner}, nil
	}
	return inner, nil
}

// parsePrimary handles parenthesized sub-expressions and single test or
// action tokens.
func (p *Parser) parsePrimary() (matchers.Matcher, error) {
	if p.atEnd() {
		return nil, errEmptyExpression()
	}
	tok := p.peek()
	switch tok {
	case "(":
		p.next()
		inner, err := p.parseList()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, errMismatchedParen(tok)
		}
		p.next()
		return inner, nil
	case ")":
		return nil, errUnexpectedOperator(tok)
	case ",", "-o", "-or", "-a", "-and":
		return nil, errUnexpectedOperator(tok)
	}
	return p.parseTest(p.next())
}

func parseUint(flag, s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errBadNumericArgument(flag, s)
	}
	return n, nil
}

func parseInt(flag, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadNumericArgument(flag, s)
	}
	return n, nil
}

// parseNumericComparator splits a leading "+"/"-" off a numeric argument
// per find(1)'s "+n / -n / n" convention, returning the comparator
// character (0 for exact) and the remaining digits.
func parseNumericComparator(s string) (byte, string) {
	if s == "" {
		return 0, s
	}
	switch s[0] {
	case '+', '-':
		return s[0], s[1:]
	}
	return 0, s
}

func (p *Parser) execTemplate(flag string, inDir bool) (*execrunner.Template, error) {
	var argv []string
	batched := false
	for {
		if p.atEnd() {
			return nil, errMissingArgument(flag)
		}
		tok := p.next()
		if tok == ";" {
			break
		}
		if tok == "+" && len(argv) > 0 {
			batched = true
			break
		}
		argv = append(argv, tok)
	}
	return &execrunner.Template{Argv: argv, Batched: batched, InDir: inDir}, nil
}

