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

	"github.com/anonymouse64/gofindutils/internal/execrunner"
	"github.com/anonymouse64/gofindutils/internal/files"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/idlookup"
	"github.com/anonymouse64/gofindutils/internal/matchers"
	"github.com/anonymouse64/gofindutils/internal/render"
)

// openFprintTarget opens (or reuses, if already opened during this
// parse) the destination file for -fprint/-fprintf/-fls: truncated on
// first open, appended to afterward, matching find(1)'s -fprint
// semantics for repeated use of the same filename within one
// expression.
func (p *Parser) openFprintTarget(fname string) (*os.File, error) {
	if p.fprintFiles == nil {
		p.fprintFiles = map[string]*os.File{}
	}
	if f, ok := p.fprintFiles[fname]; ok {
		return f, nil
	}
	f, err := files.EnsureExistsAndOpen(fname, true)
	if err != nil {
		return nil, err
	}
	p.fprintFiles[fname] = f
	return f, nil
}

// parseTest interprets a single test/action/option token (tok has
// already been consumed from the stream) and any arguments it needs.
func (p *Parser) parseTest(tok string) (matchers.Matcher, error) {
	switch tok {
	// global options
	case "-maxdepth":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseInt(tok, arg)
		if err != nil {
			return nil, err
		}
		p.cfg.MaxDepth = n
		p.cfg.HasMax = true
		return alwaysTrue(), nil
	case "-mindepth":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseInt(tok, arg)
		if err != nil {
			return nil, err
		}
		p.cfg.MinDepth = n
		p.cfg.HasMin = true
		return alwaysTrue(), nil
	case "-d", "-depth":
		p.cfg.DepthFirst = true
		return alwaysTrue(), nil
	case "-follow":
		p.cfg.Follow = fsentry.FollowAlways
		return alwaysTrue(), nil
	case "-L":
		p.cfg.Follow = fsentry.FollowAlways
		return alwaysTrue(), nil
	case "-H":
		p.cfg.Follow = fsentry.FollowRoots
		return alwaysTrue(), nil
	case "-P":
		p.cfg.Follow = fsentry.FollowNever
		return alwaysTrue(), nil
	case "-regextype":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		p.regex = matchers.RegexType(arg)
		return alwaysTrue(), nil

	// name/path predicates
	case "-name", "-iname":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewName(arg, tok == "-iname")
		return wrap(m, err)
	case "-path", "-ipath", "-wholename", "-iwholename":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		caseless := tok == "-ipath" || tok == "-iwholename"
		m, err := matchers.NewPath(arg, caseless)
		return wrap(m, err)
	case "-lname", "-ilname":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewLName(arg, tok == "-ilname")
		return wrap(m, err)
	case "-regex", "-iregex":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewRegex(arg, p.regex, tok == "-iregex")
		return wrap(m, err)

	case "-type":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewType(arg)
		return wrap(m, err)

	case "-size":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.ParseSizeArg(arg)
		return wrap(m, err)

	case "-perm":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.ParsePermArg(arg)
		return wrap(m, err)

	case "-empty":
		return &matchers.Empty{}, nil

	case "-readable":
		return &matchers.Access{Mode: matchers.AccessReadable}, nil
	case "-writable":
		return &matchers.Access{Mode: matchers.AccessWritable}, nil
	case "-executable":
		return &matchers.Access{Mode: matchers.AccessExecutable}, nil

	case "-fstype":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		return &matchers.FileSystem{Want: arg}, nil

	case "-context":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewRegex(arg, matchers.RegexDefault, false)
		if err != nil {
			return nil, err
		}
		return &matchers.Context{Pattern: m.RE}, nil

	case "-samefile":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewSameFile(arg, p.cfg.Follow != fsentry.FollowNever)
		return wrap(m, err)

	case "-user":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		id, err := idlookup.UserIDByName(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.User{ID: id}, nil
	case "-uid":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseUint(tok, arg)
		if err != nil {
			return nil, err
		}
		return &matchers.User{ID: uint32(n)}, nil
	case "-nouser":
		return &matchers.User{NoUser: true}, nil
	case "-group":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		id, err := idlookup.GroupIDByName(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Group{ID: id}, nil
	case "-gid":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseUint(tok, arg)
		if err != nil {
			return nil, err
		}
		return &matchers.Group{ID: uint32(n)}, nil
	case "-nogroup":
		return &matchers.Group{NoGroup: true}, nil

	case "-inum":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseUint(tok, arg)
		if err != nil {
			return nil, err
		}
		return &matchers.Inode{N: n}, nil
	case "-links":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		n, err := parseUint(tok, arg)
		if err != nil {
			return nil, err
		}
		return &matchers.Links{N: n}, nil

	case "-newer":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewNewerFromFile(matchers.FieldModify, arg)
		return wrap(m, err)
	case "-anewer":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewNewerFromFile(matchers.FieldAccess, arg)
		return wrap(m, err)
	case "-cnewer":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		m, err := matchers.NewNewerFromFile(matchers.FieldChange, arg)
		return wrap(m, err)

	// actions
	case "-print":
		return &matchers.Print{Terminator: '\n'}, nil
	case "-print0":
		return &matchers.Print{Terminator: 0}, nil
	case "-printf":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		compiled, err := render.Compile(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Printf{Compiled: compiled}, nil
	case "-fprint":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		f, err := p.openFprintTarget(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Print{Terminator: '\n', Out: f}, nil
	case "-fprint0":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		f, err := p.openFprintTarget(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Print{Terminator: 0, Out: f}, nil
	case "-fprintf":
		fname, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		format, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		f, err := p.openFprintTarget(fname)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		compiled, err := render.Compile(format)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Printf{Compiled: compiled, Out: f}, nil
	case "-fls":
		arg, err := p.takeArg(tok)
		if err != nil {
			return nil, err
		}
		f, err := p.openFprintTarget(arg)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: err.Error()}
		}
		return &matchers.Ls{Out: f}, nil
	case "-ls":
		return &matchers.Ls{}, nil
	case "-delete":
		// -delete implies -depth: a directory's contents must be
		// removed (and thus visited) before the directory itself is,
		// or rmdir on a non-empty directory always fails.
		p.cfg.DepthFirst = true
		return &matchers.Delete{}, nil
	case "-prune":
		return &matchers.Prune{}, nil
	case "-quit":
		return &matchers.Quit{}, nil

	case "-exec", "-execdir", "-ok", "-okdir":
		inDir := tok == "-execdir" || tok == "-okdir"
		confirm := tok == "-ok" || tok == "-okdir"
		t, err := p.execTemplate(tok, inDir)
		if err != nil {
			return nil, err
		}
		if t.Batched {
			b, err := execrunner.NewBatcher(t, argMaxBudget(), os.Stdout, os.Stderr)
			if err != nil {
				return nil, &ParseError{Token: tok, Reason: err.Error()}
			}
			return &matchers.BatchExec{Batcher: b}, nil
		}
		return &matchers.Exec{Template: t, Confirm: confirm, In: os.Stdin}, nil

	default:
		return nil, errUnknownPredicate(tok)
	}
}

func wrap(m matchers.Matcher, err error) (matchers.Matcher, error) {
	if err != nil {
		return nil, err
	}
	return m, nil
}

// argMaxBudget returns a conservative per-invocation byte budget for
// batched -exec ... + commands, well under a typical Linux ARG_MAX.
func argMaxBudget() int {
	return 128 * 1024
}
