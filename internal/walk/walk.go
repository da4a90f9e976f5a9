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

// Package walk drives the traversal the parsed expression tree runs
// against: one starting point at a time, in argv order, reporting each
// directory before its contents by default or after them under -d/-depth,
// honoring -mindepth/-maxdepth
// and the matcher tree's skip (prune/delete) and quit signals.
package walk

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/anonymouse64/gofindutils/internal/expr"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/matchers"
)

// Walker drives one find(1) run: a config, a matcher tree, and the
// shared per-entry IO.
type Walker struct {
	Config *expr.Config
	Root   matchers.Matcher
	IO     *matchers.IO
}

// Run evaluates the matcher tree against every entry reachable from the
// configured starting points, in argv order, stopping immediately if any
// entry sets IO.Quit.
func (w *Walker) Run() error {
	for _, start := range w.Config.StartingPoints {
		if w.IO.Quit {
			return nil
		}
		if err := w.walkOne(start); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkOne(start string) error {
	w.IO.StartingPoint = start
	e := fsentry.New(start, 0, w.Config.Follow, true)
	return w.visit(e)
}

// visit evaluates the matcher tree against e (if depth is within bounds)
// then, for directories, recurses into its children, honoring -d/-depth's
// report-after-contents ordering and a -prune/-delete skip.
func (w *Walker) visit(e *fsentry.Entry) error {
	typ, typErr := e.FileType()
	isDir := typErr == nil && typ == fsentry.Directory

	inRange := (!w.Config.HasMin || e.Depth() >= w.Config.MinDepth) &&
		(!w.Config.HasMax || e.Depth() <= w.Config.MaxDepth)

	if !w.Config.DepthFirst && inRange {
		if err := w.evaluate(e); err != nil {
			return err
		}
		if w.IO.Quit {
			return nil
		}
	}

	descend := isDir && !w.IO.Skip && (!w.Config.HasMax || e.Depth() < w.Config.MaxDepth)
	w.IO.Skip = false

	if descend {
		if err := w.descendInto(e); err != nil {
			return err
		}
		if w.IO.Quit {
			return nil
		}
	}

	if w.Config.DepthFirst && inRange {
		if err := w.evaluate(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) reportErr(path string, err error) {
	if w.IO.Diag != nil {
		w.IO.Diag.Report(path, err)
	}
}

func (w *Walker) evaluate(e *fsentry.Entry) error {
	_, err := w.Root.Matches(e, w.IO)
	return err
}

func (w *Walker) descendInto(e *fsentry.Entry) error {
	f, err := os.Open(e.Path())
	if err != nil {
		w.reportErr(e.Path(), fsentry.NewWalkErrorAt(e.Path(), e.Depth(), err))
		return nil
	}
	names, err := f.Readdirnames(-1)
	f.Close()
	if err != nil {
		w.reportErr(e.Path(), fsentry.NewWalkErrorAt(e.Path(), e.Depth(), err))
		return nil
	}
	sort.Strings(names)
	for _, name := range names {
		child := fsentry.New(filepath.Join(e.Path(), name), e.Depth()+1, w.Config.Follow, false)
		if err := w.visit(child); err != nil {
			return err
		}
		if w.IO.Quit {
			return nil
		}
	}
	return nil
}
