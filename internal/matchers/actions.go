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
	"io"
	"os"

	"github.com/anonymouse64/gofindutils/internal/diag"
	"github.com/anonymouse64/gofindutils/internal/execrunner"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/render"
)

// Print writes the entry's path followed by a terminator (newline for
// -print, NUL for -print0) to Out (mio.Out when Out is nil, the -fprint
// destination file opened by the expr parser otherwise). A write
// failure raises the process's shared exit flag rather than aborting the
// walk, matching find(1)'s "keep going, report non-zero at the end"
// behavior.
type Print struct {
	Terminator byte
	Out        io.Writer
}

func (p *Print) out(mio *IO) io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return mio.Out
}

func (p *Print) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	_, err := fmt.Fprintf(p.out(mio), "%s%c", e.Path(), p.Terminator)
	if err != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), err)
	}
	return true, nil
}

func (p *Print) HasSideEffects() bool { return true }

// Printf renders a compiled -printf/-fprintf format string for the
// entry, to Out when set (the -fprintf destination file) or mio.Out.
type Printf struct {
	Compiled *render.Compiled
	Ctx      render.Ctx
	Out      io.Writer
}

func (pf *Printf) out(mio *IO) io.Writer {
	if pf.Out != nil {
		return pf.Out
	}
	return mio.Out
}

func (pf *Printf) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	ctx := pf.Ctx
	ctx.Now = mio.Now
	ctx.Mounts = mio.Mounts
	ctx.StartingPoint = mio.StartingPoint
	out := pf.out(mio)
	flushed, err := pf.Compiled.Render(out, e, ctx)
	if err != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), err)
		return true, nil
	}
	if flushed {
		if f, ok := out.(interface{ Sync() error }); ok {
			_ = f.Sync()
		}
	}
	return true, nil
}

func (pf *Printf) HasSideEffects() bool { return true }

// Ls renders a -ls/-fls row for the entry, to Out when set (the -fls
// destination file) or mio.Out.
type Ls struct {
	Ctx render.Ctx
	Out io.Writer
}

func (l *Ls) out(mio *IO) io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return mio.Out
}

func (l *Ls) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	ctx := l.Ctx
	ctx.Now = mio.Now
	ctx.Mounts = mio.Mounts
	ctx.StartingPoint = mio.StartingPoint
	if err := render.Ls(l.out(mio), e, ctx); err != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), err)
	}
	return true, nil
}

func (l *Ls) HasSideEffects() bool { return true }

// Delete removes the entry's file (unlink for non-directories, rmdir for
// empty directories). -delete implies never descending into a directory
// that was just removed, which the traversal driver enforces by checking
// IO.Skip after this matcher runs (set whenever the removed entry was a
// directory). As a special case, "." (the literal starting point) is
// never removed: os.Remove(".") always fails, and GNU find documents the
// same refusal, so this matcher reports success without touching the
// filesystem instead of letting the failure suppress a trailing -print.
type Delete struct{}

func (d *Delete) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	// "." is never actually removed (matching GNU find's documented
	// special case for -delete): os.Remove(".") always fails on Linux,
	// and removing the starting point out from under the walk makes no
	// sense anyway. Report success so a trailing -print still runs.
	if e.Path() == "." {
		mio.noteDiag(e.Path(), "-delete: refusing to remove \".\"")
		return true, nil
	}

	ft, err := e.FileType()
	if err == nil && ft == fsentry.Directory {
		if rerr := os.Remove(e.Path()); rerr != nil {
			mio.ExitFlag.Raise(1)
			mio.reportErr(e.Path(), rerr)
			return false, nil
		}
		mio.Skip = true
		return true, nil
	}
	if rerr := os.Remove(e.Path()); rerr != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), rerr)
		return false, nil
	}
	return true, nil
}

func (d *Delete) HasSideEffects() bool { return true }

// Prune stops descent into the current directory without affecting the
// boolean result of the expression containing it: the walk driver checks
// IO.Skip, exactly as it does for Delete.
type Prune struct{}

func (p *Prune) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	mio.Skip = true
	return true, nil
}

func (p *Prune) HasSideEffects() bool { return true }

// Quit stops the walk entirely after this entry.
type Quit struct{}

func (q *Quit) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	mio.Quit = true
	return true, nil
}

func (q *Quit) HasSideEffects() bool { return true }

// Exec runs a single -exec/-execdir/-ok/-okdir command line, substituting
// the entry's path for "{}".
type Exec struct {
	Template *execrunner.Template
	Confirm  bool // -ok/-okdir: prompt before running
	In       interface {
		Read([]byte) (int, error)
	}
}

func (ex *Exec) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	if ex.Confirm {
		prompt := fmt.Sprintf("%v ? ", ex.Template.Argv)
		ok, err := execrunner.Confirm(prompt, ex.In, mio.Out)
		if err != nil {
			mio.reportErr(e.Path(), err)
			return false, nil
		}
		if !ok {
			return false, nil
		}
	}
	ok, err := execrunner.Single(ex.Template, e.Path(), ex.In, mio.Out, os.Stderr)
	if err != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return ok, nil
}

func (ex *Exec) HasSideEffects() bool { return true }

// BatchExec accumulates entries for a "-exec ... +" command line, running
// in batches as the walk driver feeds it matching entries; it is wired
// directly into the expression tree like any other Matcher, but also
// exposes Flush for cmd/find to call once traversal completes.
type BatchExec struct {
	Batcher *execrunner.Batcher
}

func (be *BatchExec) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	if err := be.Batcher.Add(e.Path()); err != nil {
		mio.ExitFlag.Raise(1)
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	return true, nil
}

func (be *BatchExec) HasSideEffects() bool { return true }

// Flush runs any remaining accumulated batch and raises the exit flag if
// any batch invocation failed.
func (be *BatchExec) Flush(exitFlag *diag.Flag) error {
	if err := be.Batcher.Flush(); err != nil {
		return err
	}
	if be.Batcher.Failures() > 0 {
		exitFlag.Raise(1)
	}
	return nil
}
