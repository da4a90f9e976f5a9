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

import "github.com/anonymouse64/gofindutils/internal/fsentry"

// And is an ordered list of sub-matchers; it short-circuits on the first
// one that returns false.
type And struct {
	Matchers []Matcher
}

func (a *And) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	for _, m := range a.Matchers {
		ok, err := m.Matches(e, mio)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if mio.Quit {
			return ok, nil
		}
	}
	return true, nil
}

func (a *And) HasSideEffects() bool {
	for _, m := range a.Matchers {
		if m.HasSideEffects() {
			return true
		}
	}
	return false
}

// Or is an ordered list of And-groups; it short-circuits on the first
// and-group that matches.
type Or struct {
	Groups []Matcher
}

func (o *Or) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	for _, g := range o.Groups {
		ok, err := g.Matches(e, mio)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if mio.Quit {
			return false, nil
		}
	}
	return false, nil
}

func (o *Or) HasSideEffects() bool {
	for _, g := range o.Groups {
		if g.HasSideEffects() {
			return true
		}
	}
	return false
}

// List is the comma operator: every operand evaluates (no short-circuit),
// and the value of the whole expression is the value of the last operand.
type List struct {
	Matchers []Matcher
}

func (l *List) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	var last bool
	var lastErr error
	for _, m := range l.Matchers {
		last, lastErr = m.Matches(e, mio)
		if mio.Quit {
			break
		}
	}
	return last, lastErr
}

func (l *List) HasSideEffects() bool {
	for _, m := range l.Matchers {
		if m.HasSideEffects() {
			return true
		}
	}
	return false
}

// Not negates the next primary.
type Not struct {
	Inner Matcher
}

func (n *Not) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	ok, err := n.Inner.Matches(e, mio)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n *Not) HasSideEffects() bool {
	return n.Inner.HasSideEffects()
}
