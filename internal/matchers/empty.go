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
	"os"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
)

// Empty matches zero-length regular files and directories with no entries.
type Empty struct{}

func (*Empty) Matches(e *fsentry.Entry, mio *IO) (bool, error) {
	typ, err := e.FileType()
	if err != nil {
		mio.reportErr(e.Path(), err)
		return false, nil
	}
	switch typ {
	case fsentry.Regular:
		m, err := e.Metadata()
		if err != nil {
			mio.reportErr(e.Path(), err)
			return false, nil
		}
		return m.Size == 0, nil
	case fsentry.Directory:
		f, err := os.Open(e.Path())
		if err != nil {
			mio.reportErr(e.Path(), err)
			return false, nil
		}
		defer f.Close()
		names, err := f.Readdirnames(1)
		if err != nil && len(names) == 0 {
			return true, nil
		}
		return len(names) == 0, nil
	default:
		return false, nil
	}
}

func (*Empty) HasSideEffects() bool { return false }
