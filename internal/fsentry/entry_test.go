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

package fsentry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type entryTestSuite struct {
	tmpDir string
}

var _ = check.Suite(&entryTestSuite{})

func (s *entryTestSuite) SetUpTest(c *check.C) {
	s.tmpDir = c.MkDir()
}

func (s *entryTestSuite) TestMetadataCachedAfterFirstLookup(c *check.C) {
	fname := filepath.Join(s.tmpDir, "a.txt")
	c.Assert(os.WriteFile(fname, []byte("hello"), 0644), check.IsNil)

	e := fsentry.New(fname, 0, fsentry.FollowNever, true)
	m1, err := e.Metadata()
	c.Assert(err, check.IsNil)
	c.Check(m1.Type, check.Equals, fsentry.Regular)
	c.Check(m1.Size, check.Equals, int64(5))

	// remove the file; cached metadata must not change.
	c.Assert(os.Remove(fname), check.IsNil)
	m2, err := e.Metadata()
	c.Assert(err, check.IsNil)
	c.Check(m2, check.Equals, m1)
}

func (s *entryTestSuite) TestDepthNonNegativeAndFileName(c *check.C) {
	e := fsentry.New("/a/b/c", 2, fsentry.FollowNever, false)
	c.Check(e.Depth() >= 0, check.Equals, true)
	c.Check(e.FileName(), check.Equals, "c")
}

func (s *entryTestSuite) TestDirectoryType(c *check.C) {
	e := fsentry.New(s.tmpDir, 0, fsentry.FollowNever, true)
	typ, err := e.FileType()
	c.Assert(err, check.IsNil)
	c.Check(typ, check.Equals, fsentry.Directory)
}

func (s *entryTestSuite) TestBrokenSymlinkBecomesExplicitEntry(c *check.C) {
	link := filepath.Join(s.tmpDir, "broken")
	c.Assert(os.Symlink(filepath.Join(s.tmpDir, "does-not-exist"), link), check.IsNil)

	e := fsentry.New(link, 0, fsentry.FollowAlways, false)
	_, err := e.FileType()
	c.Assert(err, check.NotNil)

	broken := e.AsBrokenLink()
	typ, err := broken.FileType()
	c.Assert(err, check.IsNil)
	c.Check(typ, check.Equals, fsentry.Symlink)
}

func (s *entryTestSuite) TestParseTypeLetter(c *check.C) {
	tt := []struct {
		letter   byte
		expected fsentry.FileType
		ok       bool
	}{
		{'f', fsentry.Regular, true},
		{'d', fsentry.Directory, true},
		{'l', fsentry.Symlink, true},
		{'z', fsentry.Unknown, false},
	}
	for _, t := range tt {
		typ, ok := fsentry.ParseTypeLetter(t.letter)
		c.Check(typ, check.Equals, t.expected)
		c.Check(ok, check.Equals, t.ok)
	}
}
