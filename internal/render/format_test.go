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

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonymouse64/gofindutils/internal/fsentry"
	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type renderTestSuite struct {
	tmpDir string
}

var _ = check.Suite(&renderTestSuite{})

func (s *renderTestSuite) SetUpTest(c *check.C) {
	s.tmpDir = c.MkDir()
}

func (s *renderTestSuite) TestCompileLiteralAndDirective(c *check.C) {
	comp, err := Compile("%p\\n")
	c.Assert(err, check.IsNil)
	c.Assert(comp.components, check.HasLen, 2)
}

func (s *renderTestSuite) TestRenderPathAndFileName(c *check.C) {
	comp, err := Compile("%f %p")
	c.Assert(err, check.IsNil)
	e := fsentry.New(s.tmpDir+"/x", 0, fsentry.FollowNever, true)
	var buf bytes.Buffer
	_, err = comp.Render(&buf, e, Ctx{StartingPoint: s.tmpDir})
	c.Assert(err, check.IsNil)
	c.Assert(buf.String(), check.Equals, "x "+s.tmpDir+"/x")
}

func (s *renderTestSuite) TestWidthPadding(c *check.C) {
	comp, err := Compile("%10f|")
	c.Assert(err, check.IsNil)
	e := fsentry.New("ab", 0, fsentry.FollowNever, true)
	var buf bytes.Buffer
	_, err = comp.Render(&buf, e, Ctx{})
	c.Assert(err, check.IsNil)
	c.Assert(buf.String(), check.Equals, "        ab|")
}

func (s *renderTestSuite) TestFlushMarker(c *check.C) {
	comp, err := Compile("hi\\cthere")
	c.Assert(err, check.IsNil)
	e := fsentry.New("ab", 0, fsentry.FollowNever, true)
	var buf bytes.Buffer
	flushed, err := comp.Render(&buf, e, Ctx{})
	c.Assert(err, check.IsNil)
	c.Assert(flushed, check.Equals, true)
	c.Assert(buf.String(), check.Equals, "hithere")
}

func (s *renderTestSuite) TestStripStartingPoint(c *check.C) {
	c.Assert(stripStartingPoint("/a/b/c", "/a/b"), check.Equals, "c")
	c.Assert(stripStartingPoint("/a/b", "/a/b"), check.Equals, ".")
	c.Assert(stripStartingPoint("/a/b/c", ""), check.Equals, "/a/b/c")
}

func (s *renderTestSuite) TestDirNameDirective(c *check.C) {
	c.Assert(dirName("/"), check.Equals, "")
	c.Assert(dirName("."), check.Equals, ".")
	c.Assert(dirName("foo.txt"), check.Equals, ".")
	c.Assert(dirName("/foo.txt"), check.Equals, "/")
	c.Assert(dirName("/a/b/c"), check.Equals, "/a/b")

	comp, err := Compile("%h")
	c.Assert(err, check.IsNil)

	for _, path := range []string{"/", ".", "foo.txt"} {
		e := fsentry.New(path, 0, fsentry.FollowNever, true)
		var buf bytes.Buffer
		_, err = comp.Render(&buf, e, Ctx{})
		c.Assert(err, check.IsNil)
		c.Assert(buf.String(), check.Equals, dirName(path), check.Commentf("path=%s", path))
	}
}

func (s *renderTestSuite) TestFollowedTypeLetterDirective(c *check.C) {
	target := filepath.Join(s.tmpDir, "target")
	c.Assert(os.WriteFile(target, []byte("x"), 0644), check.IsNil)
	link := filepath.Join(s.tmpDir, "link")
	c.Assert(os.Symlink(target, link), check.IsNil)

	comp, err := Compile("%y%Y")
	c.Assert(err, check.IsNil)

	e := fsentry.New(link, 0, fsentry.FollowNever, true)
	var buf bytes.Buffer
	_, err = comp.Render(&buf, e, Ctx{})
	c.Assert(err, check.IsNil)
	c.Assert(buf.String(), check.Equals, "lf")

	dangling := filepath.Join(s.tmpDir, "dangling")
	c.Assert(os.Symlink(filepath.Join(s.tmpDir, "does-not-exist"), dangling), check.IsNil)
	e2 := fsentry.New(dangling, 0, fsentry.FollowNever, true)
	var buf2 bytes.Buffer
	_, err = comp.Render(&buf2, e2, Ctx{})
	c.Assert(err, check.IsNil)
	c.Assert(buf2.String(), check.Equals, "lN")

	loop := filepath.Join(s.tmpDir, "loop")
	c.Assert(os.Symlink(loop, loop), check.IsNil)
	e3 := fsentry.New(loop, 0, fsentry.FollowNever, true)
	var buf3 bytes.Buffer
	_, err = comp.Render(&buf3, e3, Ctx{})
	c.Assert(err, check.IsNil)
	c.Assert(buf3.String(), check.Equals, "lL")
}

func (s *renderTestSuite) TestLsBlockCountRoundsUpToMultipleOfFour(c *check.C) {
	tt := []struct {
		size   int64
		blocks int64
	}{
		{size: 0, blocks: 4},
		{size: 100, blocks: 4},
		{size: 4096, blocks: 4},
		{size: 5000, blocks: 8},
	}
	for _, t := range tt {
		c.Assert(allocatedBlocks(t.size), check.Equals, t.blocks, check.Commentf("size=%d", t.size))
	}

	f := filepath.Join(s.tmpDir, "sized")
	c.Assert(os.WriteFile(f, make([]byte, 100), 0644), check.IsNil)
	e := fsentry.New(f, 0, fsentry.FollowNever, true)
	var buf bytes.Buffer
	c.Assert(Ls(&buf, e, Ctx{}), check.IsNil)
	c.Assert(strings.Contains(buf.String(), "   4 "), check.Equals, true, check.Commentf("ls line: %q", buf.String()))
}
