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
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/anonymouse64/gofindutils/internal/diag"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/mountinfo"
	"github.com/anonymouse64/gofindutils/internal/render"
	check "gopkg.in/check.v1"
)

type actionsTestSuite struct {
	tmpDir string
}

var _ = check.Suite(&actionsTestSuite{})

func (s *actionsTestSuite) SetUpTest(c *check.C) {
	s.tmpDir = c.MkDir()
}

func (s *actionsTestSuite) TestPrintWritesPathAndTerminator(c *check.C) {
	var buf bytes.Buffer
	mio := NewIO(&buf, nil, &diag.Flag{})
	e := fsentry.New("/a/b", 0, fsentry.FollowNever, true)
	p := &Print{Terminator: '\n'}
	ok, err := p.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	c.Assert(buf.String(), check.Equals, "/a/b\n")
}

func (s *actionsTestSuite) TestPruneSetsSkip(c *check.C) {
	mio := NewIO(nil, nil, &diag.Flag{})
	e := fsentry.New("/a", 0, fsentry.FollowNever, true)
	p := &Prune{}
	ok, _ := p.Matches(e, mio)
	c.Assert(ok, check.Equals, true)
	c.Assert(mio.Skip, check.Equals, true)
}

func (s *actionsTestSuite) TestQuitSetsQuit(c *check.C) {
	mio := NewIO(nil, nil, &diag.Flag{})
	e := fsentry.New("/a", 0, fsentry.FollowNever, true)
	q := &Quit{}
	q.Matches(e, mio)
	c.Assert(mio.Quit, check.Equals, true)
}

func (s *actionsTestSuite) TestDeleteRemovesFile(c *check.C) {
	path := filepath.Join(s.tmpDir, "f")
	c.Assert(os.WriteFile(path, []byte("x"), 0o644), check.IsNil)
	mio := NewIO(nil, nil, &diag.Flag{})
	e := fsentry.New(path, 0, fsentry.FollowNever, true)
	d := &Delete{}
	ok, err := d.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	_, statErr := os.Stat(path)
	c.Assert(os.IsNotExist(statErr), check.Equals, true)
}

func (s *actionsTestSuite) TestPrintfUsesWalkStartingPointAndMounts(c *check.C) {
	compiled, err := render.Compile("%P\n")
	c.Assert(err, check.IsNil)

	var buf bytes.Buffer
	mio := NewIO(&buf, nil, &diag.Flag{})
	mio.Now = func() time.Time { return time.Unix(0, 0) }
	mio.Mounts = &mountinfo.Cache{}
	mio.StartingPoint = "/a"

	e := fsentry.New("/a/b/c", 0, fsentry.FollowNever, true)
	pf := &Printf{Compiled: compiled}
	ok, err := pf.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	c.Assert(buf.String(), check.Equals, "b/c\n")
}

func (s *actionsTestSuite) TestDeleteRefusesDotAndStillMatches(c *check.C) {
	cwd, err := os.Getwd()
	c.Assert(err, check.IsNil)
	c.Assert(os.Chdir(s.tmpDir), check.IsNil)
	defer os.Chdir(cwd)

	mio := NewIO(nil, diag.New(nil, false), &diag.Flag{})
	e := fsentry.New(".", 0, fsentry.FollowNever, true)
	d := &Delete{}
	ok, err := d.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	c.Assert(mio.ExitFlag.Code(), check.Equals, 0)

	_, statErr := os.Stat(s.tmpDir)
	c.Assert(statErr, check.IsNil)
}

func (s *actionsTestSuite) TestDeleteDotThenPrintStillPrints(c *check.C) {
	cwd, err := os.Getwd()
	c.Assert(err, check.IsNil)
	c.Assert(os.Chdir(s.tmpDir), check.IsNil)
	defer os.Chdir(cwd)

	var buf bytes.Buffer
	mio := NewIO(&buf, diag.New(nil, false), &diag.Flag{})
	e := fsentry.New(".", 0, fsentry.FollowNever, true)
	root := &And{Matchers: []Matcher{&Delete{}, &Print{Terminator: '\n'}}}
	ok, err := root.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	c.Assert(buf.String(), check.Equals, ".\n")

	_, statErr := os.Stat(s.tmpDir)
	c.Assert(statErr, check.IsNil)
}

func (s *actionsTestSuite) TestDeleteDirectorySetsSkip(c *check.C) {
	dir := filepath.Join(s.tmpDir, "d")
	c.Assert(os.Mkdir(dir, 0o755), check.IsNil)
	mio := NewIO(nil, nil, &diag.Flag{})
	e := fsentry.New(dir, 0, fsentry.FollowNever, true)
	d := &Delete{}
	ok, err := d.Matches(e, mio)
	c.Assert(err, check.IsNil)
	c.Assert(ok, check.Equals, true)
	c.Assert(mio.Skip, check.Equals, true)
}
