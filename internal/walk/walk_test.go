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

package walk

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonymouse64/gofindutils/internal/diag"
	"github.com/anonymouse64/gofindutils/internal/expr"
	"github.com/anonymouse64/gofindutils/internal/fsentry"
	"github.com/anonymouse64/gofindutils/internal/matchers"
	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type walkTestSuite struct {
	tmpDir string
}

var _ = check.Suite(&walkTestSuite{})

func (s *walkTestSuite) SetUpTest(c *check.C) {
	s.tmpDir = c.MkDir()
	c.Assert(os.Mkdir(filepath.Join(s.tmpDir, "sub"), 0o755), check.IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.tmpDir, "a.txt"), []byte("x"), 0o644), check.IsNil)
	c.Assert(os.WriteFile(filepath.Join(s.tmpDir, "sub", "b.txt"), []byte("y"), 0o644), check.IsNil)
}

func (s *walkTestSuite) TestVisitsAllEntries(c *check.C) {
	var buf bytes.Buffer
	mio := matchers.NewIO(&buf, diag.New(nil, false), &diag.Flag{})
	cfg := expr.NewConfig()
	cfg.StartingPoints = []string{s.tmpDir}
	root := &matchers.And{Matchers: []matchers.Matcher{&matchers.Print{Terminator: '\n'}}}
	w := &Walker{Config: cfg, Root: root, IO: mio}
	c.Assert(w.Run(), check.IsNil)
	out := buf.String()
	c.Assert(strings.Contains(out, "a.txt"), check.Equals, true)
	c.Assert(strings.Contains(out, "b.txt"), check.Equals, true)
}

func (s *walkTestSuite) TestMaxDepthLimitsDescent(c *check.C) {
	var buf bytes.Buffer
	mio := matchers.NewIO(&buf, diag.New(nil, false), &diag.Flag{})
	cfg := expr.NewConfig()
	cfg.StartingPoints = []string{s.tmpDir}
	cfg.MaxDepth = 0
	cfg.HasMax = true
	root := &matchers.And{Matchers: []matchers.Matcher{&matchers.Print{Terminator: '\n'}}}
	w := &Walker{Config: cfg, Root: root, IO: mio}
	c.Assert(w.Run(), check.IsNil)
	c.Assert(strings.Contains(buf.String(), "a.txt"), check.Equals, false)
}

func (s *walkTestSuite) TestPruneStopsDescent(c *check.C) {
	var buf bytes.Buffer
	mio := matchers.NewIO(&buf, diag.New(nil, false), &diag.Flag{})
	cfg := expr.NewConfig()
	cfg.StartingPoints = []string{s.tmpDir}
	name, err := matchers.NewName("sub", false)
	c.Assert(err, check.IsNil)
	root := &matchers.Or{Groups: []matchers.Matcher{
		&matchers.And{Matchers: []matchers.Matcher{name, &matchers.Prune{}}},
		&matchers.Print{Terminator: '\n'},
	}}
	w := &Walker{Config: cfg, Root: root, IO: mio}
	c.Assert(w.Run(), check.IsNil)
	c.Assert(strings.Contains(buf.String(), "b.txt"), check.Equals, false)
}

// probeStartingPoint records every IO.StartingPoint value it observes,
// so a test can assert the walker actually populates it per spec.md's
// %P/%h/%F rendering requirements rather than leaving it zero-valued.
type probeStartingPoint struct {
	seen []string
}

func (p *probeStartingPoint) Matches(e *fsentry.Entry, mio *matchers.IO) (bool, error) {
	p.seen = append(p.seen, mio.StartingPoint)
	return true, nil
}

func (p *probeStartingPoint) HasSideEffects() bool { return false }

func (s *walkTestSuite) TestStartingPointIsPropagatedToMatcherIO(c *check.C) {
	mio := matchers.NewIO(nil, diag.New(nil, false), &diag.Flag{})
	cfg := expr.NewConfig()
	cfg.StartingPoints = []string{s.tmpDir}
	probe := &probeStartingPoint{}
	root := &matchers.And{Matchers: []matchers.Matcher{probe, &matchers.Print{Terminator: '\n'}}}
	mio.Out = &bytes.Buffer{}
	w := &Walker{Config: cfg, Root: root, IO: mio}
	c.Assert(w.Run(), check.IsNil)
	c.Assert(len(probe.seen) > 0, check.Equals, true)
	for _, sp := range probe.seen {
		c.Assert(sp, check.Equals, s.tmpDir)
	}
}

func (s *walkTestSuite) TestQuitStopsWalk(c *check.C) {
	var buf bytes.Buffer
	mio := matchers.NewIO(&buf, diag.New(nil, false), &diag.Flag{})
	cfg := expr.NewConfig()
	cfg.StartingPoints = []string{s.tmpDir}
	root := &matchers.And{Matchers: []matchers.Matcher{&matchers.Quit{}}}
	w := &Walker{Config: cfg, Root: root, IO: mio}
	c.Assert(w.Run(), check.IsNil)
}
