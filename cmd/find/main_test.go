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

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type findScenarioSuite struct{}

var _ = check.Suite(&findScenarioSuite{})

// captureRun runs find's top-level dispatch with argv, capturing whatever
// it writes to os.Stdout (run's IO is hardwired to os.Stdout, matching
// cmd/find/main.go's real main, so the scenario tests swap the process
// stdout rather than threading a writer through).
func captureRun(c *check.C, argv []string) (string, int) {
	r, w, err := os.Pipe()
	c.Assert(err, check.IsNil)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	code := run(command{}, argv)

	c.Assert(w.Close(), check.IsNil)
	out, err := io.ReadAll(r)
	c.Assert(err, check.IsNil)
	os.Stdout = orig
	return string(out), code
}

// buildSimpleTree lays out the fixture spec.md §8 scenarios 1 and 2 use:
// a tree containing abbbc and, under a subdirectory, ABBBC.
func buildSimpleTree(c *check.C) string {
	root := c.MkDir()
	simple := filepath.Join(root, "simple")
	c.Assert(os.MkdirAll(filepath.Join(simple, "subdir"), 0755), check.IsNil)
	c.Assert(os.WriteFile(filepath.Join(simple, "abbbc"), []byte("x"), 0644), check.IsNil)
	c.Assert(os.WriteFile(filepath.Join(simple, "subdir", "ABBBC"), []byte("x"), 0644), check.IsNil)
	return simple
}

func (s *findScenarioSuite) TestNameMatchesOnlyExactCase(c *check.C) {
	simple := buildSimpleTree(c)
	out, code := captureRun(c, []string{simple, "-name", "a*c"})
	c.Assert(code, check.Equals, 0)
	c.Assert(out, check.Equals, simple+"/abbbc\n")
}

func (s *findScenarioSuite) TestINameMatchesBothCasesInWalkOrder(c *check.C) {
	simple := buildSimpleTree(c)
	out, code := captureRun(c, []string{simple, "-iname", "a*c"})
	c.Assert(code, check.Equals, 0)
	c.Assert(out, check.Equals, simple+"/abbbc\n"+simple+"/subdir/ABBBC\n")
}

// TestDeleteDotThenPrintLeavesDirectoryIntact covers spec.md §8 scenario 3:
// -delete implies -depth, so the file is visited (and deleted) before "."
// itself is; "." hits the dot-exception in Delete.Matches (it is never
// actually removed) and AND(Delete, Print) still runs -print for it,
// giving a trailing ".\n" line and leaving the directory in place.
func (s *findScenarioSuite) TestDeleteDotThenPrintLeavesDirectoryIntact(c *check.C) {
	dir := c.MkDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "afile"), []byte("x"), 0644), check.IsNil)

	cwd, err := os.Getwd()
	c.Assert(err, check.IsNil)
	c.Assert(os.Chdir(dir), check.IsNil)
	defer os.Chdir(cwd)

	out, code := captureRun(c, []string{".", "-delete", "-print"})
	c.Assert(code, check.Equals, 0)
	c.Assert(out, check.Equals, "afile\n.\n")

	entries, err := os.ReadDir(dir)
	c.Assert(err, check.IsNil)
	c.Assert(entries, check.HasLen, 0)

	_, statErr := os.Stat(dir)
	c.Assert(statErr, check.IsNil)
}
