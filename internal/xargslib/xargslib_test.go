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

package xargslib

import (
	"bytes"
	"strings"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type xargsTestSuite struct{}

var _ = check.Suite(&xargsTestSuite{})

func (s *xargsTestSuite) TestReadWhitespaceDelimited(c *check.C) {
	words, err := ReadWhitespaceDelimited(strings.NewReader(`foo "bar baz" qux`))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{"foo", "bar baz", "qux"})
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedHashIsNotAComment(c *check.C) {
	words, err := ReadWhitespaceDelimited(strings.NewReader("foo #bar baz\n"))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{"foo", "#bar", "baz"})
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedNoEscapeInsideDoubleQuotes(c *check.C) {
	words, err := ReadWhitespaceDelimited(strings.NewReader(`"a\b"`))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{`a\b`})
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedNoEscapeInsideSingleQuotes(c *check.C) {
	words, err := ReadWhitespaceDelimited(strings.NewReader(`'a\b'`))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{`a\b`})
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedBackslashEscapesOutsideQuotes(c *check.C) {
	words, err := ReadWhitespaceDelimited(strings.NewReader(`a\ b`))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{"a b"})
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedUnterminatedQuoteErrors(c *check.C) {
	_, err := ReadWhitespaceDelimited(strings.NewReader(`"unterminated`))
	c.Assert(err, check.ErrorMatches, ".*unterminated quote.*")
}

func (s *xargsTestSuite) TestReadWhitespaceDelimitedWordsHardSoftTermination(c *check.C) {
	words, err := ReadWhitespaceDelimitedWords(strings.NewReader("a b\nc"))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []Word{
		{Text: "a", Hard: false},
		{Text: "b", Hard: true},
		{Text: "c", Hard: false},
	})
}

func (s *xargsTestSuite) TestReadNullDelimited(c *check.C) {
	words, err := ReadNullDelimited(bytes.NewReader([]byte("a\x00b\x00c\x00")))
	c.Assert(err, check.IsNil)
	c.Assert(words, check.DeepEquals, []string{"a", "b", "c"})
}

func (s *xargsTestSuite) TestBatcherMaxArgs(c *check.C) {
	b := NewBatcher(nil, Limits{MaxArgs: 2})
	c.Assert(b.Add("a"), check.IsNil)
	c.Assert(b.Add("b"), check.IsNil)
	flushed := b.Add("c")
	c.Assert(flushed, check.DeepEquals, []string{"a", "b"})
	c.Assert(b.Flush(), check.DeepEquals, []string{"c"})
}

func (s *xargsTestSuite) TestBatcherCharBudget(c *check.C) {
	b := NewBatcher(nil, Limits{MaxChars: 5})
	c.Assert(b.Add("ab"), check.IsNil)
	flushed := b.Add("cd")
	c.Assert(flushed, check.DeepEquals, []string{"ab"})
}

func (s *xargsTestSuite) TestRunnerSuccess(c *check.C) {
	r := &Runner{Command: []string{"true"}}
	outcome, code, err := r.Run(nil)
	c.Assert(err, check.IsNil)
	c.Assert(outcome, check.Equals, OutcomeSuccess)
	c.Assert(code, check.Equals, 0)
	c.Assert(r.FinalExitCode(), check.Equals, ExitSuccess)
}

func (s *xargsTestSuite) TestRunnerFailureMapsTo123(c *check.C) {
	r := &Runner{Command: []string{"false"}}
	outcome, _, err := r.Run(nil)
	c.Assert(err, check.IsNil)
	c.Assert(outcome, check.Equals, OutcomeFailure)
	c.Assert(r.FinalExitCode(), check.Equals, ExitSomeFailed)
}

func (s *xargsTestSuite) TestRunnerNotFoundMapsTo127(c *check.C) {
	r := &Runner{Command: []string{"definitely-not-a-real-command-xyz"}}
	outcome, _, err := r.Run(nil)
	c.Assert(err, check.IsNil)
	c.Assert(outcome, check.Equals, OutcomeNotFound)
	c.Assert(r.FinalExitCode(), check.Equals, ExitNotFound)
}

func (s *xargsTestSuite) TestRunnerUrgentFailureMapsTo124(c *check.C) {
	r := &Runner{Command: []string{"sh", "-c", "exit 255"}}
	outcome, code, err := r.Run(nil)
	c.Assert(err, check.IsNil)
	c.Assert(outcome, check.Equals, OutcomeUrgentlyFailed)
	c.Assert(code, check.Equals, 255)
	c.Assert(r.FinalExitCode(), check.Equals, ExitUrgentlyDied)
	c.Assert(ShouldAbort(outcome), check.Equals, true)
}
