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

package frcode

import (
	"bytes"
	"io"
	"strings"
	"testing"

	check "gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type frcodeTestSuite struct{}

var _ = check.Suite(&frcodeTestSuite{})

func (s *frcodeTestSuite) TestRoundTrip(c *check.C) {
	paths := []string{
		"/a/b/c",
		"/a/b/d",
		"/a/bb",
		"/a/c",
		"/zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz/q",
	}
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf)
	c.Assert(err, check.IsNil)
	for _, p := range paths {
		c.Assert(enc.Put(p), check.IsNil)
	}
	c.Assert(enc.Flush(), check.IsNil)
	c.Assert(strings.HasPrefix(buf.String(), Header), check.Equals, true)

	dec, err := NewDecoder(&buf)
	c.Assert(err, check.IsNil)
	var got []string
	for {
		p, err := dec.Next()
		if err == io.EOF {
			break
		}
		c.Assert(err, check.IsNil)
		got = append(got, p)
	}
	c.Assert(got, check.DeepEquals, paths)
}

func (s *frcodeTestSuite) TestBadHeaderRejected(c *check.C) {
	_, err := NewDecoder(strings.NewReader("not-a-db"))
	c.Assert(err, check.Equals, ErrBadHeader)
}

func (s *frcodeTestSuite) TestExtendedDeltaForLongShrink(c *check.C) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf)
	c.Assert(err, check.IsNil)
	c.Assert(enc.Put(strings.Repeat("a", 200)), check.IsNil)
	c.Assert(enc.Put("b"), check.IsNil)
	c.Assert(enc.Flush(), check.IsNil)

	dec, err := NewDecoder(&buf)
	c.Assert(err, check.IsNil)
	first, err := dec.Next()
	c.Assert(err, check.IsNil)
	c.Assert(first, check.Equals, strings.Repeat("a", 200))
	second, err := dec.Next()
	c.Assert(err, check.IsNil)
	c.Assert(second, check.Equals, "b")
}
