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

	"github.com/anonymouse64/gofindutils/internal/execrunner"
	check "gopkg.in/check.v1"
)

func newBatchExec(c *check.C) *BatchExec {
	tmpl := &execrunner.Template{Argv: []string{"echo", execrunner.Placeholder}, Batched: true}
	var out, errOut bytes.Buffer
	b, err := execrunner.NewBatcher(tmpl, 4096, &out, &errOut)
	c.Assert(err, check.IsNil)
	return &BatchExec{Batcher: b}
}

func (s *actionsTestSuite) TestCollectBatchExecsFindsNestedNode(c *check.C) {
	leaf := newBatchExec(c)
	root := &And{Matchers: []Matcher{
		&Or{Groups: []Matcher{
			&Not{Inner: &List{Matchers: []Matcher{leaf}}},
		}},
	}}

	found := CollectBatchExecs(root)
	c.Assert(found, check.HasLen, 1)
	c.Assert(found[0], check.Equals, leaf)
}

func (s *actionsTestSuite) TestCollectBatchExecsEmptyForPlainTree(c *check.C) {
	root := &And{Matchers: []Matcher{&Print{Terminator: '\n'}}}
	found := CollectBatchExecs(root)
	c.Assert(found, check.HasLen, 0)
}
