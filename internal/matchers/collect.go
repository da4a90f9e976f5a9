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

// CollectBatchExecs walks the matcher tree depth-first and returns every
// BatchExec node reachable from root, in the order they appear in the
// expression, so cmd/find can flush each "-exec ... +"
// accumulator once after traversal completes.
func CollectBatchExecs(root Matcher) []*BatchExec {
	var out []*BatchExec
	var visit func(Matcher)
	visit = func(m Matcher) {
		switch t := m.(type) {
		case *BatchExec:
			out = append(out, t)
		case *And:
			for _, c := range t.Matchers {
				visit(c)
			}
		case *Or:
			for _, c := range t.Groups {
				visit(c)
			}
		case *List:
			for _, c := range t.Matchers {
				visit(c)
			}
		case *Not:
			visit(t.Inner)
		}
	}
	visit(root)
	return out
}
