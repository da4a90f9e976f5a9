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

import "os"

// defaultArgMax is the conservative fallback used when the platform's
// real ARG_MAX cannot be queried; Linux's is usually 2097152.
const defaultArgMax = 128 * 1024

// envSize sums len(key)+1+len(value)+1 across the current environment,
// mirroring how the kernel charges environment strings against ARG_MAX.
func envSize() int {
	n := 0
	for _, kv := range os.Environ() {
		n += len(kv) + 1
	}
	return n
}

// Limits bounds how many argument words, command lines worth of bytes,
// and total characters a single xargs invocation may accumulate before
// it must flush, mirroring -n/-s/-L/-l/-P request semantics.
type Limits struct {
	MaxArgs  int // -n: max words per invocation, 0 = unbounded
	MaxLines int // -L: max input lines consumed per invocation, 0 = unbounded
	MaxChars int // -s: max total command-line bytes, 0 = use the ARG_MAX budget
}

// CharBudget returns the effective byte budget for one invocation: the
// explicit -s value if given, else ARG_MAX minus a safety margin and the
// current environment's size, per POSIX xargs' accounting.
func (l Limits) CharBudget() int {
	if l.MaxChars > 0 {
		return l.MaxChars
	}
	budget := defaultArgMax - 2048 - envSize()
	if budget < 4096 {
		budget = 4096
	}
	return budget
}

// Batcher groups a stream of argument words into invocation-sized
// batches honoring Limits, plus a fixed prefix (the initial-arguments
// template words preceding "{}"/appended words).
type Batcher struct {
	Limits Limits
	Prefix []string

	pending    []string
	usedChars  int
	prefixLen  int
	hardCount  int // hard-terminated words appended to pending, for -L
}

// NewBatcher returns a Batcher seeded with the prefix words' fixed cost.
func NewBatcher(prefix []string, limits Limits) *Batcher {
	n := 0
	for _, p := range prefix {
		n += len(p) + 1
	}
	return &Batcher{Limits: limits, Prefix: prefix, prefixLen: n}
}

// Add appends one word as if hard-terminated; kept for callers that
// don't distinguish hard/soft termination (e.g. -0/-d byte-delimited
// input, where every word is hard-terminated per spec.md §4.8.1).
func (b *Batcher) Add(word string) []string {
	return b.AddTerminated(word, true)
}

// AddTerminated appends one word, classified as hard- or
// soft-terminated (spec.md's glossary entry), returning a completed
// batch if adding it would overflow the configured limits (the word
// itself starts the next batch), or nil if there's still room. Every
// limiter consults the word before mutating state, so a rejection
// leaves the batcher's accumulated state untouched (spec.md §4.8.2).
func (b *Batcher) AddTerminated(word string, hard bool) []string {
	wordCost := len(word) + 1
	budget := b.Limits.CharBudget()

	overflowsChars := b.prefixLen+b.usedChars+wordCost > budget
	overflowsArgs := b.Limits.MaxArgs > 0 && len(b.pending) >= b.Limits.MaxArgs
	overflowsLines := b.Limits.MaxLines > 0 && b.hardCount >= b.Limits.MaxLines

	if len(b.pending) > 0 && (overflowsChars || overflowsArgs || overflowsLines) {
		flushed := b.pending
		b.pending = []string{word}
		b.usedChars = wordCost
		b.hardCount = 0
		if hard {
			b.hardCount = 1
		}
		return flushed
	}
	b.pending = append(b.pending, word)
	b.usedChars += wordCost
	if hard {
		b.hardCount++
	}
	return nil
}

// FitsAlone reports whether word could ever fit in a batch by itself
// given this batcher's prefix and char budget; false means even a fresh
// batch containing only word would overflow, the "argument too large"
// fatal condition spec.md §4.8.3 describes for both initial-argv
// construction and `-x`'s stricter rejection handling.
func (b *Batcher) FitsAlone(word string) bool {
	return b.prefixLen+len(word)+1 <= b.Limits.CharBudget()
}

// Flush returns and clears any remaining accumulated words.
func (b *Batcher) Flush() []string {
	if len(b.pending) == 0 {
		return nil
	}
	out := b.pending
	b.pending = nil
	b.usedChars = 0
	b.hardCount = 0
	return out
}
