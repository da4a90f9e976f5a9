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

// Command updatedb orchestrates a full-tree walk of --localpaths (and
// --netpaths, which bypass the --prunefs skip), excludes --prunepaths
// and --prunefs, sorts the resulting path list the way the search tool's
// -sorted mode would, and pipes it through internal/frcode to atomically
// write a LOCATE02 database (spec.md §4.9/§6).
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	flags "github.com/jessevdk/go-flags"
	"github.com/mattn/go-zglob"
	"github.com/sirupsen/logrus"

	"github.com/anonymouse64/gofindutils/internal/frcode"
	"github.com/anonymouse64/gofindutils/internal/mountinfo"
)

type command struct {
	LocalPaths string `long:"localpaths" description:"Space-separated list of directories to scan"`
	NetPaths   string `long:"netpaths" description:"Space-separated list of network directories to scan, exempt from --prunefs"`
	PrunePaths string `long:"prunepaths" description:"Space-separated list of literal or glob path patterns to exclude"`
	PruneFS    string `long:"prunefs" description:"Space-separated list of filesystem types to exclude"`
	Output     string `long:"output" short:"o" description:"Database file to write"`
	DBFormat   string `long:"dbformat" default:"LOCATE02" description:"On-disk database format (only LOCATE02 is supported)"`
}

const defaultOutput = "/var/lib/locatedb/locate.db"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var cmd command
	parser := flags.NewParser(&cmd, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	os.Exit(run(cmd))
}

func fields(s string) []string {
	return strings.Fields(s)
}

func run(cmd command) int {
	logger := logrus.StandardLogger()

	if cmd.DBFormat != "" && cmd.DBFormat != "LOCATE02" {
		logger.Errorf("updatedb: unsupported --dbformat %q, only LOCATE02 is implemented", cmd.DBFormat)
		return 1
	}

	local := fields(cmd.LocalPaths)
	if len(local) == 0 {
		local = []string{"/"}
	}
	net := fields(cmd.NetPaths)
	prunePaths := fields(cmd.PrunePaths)
	pruneFS := fields(cmd.PruneFS)

	out := cmd.Output
	if out == "" {
		out = defaultOutput
	}

	b := &builder{
		prunePaths: prunePaths,
		pruneFS:    pruneFS,
		mounts:     &mountinfo.Cache{},
		logger:     logger,
	}

	var paths []string
	for _, p := range local {
		paths = append(paths, b.walk(p, false)...)
	}
	for _, p := range net {
		paths = append(paths, b.walk(p, true)...)
	}
	sort.Strings(paths)

	if err := writeAtomic(out, paths); err != nil {
		logger.Errorf("updatedb: %v", err)
		return 1
	}
	return 0
}

// builder accumulates the sorted path stream one local/network root at a
// time, applying the prunepaths/prunefs exclusions as it descends.
type builder struct {
	prunePaths []string
	pruneFS    []string
	mounts     *mountinfo.Cache
	logger     *logrus.Logger
}

func (b *builder) isPruned(path string) bool {
	for _, pat := range b.prunePaths {
		if pat == path {
			return true
		}
		if ok, _ := zglob.Match(pat, path); ok {
			return true
		}
	}
	return false
}

func (b *builder) isPrunedFS(path string) bool {
	if len(b.pruneFS) == 0 {
		return false
	}
	fsType, err := b.mounts.FSTypeForPath(path)
	if err != nil {
		return false
	}
	for _, want := range b.pruneFS {
		if want == fsType {
			return true
		}
	}
	return false
}

// walk recursively collects every path under root (root included),
// skipping directories matched by prunepaths or (unless net is true, for
// --netpaths entries) prunefs.
func (b *builder) walk(root string, net bool) []string {
	root = filepath.Clean(root)
	var out []string
	var visit func(path string)
	visit = func(path string) {
		if b.isPruned(path) {
			return
		}
		if !net && b.isPrunedFS(path) {
			return
		}
		out = append(out, path)

		info, err := os.Lstat(path)
		if err != nil {
			b.logger.WithField("path", path).Warn(err)
			return
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return
		}
		if !info.IsDir() {
			return
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			b.logger.WithField("path", path).Warn(err)
			return
		}
		for _, e := range entries {
			visit(filepath.Join(path, e.Name()))
		}
	}
	visit(root)
	return out
}

// writeAtomic encodes paths as a LOCATE02 stream into a temporary file
// beside out, then renames it into place once fully written, so readers
// never observe a partial database. An advisory flock on out serializes
// concurrent updatedb runs against the same destination.
func writeAtomic(out string, paths []string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}

	lock := flock.New(out + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(out), filepath.Base(out)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc, err := frcode.NewEncoder(tmp)
	if err != nil {
		tmp.Close()
		return err
	}
	for _, p := range paths {
		if err := enc.Put(p); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := enc.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, out)
}
