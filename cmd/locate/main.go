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

// Command locate is the thin CLI facade over internal/locatedb: it opens
// a LOCATE02 database (spec.md §4.9/§6), streams and matches its
// records against the given patterns, and prints survivors.
package main

import (
	"bufio"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/anonymouse64/gofindutils/internal/locatedb"
	"github.com/anonymouse64/gofindutils/internal/matchers"
)

type command struct {
	Database    string `short:"d" long:"database" description:"Path to the database to search (one file; - reads it from standard input)"`
	All         bool   `long:"all" short:"A" description:"Only print entries that match all patterns"`
	Basename    bool   `long:"basename" short:"b" description:"Match only the base name of path names"`
	IgnoreCase  bool   `long:"ignore-case" short:"i" description:"Ignore case distinctions when matching"`
	Limit       int    `long:"limit" short:"l" description:"Limit the number of results shown"`
	Null        bool   `long:"null" short:"0" description:"Separate results with NUL, not newline"`
	Existing    bool   `long:"existing" short:"e" description:"Only print entries that currently exist"`
	NonExisting bool   `long:"non-existing" short:"E" description:"Only print entries that do not currently exist"`
	Regex       bool   `long:"regex" description:"Patterns are regular expressions, not globs/literals"`
	RegexType   string `long:"regextype" default:"findutils-default" description:"Regex dialect: findutils-default, posix-basic, posix-extended"`

	Args struct {
		Patterns []string `positional-arg-name:"pattern"`
	} `positional-args:"yes" required:"yes"`
}

const defaultDBPath = "/var/lib/locatedb/locate.db"

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

func dbPath(cmd command) string {
	if cmd.Database != "" {
		return cmd.Database
	}
	if env := os.Getenv("LOCATE_PATH"); env != "" {
		return env
	}
	return defaultDBPath
}

func run(cmd command) int {
	logger := logrus.StandardLogger()

	db, err := locatedb.OpenReader(dbPath(cmd))
	if err != nil {
		logger.Errorf("locate: %v", err)
		return 1
	}
	defer db.Close()

	opt := locatedb.Options{
		All:          cmd.All,
		Basename:     cmd.Basename,
		IgnoreCase:   cmd.IgnoreCase,
		Limit:        cmd.Limit,
		Null:         cmd.Null,
		Existing:     cmd.Existing,
		NonExisting:  cmd.NonExisting,
		UseRegex:     cmd.Regex,
		RegexDialect: matchers.RegexType(cmd.RegexType),
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	term := byte('\n')
	if cmd.Null {
		term = 0
	}

	found := false
	emit := func(path string) error {
		found = true
		_, werr := fmt.Fprintf(out, "%s%c", path, term)
		return werr
	}

	if err := locatedb.Query(db, cmd.Args.Patterns, opt, emit); err != nil {
		logger.Errorf("locate: %v", err)
		return 1
	}
	if err := out.Flush(); err != nil {
		logger.Errorf("locate: %v", err)
		return 1
	}
	if !found {
		return 1
	}
	return 0
}
