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

// Command find is the thin CLI facade over internal/expr and
// internal/walk: it splits argv into starting paths and an expression
// (spec.md §6), parses the expression into a matcher tree, drives the
// traversal, and maps any parse or write failure onto the process exit
// code the way the teacher's cmd/etrace/main.go maps parser errors onto
// os.Exit.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/anonymouse64/gofindutils/internal/diag"
	"github.com/anonymouse64/gofindutils/internal/expr"
	"github.com/anonymouse64/gofindutils/internal/matchers"
	"github.com/anonymouse64/gofindutils/internal/walk"
)

// command carries the one top-level flag find(1) itself recognizes
// before the expression begins; everything else (starting paths and
// expression tokens) rides through as positional arguments since the
// expression language's own "-name", "-type", etc. look like flags to
// go-flags and must not be intercepted by it.
type command struct {
	Errors bool `short:"e" long:"errors" description:"Print a summary of per-entry errors encountered during the walk"`
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var cmd command
	parser := flags.NewParser(&cmd, flags.Default|flags.IgnoreUnknown)
	// IgnoreUnknown leaves every expression token ("-name", "-type", ...)
	// unparsed and returns it, in order, as the remaining argument slice,
	// since the expression language's own flags must not be intercepted
	// by go-flags the way the teacher's top-level Command struct is.
	argv, err := parser.ParseArgs(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	os.Exit(run(cmd, argv))
}

// splitPathsAndExpr implements spec.md §6: the expression begins at the
// first argument starting with '-', '(', ')', '!', or ','. Every
// argument before that is a starting path; zero starting paths defaults
// to the current directory.
func splitPathsAndExpr(argv []string) (paths []string, exprTokens []string) {
	i := 0
	for ; i < len(argv); i++ {
		a := argv[i]
		if a == "" {
			continue
		}
		switch a[0] {
		case '-', '(', ')', '!', ',':
			goto split
		}
		paths = append(paths, a)
	}
split:
	exprTokens = argv[i:]
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return paths, exprTokens
}

func run(cmd command, argv []string) int {
	logger := logrus.StandardLogger()
	paths, exprTokens := splitPathsAndExpr(argv)

	cfg := expr.NewConfig()
	cfg.StartingPoints = paths

	root, closeFn, err := expr.Parse(exprTokens, cfg)
	if err != nil {
		logger.Errorf("find: %v", err)
		return 1
	}
	defer func() {
		if cerr := closeFn(); cerr != nil {
			logger.Warnf("find: closing -fprint destination: %v", cerr)
		}
	}()

	diagnostics := diag.New(logger, cmd.Errors)
	exitFlag := &diag.Flag{}
	mio := matchers.NewIO(os.Stdout, diagnostics, exitFlag)

	w := &walk.Walker{Config: cfg, Root: root, IO: mio}
	if err := w.Run(); err != nil {
		logger.Errorf("find: %v", err)
		exitFlag.Raise(1)
	}

	for _, be := range matchers.CollectBatchExecs(root) {
		if ferr := be.Flush(exitFlag); ferr != nil {
			logger.Errorf("find: %v", ferr)
			exitFlag.Raise(1)
		}
	}

	if cmd.Errors {
		if derr := diagnostics.Errors(); derr != nil {
			fmt.Fprintln(os.Stderr, derr)
		}
	}

	return exitFlag.Code()
}
