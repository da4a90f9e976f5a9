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

// Command xargs is the thin CLI facade over internal/xargslib: it reads
// arguments from stdin or --arg-file under the configured quoting mode,
// packs them into command invocations honoring -n/-L/-s, and runs the
// child once per batch, aggregating the exit-code table of spec.md §6.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/anonymouse64/gofindutils/internal/xargslib"
)

type command struct {
	Null           bool   `short:"0" long:"null" description:"Input items are terminated by a null byte"`
	ArgFile        string `short:"a" long:"arg-file" description:"Read items from file instead of standard input"`
	Delimiter      string `short:"d" long:"delimiter" description:"Input items are terminated by the given byte, not whitespace"`
	EofStr         string `short:"E" description:"Legacy end-of-file string (no-op; items always read to EOF)"`
	EofStrLegacy   string `short:"e" long:"eof" description:"Same as -E"`
	ReplaceStr     string `short:"I" description:"Replace occurrences of replace-str in the initial arguments with names read from input"`
	Replace        string `short:"i" long:"replace" optional:"yes" optional-value:"{}" description:"Same as -I{}, or -Ireplace-str with an optional argument"`
	MaxLines       int    `short:"L" long:"max-lines" description:"Use at most max-lines non-blank input lines per command line"`
	MaxArgs        int    `short:"n" long:"max-args" description:"Use at most max-args arguments per command line"`
	Interactive    bool   `short:"p" long:"interactive" description:"Prompt before running each command"`
	NoRunIfEmpty   bool   `short:"r" long:"no-run-if-empty" description:"Do not run the command if there are no input items"`
	MaxChars       int    `short:"s" long:"max-chars" description:"Limit the length of the command line to max-chars"`
	Verbose        bool   `short:"t" long:"verbose" description:"Print the command line on stderr before executing it"`
	ExitOnOverflow bool   `short:"x" long:"exit" description:"Exit if the size of the command line exceeds max-chars"`
	MaxProcs       int    `short:"P" long:"max-procs" description:"Run up to max-procs processes at a time (only 0 and 1 are supported)"`

	Args struct {
		Command []string `positional-arg-name:"command"`
	} `positional-args:"yes"`
}

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

func run(cmd command) int {
	logger := logrus.StandardLogger()

	if cmd.MaxProcs > 1 {
		logger.Errorf("xargs: parallel execution (-P %d) is not supported", cmd.MaxProcs)
		return xargslib.ExitUnknown
	}

	replaceStr, replaceMode := replaceToken(cmd)
	if replaceMode {
		if cmd.MaxArgs != 0 && cmd.MaxArgs != 1 {
			logger.Warn("xargs: -n with -I/-i is only compatible with -n 1; ignoring -n")
		}
		if cmd.MaxLines != 0 {
			logger.Warn("xargs: -L is incompatible with -I/-i; ignoring -L")
		}
	}

	src, closeSrc, err := openSource(cmd)
	if err != nil {
		logger.Errorf("xargs: %v", err)
		return xargslib.ExitUnknown
	}
	defer closeSrc()

	words, err := readWords(cmd, src)
	if err != nil {
		logger.Errorf("xargs: %v", err)
		return xargslib.ExitUnknown
	}

	initial := cmd.Args.Command
	if len(initial) == 0 {
		initial = []string{"echo"}
	}

	runner := &xargslib.Runner{Stdout: os.Stdout, Stderr: os.Stderr}
	if stdinIsArgSource(cmd) {
		runner.Stdin = nil
	} else {
		runner.Stdin = os.Stdin
	}

	if replaceMode {
		return runReplaceMode(cmd, logger, runner, initial, replaceStr, words)
	}
	return runBatchMode(cmd, logger, runner, initial, words)
}

// replaceToken resolves -I/-i's replacement token: -I takes an explicit
// token, -i defaults to "{}" (with an optional override), spec.md §4.8.3.
func replaceToken(cmd command) (string, bool) {
	if cmd.ReplaceStr != "" {
		return cmd.ReplaceStr, true
	}
	if cmd.Replace != "" {
		return cmd.Replace, true
	}
	return "", false
}

func stdinIsArgSource(cmd command) bool {
	return cmd.ArgFile == "" || cmd.ArgFile == "-"
}

func openSource(cmd command) (*os.File, func(), error) {
	if cmd.ArgFile == "" {
		return os.Stdin, func() {}, nil
	}
	if cmd.ArgFile == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(cmd.ArgFile)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

func readWords(cmd command, src *os.File) ([]xargslib.Word, error) {
	_, replaceMode := replaceToken(cmd)

	switch {
	case cmd.Null:
		return xargslib.ReadByteDelimitedWords(src, 0)
	case cmd.Delimiter != "":
		d, err := xargslib.ParseDelimiterArg(cmd.Delimiter)
		if err != nil {
			return nil, err
		}
		return xargslib.ReadByteDelimitedWords(src, d)
	case replaceMode:
		// Replace mode's implied default delimiter is newline: each
		// line becomes one replacement value (spec.md §4.8.3).
		return xargslib.ReadByteDelimitedWords(src, '\n')
	default:
		return xargslib.ReadWhitespaceDelimitedWords(src)
	}
}

func runReplaceMode(cmd command, logger *logrus.Logger, runner *xargslib.Runner, initial []string, token string, words []xargslib.Word) int {
	ran := false
	for _, w := range words {
		if w.Text == "" {
			continue
		}
		argv := make([]string, len(initial))
		for i, a := range initial {
			argv[i] = strings.ReplaceAll(a, token, w.Text)
		}
		if cmd.Interactive && !confirm(argv) {
			continue
		}
		if cmd.Verbose {
			fmt.Fprintln(os.Stderr, strings.Join(argv, " "))
		}
		runner.Command = argv
		outcome, _, err := runner.Run(nil)
		if err != nil {
			logger.Errorf("xargs: %v", err)
		}
		ran = true
		if xargslib.ShouldAbort(outcome) {
			break
		}
	}
	if !ran && !cmd.NoRunIfEmpty {
		logger.Warn("xargs: no arguments read; nothing to do in replace mode")
	}
	return runner.FinalExitCode()
}

func runBatchMode(cmd command, logger *logrus.Logger, runner *xargslib.Runner, initial []string, words []xargslib.Word) int {
	limits := xargslib.Limits{MaxArgs: cmd.MaxArgs, MaxLines: cmd.MaxLines, MaxChars: cmd.MaxChars}
	batcher := xargslib.NewBatcher(initial, limits)

	if !batcher.FitsAlone("") {
		logger.Error("xargs: initial arguments exceed the command-size limit")
		return xargslib.ExitUnknown
	}

	flushBatch := func(batch []string) bool {
		argv := append(append([]string{}, initial...), batch...)
		if cmd.Interactive && !confirm(argv) {
			return true
		}
		if cmd.Verbose {
			fmt.Fprintln(os.Stderr, strings.Join(argv, " "))
		}
		runner.Command = initial
		outcome, _, err := runner.Run(batch)
		if err != nil {
			logger.Errorf("xargs: %v", err)
		}
		return !xargslib.ShouldAbort(outcome)
	}

	any := false
	for _, w := range words {
		any = true
		if cmd.ExitOnOverflow && (cmd.MaxArgs > 0 || cmd.MaxLines > 0) && !batcher.FitsAlone(w.Text) {
			logger.Error("xargs: argument line too long")
			return xargslib.ExitUnknown
		}
		if flushed := batcher.AddTerminated(w.Text, w.Hard); flushed != nil {
			if !flushBatch(flushed) {
				return runner.FinalExitCode()
			}
		}
	}
	if flushed := batcher.Flush(); len(flushed) > 0 {
		flushBatch(flushed)
	} else if !any && !cmd.NoRunIfEmpty {
		flushBatch(nil)
	}
	return runner.FinalExitCode()
}

func confirm(argv []string) bool {
	fmt.Fprintf(os.Stderr, "%s ?...", strings.Join(argv, " "))
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
