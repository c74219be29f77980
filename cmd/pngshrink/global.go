// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/jmaccarl/pngshrink"
	"github.com/jmaccarl/pngshrink/internal/errors"
)

// GlobalOptions hold the flags that apply to the whole run.
type GlobalOptions struct {
	Quiet     bool
	Verbose   int
	ChunkSize int

	stdout io.Writer
	stderr io.Writer

	// verbosity is set as follows:
	//  0 means: don't print any messages except errors, this is used when --quiet is specified
	//  1 is the default: print the result summary
	//  2 means: report reads and progress, this is used when --verbose is specified
	verbosity uint
}

var globalOptions = GlobalOptions{
	stdout: os.Stdout,
	stderr: os.Stderr,
}

func (opts *GlobalOptions) AddFlags(f *pflag.FlagSet) {
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "do not print the result summary")
	f.CountVarP(&opts.Verbose, "verbose", "v", "report source reads as they happen")
	f.IntVar(&opts.ChunkSize, "chunk-size", pngshrink.DefaultChunkSize, "read the source in chunks of `size` bytes")
}

func (opts *GlobalOptions) PreRun() error {
	// set verbosity, default is one
	opts.verbosity = 1
	if opts.Quiet && opts.Verbose > 0 {
		return errors.Wrap(ErrUsage, "--quiet and --verbose cannot be specified at the same time")
	}

	switch {
	case opts.Verbose > 0:
		opts.verbosity = 2
	case opts.Quiet:
		opts.verbosity = 0
	}
	return nil
}

// Printf writes the message to the configured stdout stream.
func Printf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stdout, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stdout: %v\n", err)
		Exit(100)
	}
}

// Verbosef calls Printf to write the message unless quiet was requested.
func Verbosef(format string, args ...interface{}) {
	if globalOptions.verbosity < 1 {
		return
	}

	Printf(format, args...)
}

// Verboseff calls Printf to write the message when the verbose flag is set.
func Verboseff(format string, args ...interface{}) {
	if globalOptions.verbosity < 2 {
		return
	}

	Printf(format, args...)
}

// Warnf writes the message to the configured stderr stream.
func Warnf(format string, args ...interface{}) {
	_, err := fmt.Fprintf(globalOptions.stderr, format, args...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write to stderr: %v\n", err)
		Exit(100)
	}
}

// Exit terminates the process with the given status code.
func Exit(code int) {
	os.Exit(code)
}
