//go:build debug

package main

import (
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/jmaccarl/pngshrink/internal/errors"
)

var (
	memProfilePath string
	cpuProfilePath string
)

// registerProfiling adds the profiling flags and starts the requested
// profile around the command's run.
func registerProfiling(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&memProfilePath, "mem-profile", "", "write memory profile to `dir`")
	f.StringVar(&cpuProfilePath, "cpu-profile", "", "write cpu profile to `dir`")

	var prof interface {
		Stop()
	}

	wrapped := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		if memProfilePath != "" && cpuProfilePath != "" {
			return errors.Wrap(ErrUsage, "only one profile (memory or CPU) may be activated at the same time")
		}

		if memProfilePath != "" {
			prof = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.MemProfile, profile.ProfilePath(memProfilePath))
		} else if cpuProfilePath != "" {
			prof = profile.Start(profile.Quiet, profile.NoShutdownHook, profile.CPUProfile, profile.ProfilePath(cpuProfilePath))
		}

		if wrapped != nil {
			return wrapped(c, args)
		}
		return nil
	}

	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if prof != nil {
			prof.Stop()
		}
	}
}
