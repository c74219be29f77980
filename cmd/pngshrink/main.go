// Command pngshrink shrinks a PNG file by keeping every rate-th pixel in
// both directions, streaming the whole way: memory use stays at one read
// chunk plus one image row whatever the image size.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmaccarl/pngshrink"
	"github.com/jmaccarl/pngshrink/internal/errors"
)

// ErrUsage marks errors in how the command was invoked, as opposed to
// failures while processing. They exit with a separate status code.
var ErrUsage = errors.New("invalid usage")

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pngshrink <input.png> <output.png> <rate>",
		Short: "Shrink a PNG by keeping every rate-th pixel",
		Long: `
pngshrink reads a PNG image and writes a smaller one that keeps the pixel at
every multiple of rate in both directions: output pixel (i, j) is input pixel
(i*rate, j*rate). There is no interpolation.

The input is processed as a stream in fixed-size chunks, so arbitrarily large
images shrink in constant memory: one chunk buffer plus one image row.
`,
		SilenceErrors:     true,
		DisableAutoGenTag: true,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(3)(cmd, args); err != nil {
				return errors.Wrapf(ErrUsage, "%v", err)
			}
			return nil
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return globalOptions.PreRun()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShrink(cmd, &globalOptions, args)
		},
	}

	globalOptions.AddFlags(cmd.PersistentFlags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrapf(ErrUsage, "%v", err)
	})
	registerProfiling(cmd)

	return cmd
}

func runShrink(cmd *cobra.Command, opts *GlobalOptions, args []string) error {
	inPath, outPath := args[0], args[1]
	rate, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.Wrapf(ErrUsage, "sample rate %q is not an integer", args[2])
	}
	if rate < 1 {
		return errors.Wrapf(ErrUsage, "sample rate must be positive, got %d", rate)
	}

	// The arguments are sound; from here on a failure is a processing
	// error and repeating the usage text would only bury it.
	cmd.SilenceUsage = true

	in, err := openInput(inPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := createOutput(outPath)
	if err != nil {
		return err
	}

	var src io.Reader = in
	if opts.verbosity >= 2 {
		src = &reportingReader{r: in}
	}

	bw := bufio.NewWriter(out)
	res, runErr := pngshrink.Shrink(src, bw, rate, opts.ChunkSize)
	if err := bw.Flush(); runErr == nil {
		runErr = err
	}
	if err := out.Close(); runErr == nil {
		runErr = errors.Wrapf(err, "close %v", outPath)
	}

	if runErr != nil {
		if res.BytesWritten > 0 {
			Warnf("partial output left in %v (%v bytes, no trailer)\n", outPath, res.BytesWritten)
		}
		return runErr
	}

	Verbosef("%v: %vx%v -> %vx%v, %v bytes read, %v bytes written\n",
		outPath, res.Width, res.Height, res.OutWidth, res.OutHeight,
		res.BytesRead, res.BytesWritten)
	return nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	return f, nil
}

func createOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %v", path)
	}
	return f, nil
}

// reportingReader logs every source read on its way through.
type reportingReader struct {
	r     io.Reader
	reads int
}

func (r *reportingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.reads++
	if err != nil && err != io.EOF {
		Verboseff("read %v: %v bytes, %v\n", r.reads, n, err)
	} else {
		Verboseff("read %v: %v bytes\n", r.reads, n)
	}
	return n, err
}

func main() {
	err := newRootCommand().Execute()

	var exitCode int
	switch {
	case err == nil:
		exitCode = 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintln(globalOptions.stderr, err)
		exitCode = 2
	default:
		fmt.Fprintln(globalOptions.stderr, err)
		exitCode = 1
	}

	Exit(exitCode)
}
