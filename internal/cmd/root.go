// Package cmd holds the root cobra command for ferrotask.
package cmd

import (
	stderrors "errors"
	"os"
	"runtime/pprof"
	"runtime/trace"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/util"
)

type execOpts struct {
	heapFile       string
	cpuProfileFile string
	traceFile      string
}

func (eo *execOpts) addFlags(flags *pflag.FlagSet) {
	// Note that these are relative to the actual CWD, and do not respect the --cwd flag.
	// This is because a user likely wants to inspect them after execution, and may not immediately
	// know the workspace root, depending on how ferrotask was invoked.
	flags.StringVar(&eo.heapFile, "heap", "", "Specify a file to save a pprof heap profile")
	flags.StringVar(&eo.cpuProfileFile, "cpuprofile", "", "Specify a file to save a cpu profile")
	flags.StringVar(&eo.traceFile, "trace", "", "Specify a file to save a pprof trace")
}

// RunWithArgs runs ferrotask with the specified arguments. The arguments
// should not include the binary being invoked (e.g. "ferrotask").
func RunWithArgs(args []string, version string) int {
	util.InitPrintf()
	helper := cmdutil.NewHelper(version)
	root := getCmd(helper)
	defer helper.Cleanup(root.Flags())
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var exitErr *util.ExitCodeError
		if stderrors.As(err, &exitErr) {
			return exitErr.ExitCode
		}
		return 1
	}
	return 0
}

// getCmd returns the root cobra command.
func getCmd(helper *cmdutil.Helper) *cobra.Command {
	eo := &execOpts{}

	root := &cobra.Command{
		Use:              "ferrotask",
		Short:            "Token expansion engine for monorepo task configuration",
		TraverseChildren: true,
		Version:          helper.Version,
		SilenceErrors:    true,
		SilenceUsage:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if eo.traceFile != "" {
				cleanup, err := createTraceFile(eo.traceFile)
				if err != nil {
					return err
				}
				helper.RegisterCleanup(cleanup)
			}
			if eo.heapFile != "" {
				cleanup, err := createHeapFile(eo.heapFile)
				if err != nil {
					return err
				}
				helper.RegisterCleanup(cleanup)
			}
			if eo.cpuProfileFile != "" {
				cleanup, err := createCpuprofileFile(eo.cpuProfileFile)
				if err != nil {
					return err
				}
				helper.RegisterCleanup(cleanup)
			}
			return nil
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	flags := root.PersistentFlags()
	helper.AddFlags(flags)
	eo.addFlags(flags)

	root.AddCommand(newExpandCommand(helper))
	root.AddCommand(newValidateCommand(helper))
	root.AddCommand(newInitCommand(helper))
	root.AddCommand(newGraphCommand(helper))

	return root
}

type profileCleanup func() error

// Close implements io.Closer for profileCleanup.
func (pc profileCleanup) Close() error {
	return pc()
}

// To view a CPU trace, use "go tool trace [file]". Note that the trace
// viewer doesn't work under Windows Subsystem for Linux for some reason.
func createTraceFile(traceFile string) (profileCleanup, error) {
	f, err := os.Create(traceFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create trace file: %v", traceFile)
	}
	if err := trace.Start(f); err != nil {
		return nil, errors.Wrap(err, "failed to start tracing")
	}
	return func() error {
		trace.Stop()
		return f.Close()
	}, nil
}

// To view a heap trace, use "go tool pprof [file]" and type "top". You can
// also drop it into https://speedscope.app and use the "left heavy" or
// "sandwich" view modes.
func createHeapFile(heapFile string) (profileCleanup, error) {
	f, err := os.Create(heapFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create heap file: %v", heapFile)
	}
	return func() error {
		if err := pprof.WriteHeapProfile(f); err != nil {
			// we don't care if we fail to close the file we just failed to write to
			_ = f.Close()
			return errors.Wrapf(err, "failed to write heap file: %v", heapFile)
		}
		return f.Close()
	}, nil
}

// To view a CPU profile, drop the file into https://speedscope.app.
// Note: Running the CPU profiler doesn't work under Windows subsystem for
// Linux. The profiler has to be built for native Windows and run using the
// command prompt instead.
func createCpuprofileFile(cpuprofileFile string) (profileCleanup, error) {
	f, err := os.Create(cpuprofileFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create cpuprofile file: %v", cpuprofileFile)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return nil, errors.Wrap(err, "failed to start CPU profiling")
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}
