package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/expand"
	"github.com/ferrotask/ferrotask/internal/globby"
	"github.com/ferrotask/ferrotask/internal/task"
)

// newExpandCommand returns the "expand" subcommand, which resolves every
// token function and token variable in a single task's fields and prints
// the result.
func newExpandCommand(helper *cmdutil.Helper) *cobra.Command {
	var jsonOutput bool
	var materialize bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "expand <project#task>",
		Short: "Expand token functions and variables in a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := helper.GetCmdBase(cmd.Flags())
			if err != nil {
				return err
			}

			ws, err := base.LoadWorkspace()
			if err != nil {
				base.LogError("%v", err)
				return err
			}

			runExpand := func() error {
				ws, err := base.LoadWorkspace()
				if err != nil {
					base.LogError("%v", err)
					return err
				}

				target := task.ParseTarget(args[0])
				proj, ok := ws.Projects[target.ProjectID]
				if !ok {
					err := fmt.Errorf("unknown project %q", target.ProjectID)
					base.LogError("%v", err)
					return err
				}
				t, ok := ws.Tasks[target.ProjectID][target.TaskID]
				if !ok {
					err := fmt.Errorf("unknown task %q in project %q", target.TaskID, target.ProjectID)
					base.LogError("%v", err)
					return err
				}

				engine := expand.NewEngine(proj, expand.ExpansionContext{
					WorkspaceRoot: base.WorkspaceRoot,
					WorkingDir:    base.WorkspaceRoot,
				}, expand.WithLogger(base.Logger))

				out, err := expandTask(engine, t)
				if err != nil {
					base.LogError("%v", err)
					return err
				}

				if materialize {
					out.Inputs.Materialized = sortedCopy(globby.GlobFiles(base.WorkspaceRoot.ToString(), out.Inputs.Globs, nil))
				}

				if jsonOutput {
					return printExpandedJSON(cmd, out)
				}
				printExpandedText(cmd, out)
				return nil
			}

			if watch {
				return watchWorkspaceFiles(base, ws, runExpand)
			}
			return runExpand()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the expanded fields as JSON")
	cmd.Flags().BoolVar(&materialize, "materialize", false, "Also list the files each declared input glob matches on disk")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-expand whenever workspace or project configuration files change")
	return cmd
}

// expandedTask is the assembled result of running every Engine.ExpandXxx
// method against one task.
type expandedTask struct {
	Command string            `json:"command"`
	Script  string            `json:"script,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Inputs  expandedFileSet   `json:"inputs"`
	Outputs expandedFileSet   `json:"outputs"`
}

type expandedFileSet struct {
	Files []string `json:"files,omitempty"`
	Globs []string `json:"globs,omitempty"`
	Env   []string `json:"env,omitempty"`

	// Materialized is only populated when --materialize is passed: the
	// actual files on disk that Globs resolve to, via internal/globby.
	Materialized []string `json:"materialized,omitempty"`
}

func expandTask(engine *expand.Engine, t *task.Task) (*expandedTask, error) {
	command, err := engine.ExpandCommand(t)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}

	script, _, err := engine.ExpandScript(t)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	args, _, err := engine.ExpandArgs(t)
	if err != nil {
		return nil, fmt.Errorf("args: %w", err)
	}

	env, _, err := engine.ExpandEnv(t)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}

	inputs, err := engine.ExpandInputs(t)
	if err != nil {
		return nil, fmt.Errorf("inputs: %w", err)
	}

	outputs, err := engine.ExpandOutputs(t)
	if err != nil {
		return nil, fmt.Errorf("outputs: %w", err)
	}

	return &expandedTask{
		Command: command,
		Script:  script,
		Args:    args,
		Env:     env,
		Inputs:  expandedFileSet{Files: sortedCopy(inputs.Files), Globs: sortedCopy(inputs.Globs), Env: sortedCopy(inputs.Env)},
		Outputs: expandedFileSet{Files: sortedCopy(outputs.Files), Globs: sortedCopy(outputs.Globs)},
	}, nil
}

func sortedCopy(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func printExpandedText(cmd *cobra.Command, out *expandedTask) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "command: %s\n", out.Command)
	if out.Script != "" {
		fmt.Fprintf(w, "script: %s\n", out.Script)
	}
	if len(out.Args) > 0 {
		fmt.Fprintf(w, "args: %s\n", strings.Join(out.Args, " "))
	}
	if len(out.Env) > 0 {
		keys := make([]string, 0, len(out.Env))
		for k := range out.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "env:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s=%s\n", k, out.Env[k])
		}
	}
	fmt.Fprintln(w, "inputs:")
	printFileSet(w, out.Inputs)
	fmt.Fprintln(w, "outputs:")
	printFileSet(w, out.Outputs)
}

func printExpandedJSON(cmd *cobra.Command, out *expandedTask) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printFileSet(w io.Writer, fs expandedFileSet) {
	for _, f := range fs.Files {
		fmt.Fprintf(w, "  file: %s\n", f)
	}
	for _, g := range fs.Globs {
		fmt.Fprintf(w, "  glob: %s\n", g)
	}
	for _, e := range fs.Env {
		fmt.Fprintf(w, "  env: %s\n", e)
	}
	for _, m := range fs.Materialized {
		fmt.Fprintf(w, "  materialized: %s\n", m)
	}
}
