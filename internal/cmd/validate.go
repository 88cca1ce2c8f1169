package cmd

import (
	"fmt"
	"sort"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/cobra"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/config"
	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
	"github.com/ferrotask/ferrotask/internal/util"
)

// newValidateCommand returns the "validate" subcommand, which loads a
// workspace, runs config.Validate against it, and warns about any declared
// input that a root .gitignore would exclude from version control.
func newValidateCommand(helper *cmdutil.Helper) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate workspace and project configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := helper.GetCmdBase(cmd.Flags())
			if err != nil {
				return err
			}

			ws, err := base.LoadWorkspace()
			if err != nil {
				base.LogError("%v", err)
				return &util.ExitCodeError{ExitCode: 2}
			}

			runValidate := func() error {
				ws, err := base.LoadWorkspace()
				if err != nil {
					base.LogError("%v", err)
					return &util.ExitCodeError{ExitCode: 2}
				}
				ignore, err := loadRootIgnore(base.WorkspaceRoot)
				if err != nil {
					base.LogWarning("", err)
				} else {
					warnIgnoredInputs(base, ws, ignore)
				}
				base.LogInfo(fmt.Sprintf("workspace valid: %d project(s)", len(ws.Projects)))
				return nil
			}

			if watch {
				return watchWorkspaceFiles(base, ws, runValidate)
			}
			return runValidate()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-validate whenever workspace or project configuration files change")
	return cmd
}

// loadRootIgnore compiles the workspace root's .gitignore, if any. A
// missing file is not an error; it yields a GitIgnore that matches
// nothing.
func loadRootIgnore(root turbopath.AbsoluteSystemPath) (*gitignore.GitIgnore, error) {
	path := root.Join(turbopath.RelativeSystemPath(".gitignore"))
	if !path.FileExists() {
		return gitignore.CompileIgnoreLines(), nil
	}
	return gitignore.CompileIgnoreFile(path.ToString())
}

// warnIgnoredInputs reports every declared ProjectFile/ProjectGlob input
// whose workspace-relative path a root .gitignore would exclude, since
// such a file is invisible to change detection that walks tracked files.
func warnIgnoredInputs(base *cmdutil.CmdBase, ws *config.Workspace, ignore *gitignore.GitIgnore) {
	var projectIDs []string
	for id := range ws.Tasks {
		projectIDs = append(projectIDs, id)
	}
	sort.Strings(projectIDs)

	for _, projectID := range projectIDs {
		proj := ws.Projects[projectID]
		taskIDs := make([]string, 0, len(ws.Tasks[projectID]))
		for id := range ws.Tasks[projectID] {
			taskIDs = append(taskIDs, id)
		}
		sort.Strings(taskIDs)

		for _, taskID := range taskIDs {
			t := ws.Tasks[projectID][taskID]
			for _, in := range t.Inputs {
				if in.Kind != task.InputProjectFile && in.Kind != task.InputProjectGlob {
					continue
				}
				rel, ok := in.ToWorkspaceRelative(proj.Source)
				if !ok {
					continue
				}
				if ignore.MatchesPath(rel.ToString()) {
					base.LogWarning(t.Target.String(), fmt.Errorf("input %q is excluded by .gitignore", rel.ToString()))
				}
			}
		}
	}
}
