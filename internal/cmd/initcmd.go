package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/config"
	"github.com/ferrotask/ferrotask/internal/turbopath"
	"github.com/ferrotask/ferrotask/internal/ui"
)

var initLanguages = []string{"node", "go", "rust", "python", "other"}

// newInitCommand returns the "init" subcommand, which interactively
// scaffolds a workspace.yml (if one does not already exist) and a
// project.yml for a new project directory.
func newInitCommand(helper *cmdutil.Helper) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively scaffold a workspace or project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := helper.GetCmdBase(cmd.Flags())
			if err != nil {
				return err
			}

			if !base.WorkspaceRoot.Join(turbopath.RelativeSystemPath(config.WorkspaceFileName)).FileExists() {
				if err := scaffoldWorkspace(base); err != nil {
					return err
				}
			}

			return scaffoldProject(base, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Project directory to scaffold, relative to the workspace root")
	return cmd
}

func scaffoldWorkspace(base *cmdutil.CmdBase) error {
	create := false
	if err := survey.AskOne(
		&survey.Confirm{
			Default: true,
			Message: "No workspace.yml found here. Create one?",
		},
		&create,
		survey.WithValidator(survey.Required),
		survey.WithIcons(func(icons *survey.IconSet) {
			icons.Question.Format = "gray+hb"
		}),
	); err != nil {
		return err
	}
	if !create {
		return nil
	}

	projectsGlob := "*"
	if err := survey.AskOne(
		&survey.Input{
			Message: "Glob pattern for project directories",
			Default: projectsGlob,
		},
		&projectsGlob,
	); err != nil {
		return err
	}

	content := fmt.Sprintf("projects:\n  - %s\n", projectsGlob)

	spin := ui.NewSpinner(os.Stderr)
	spin.Start("writing workspace.yml")
	err := writeScaffoldFile(base, config.WorkspaceFileName, content)
	spin.Stop("")
	return err
}

func scaffoldProject(base *cmdutil.CmdBase, dir string) error {
	if dir == "" {
		if err := survey.AskOne(
			&survey.Input{
				Message: "Project directory (relative to workspace root)",
				Default: ".",
			},
			&dir,
		); err != nil {
			return err
		}
	}

	name := slug.Make(filepath.Base(dir))
	if err := survey.AskOne(
		&survey.Input{
			Message: "Project id",
			Default: name,
		},
		&name,
	); err != nil {
		return err
	}

	language := initLanguages[0]
	if err := survey.AskOne(
		&survey.Select{
			Message: "Project language",
			Options: initLanguages,
		},
		&language,
	); err != nil {
		return err
	}

	addBuild := true
	if err := survey.AskOne(
		&survey.Confirm{
			Default: true,
			Message: "Add a default \"build\" task?",
		},
		&addBuild,
	); err != nil {
		return err
	}

	content := fmt.Sprintf("id: %s\nlanguage: %s\n", name, language)
	if addBuild {
		content += "tasks:\n  build:\n    command: echo\n    args: [\"build\"]\n    inputs:\n      - \"**/*\"\n    outputs:\n      - \"dist\"\n"
	}

	projectDir := base.WorkspaceRoot.Join(turbopath.RelativeSystemPath(dir))
	if err := projectDir.MkdirAll(0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, config.ProjectFileName)

	spin := ui.NewSpinner(os.Stderr)
	spin.Start(fmt.Sprintf("writing %s", path))
	err := writeScaffoldFile(base, path, content)
	spin.Stop("")
	return err
}

func writeScaffoldFile(base *cmdutil.CmdBase, relPath, content string) error {
	path := base.WorkspaceRoot.Join(turbopath.RelativeSystemPath(relPath))
	if path.FileExists() {
		base.LogWarning("", fmt.Errorf("%s already exists, skipping", relPath))
		return nil
	}
	if err := path.WriteFile([]byte(content), 0o644); err != nil {
		return err
	}
	base.LogInfo(fmt.Sprintf("wrote %s", relPath))
	return nil
}
