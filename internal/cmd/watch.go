package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
	"github.com/ferrotask/ferrotask/internal/config"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// watchWorkspaceFiles runs onChange once immediately, then again every time
// workspace.yml or any already-discovered project's project.yml changes on
// disk, until the process receives an interrupt or termination signal.
func watchWorkspaceFiles(base *cmdutil.CmdBase, ws *config.Workspace, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(base.WorkspaceRoot.Join(turbopath.RelativeSystemPath(config.WorkspaceFileName)).ToString()); err != nil {
		return err
	}
	for _, proj := range ws.Projects {
		projectFile := proj.Root.Join(turbopath.RelativeSystemPath(config.ProjectFileName)).ToString()
		if err := watcher.Add(projectFile); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := onChange(); err != nil {
		base.LogWarning("", err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := onChange(); err != nil {
				base.LogWarning("", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			base.LogWarning("watch", err)
		case <-sigCh:
			return nil
		}
	}
}
