// Package cmdutil holds functionality to run ferrotask via cobra. That
// includes flag parsing and configuration of components common to all
// subcommands.
package cmdutil

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/ferrotask/ferrotask/internal/config"
	"github.com/ferrotask/ferrotask/internal/turbopath"
	"github.com/ferrotask/ferrotask/internal/ui"
)

const (
	// envLogLevel is the environment log level
	envLogLevel = "FERROTASK_LOG_LEVEL"
)

// Helper is a struct used to hold configuration values passed via flag, env
// vars, config files, etc. It is not intended for direct use by ferrotask
// commands; it drives the creation of CmdBase, which is then used by the
// commands themselves.
type Helper struct {
	// Version is the version of ferrotask that is currently executing
	Version string

	// for UI
	forceColor bool
	noColor    bool
	// for logging
	verbosity int

	rawWorkspaceRoot string

	cleanupsMu sync.Mutex
	cleanups   []io.Closer
}

// RegisterCleanup saves a function to be run after ferrotask execution,
// even if the command that runs returns an error.
func (h *Helper) RegisterCleanup(cleanup io.Closer) {
	h.cleanupsMu.Lock()
	defer h.cleanupsMu.Unlock()
	h.cleanups = append(h.cleanups, cleanup)
}

// Cleanup runs the registered cleanup handlers. It requires the flags
// to the root command so that it can construct a UI if necessary.
func (h *Helper) Cleanup(flags *pflag.FlagSet) {
	h.cleanupsMu.Lock()
	defer h.cleanupsMu.Unlock()
	var terminal cli.Ui
	for _, cleanup := range h.cleanups {
		if err := cleanup.Close(); err != nil {
			if terminal == nil {
				terminal = h.getUI(flags)
			}
			terminal.Warn(fmt.Sprintf("failed cleanup: %v", err))
		}
	}
}

func (h *Helper) getUI(flags *pflag.FlagSet) cli.Ui {
	colorMode := ui.GetColorModeFromEnv()
	if flags.Changed("no-color") && h.noColor {
		colorMode = ui.ColorModeSuppressed
	}
	if flags.Changed("color") && h.forceColor {
		colorMode = ui.ColorModeForced
	}
	return ui.BuildColoredUi(colorMode)
}

func (h *Helper) getLogger() (hclog.Logger, error) {
	var level hclog.Level
	switch h.verbosity {
	case 0:
		if v := os.Getenv(envLogLevel); v != "" {
			level = hclog.LevelFromString(v)
			if level == hclog.NoLevel {
				return nil, fmt.Errorf("%s value %q is not a valid log level", envLogLevel, v)
			}
		} else {
			level = hclog.NoLevel
		}
	case 1:
		level = hclog.Info
	case 2:
		level = hclog.Debug
	case 3:
		level = hclog.Trace
	default:
		level = hclog.Trace
	}
	// Default output is nowhere unless we enable logging.
	output := ioutil.Discard
	logColor := hclog.ColorOff
	if level != hclog.NoLevel {
		output = os.Stderr
		logColor = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "ferrotask",
		Level:  level,
		Color:  logColor,
		Output: output,
	}), nil
}

// AddFlags adds common flags for all ferrotask commands to the given
// flagset and binds them to this instance of Helper.
func (h *Helper) AddFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&h.forceColor, "color", false, "Force color usage in the terminal")
	flags.BoolVar(&h.noColor, "no-color", false, "Suppress color usage in the terminal")
	flags.CountVarP(&h.verbosity, "verbosity", "v", "verbosity")
	flags.StringVar(&h.rawWorkspaceRoot, "cwd", "", "The directory in which to run ferrotask")
}

// NewHelper returns a new helper instance to hold configuration values for
// the root ferrotask command.
func NewHelper(version string) *Helper {
	return &Helper{Version: version}
}

// GetCmdBase returns a CmdBase instance configured with values from this
// helper: a color-aware UI, a level-configured logger, the resolved
// workspace root, and user preferences. It does not load the workspace
// configuration; CmdBase.LoadWorkspace does that.
func (h *Helper) GetCmdBase(flags *pflag.FlagSet) (*CmdBase, error) {
	terminal := h.getUI(flags)

	logger, err := h.getLogger()
	if err != nil {
		return nil, err
	}

	cwd, err := turbopath.GetCwd()
	if err != nil {
		return nil, err
	}
	workspaceRoot := turbopath.ResolveUnknownPath(cwd, h.rawWorkspaceRoot)
	workspaceRoot, err = workspaceRoot.EvalSymlinks()
	if err != nil {
		return nil, err
	}

	prefs, err := config.ReadUserPreferences(afero.NewOsFs())
	if err != nil {
		return nil, err
	}

	return &CmdBase{
		UI:            terminal,
		Logger:        logger,
		WorkspaceRoot: workspaceRoot,
		Preferences:   prefs,
		Version:       h.Version,
	}, nil
}

// CmdBase encompasses configured components common to all ferrotask
// commands.
type CmdBase struct {
	UI            cli.Ui
	Logger        hclog.Logger
	WorkspaceRoot turbopath.AbsoluteSystemPath
	Preferences   *config.UserPreferences
	Version       string
}

// LoadWorkspace loads and validates the workspace rooted at b.WorkspaceRoot.
func (b *CmdBase) LoadWorkspace() (*config.Workspace, error) {
	ws, err := config.LoadWorkspace(b.WorkspaceRoot)
	if err != nil {
		return ws, err
	}
	if err := config.Validate(ws); err != nil {
		return ws, err
	}
	return ws, nil
}

// LogError prints an error to the UI.
func (b *CmdBase) LogError(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	b.Logger.Error("error", err)
	b.UI.Error(fmt.Sprintf("%s%s", ui.ERROR_PREFIX, color.RedString(" %v", err)))
}

// LogWarning logs an error and outputs it to the UI.
func (b *CmdBase) LogWarning(prefix string, err error) {
	b.Logger.Warn(prefix, "warning", err)

	if prefix != "" {
		prefix = " " + prefix + ": "
	}

	b.UI.Warn(fmt.Sprintf("%s%s%s", ui.WARNING_PREFIX, prefix, color.YellowString(" %v", err)))
}

// LogInfo logs a message and outputs it to the UI.
func (b *CmdBase) LogInfo(msg string) {
	b.Logger.Info(msg)
	b.UI.Info(fmt.Sprintf("%s%s", ui.InfoPrefix, color.WhiteString(" %v", msg)))
}
