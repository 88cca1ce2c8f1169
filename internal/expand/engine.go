package expand

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/env"
	"github.com/ferrotask/ferrotask/internal/project"
)

// Clock is the time seam the $date/$datetime/$time/$timestamp variables
// read from. Production code uses realClock; tests substitute a fixed
// instant so S1-S8 scenarios are deterministic.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Engine expands tokens against one Project, for the duration of however
// many tasks are passed to its ExpandXxx methods. It holds no stat cache of
// its own: stat results are cached only for the duration of a single
// ExpandInputs call or FileGroup Dirs/Files call.
type Engine struct {
	project *project.Project
	ctx     ExpansionContext

	// envNames holds the set of environment variable *names* visible to
	// the process; EnvVarGlob resolution only ever needs names, never
	// values, matching the upstream behavior this was ported from.
	envNames map[string]struct{}

	fs     afero.Fs
	clock  Clock
	logger hclog.Logger

	// instanceID disambiguates log lines from concurrent Engine instances
	// in the same process; it has no effect on expansion output.
	instanceID uuid.UUID

	maxFunctionDepth int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithEnv overrides the environment variable name snapshot the engine
// resolves EnvVar/EnvVarGlob inputs against. Defaults to the process
// environment.
func WithEnv(envMap env.EnvironmentVariableMap) Option {
	return func(e *Engine) {
		e.envNames = namesSet(envMap.Names())
	}
}

// WithEnvNames overrides the environment variable name snapshot directly,
// bypassing env.EnvironmentVariableMap. Useful for tests.
func WithEnvNames(names []string) Option {
	return func(e *Engine) {
		e.envNames = namesSet(names)
	}
}

// WithFs overrides the filesystem used for directory/file existence
// checks performed by file group resolution. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithClock overrides the time source $date/$datetime/$time/$timestamp
// read from. Defaults to the wall clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithLogger overrides the engine's debug logger. Defaults to a discard
// logger.
func WithLogger(logger hclog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func namesSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// NewEngine constructs an Engine bound to proj and ctx. By default the
// engine snapshots process environment variable names, reads the real
// filesystem and clock, and discards log output.
func NewEngine(proj *project.Project, ctx ExpansionContext, opts ...Option) *Engine {
	e := &Engine{
		project:          proj,
		ctx:              ctx,
		envNames:         namesSet(env.GetEnvMap().Names()),
		fs:               afero.NewOsFs(),
		clock:            realClock{},
		logger:           hclog.NewNullLogger(),
		instanceID:       uuid.New(),
		maxFunctionDepth: 8,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("engine", e.instanceID.String())
	return e
}
