package hostapp

import (
	"context"
	"io"
	"time"

	"go.starlark.net/starlark"

	"github.com/jonwraymond/hostbridge/dispatch"
	"github.com/jonwraymond/hostbridge/script"
)

// Version is reported by the host module.
const Version = "1.0.0"

// DefaultSetupDelay is how long after startup the bridge begins serving.
const DefaultSetupDelay = 100 * time.Millisecond

// Config configures an App.
type Config struct {
	// Idle is the idle cycle interval. Defaults to DefaultIdleInterval.
	Idle time.Duration

	// SetupDelay delays the bridge until the loop has settled.
	// Defaults to DefaultSetupDelay.
	SetupDelay time.Duration

	// ScratchName names the text buffer that mirrors payloads.
	// Defaults to script.DefaultFilename.
	ScratchName string

	// Output receives print() output from payloads. Defaults to io.Discard.
	Output io.Writer

	// Logger receives bridge diagnostics.
	Logger dispatch.Logger
}

// App is the reference host application: a main loop, scene data and an
// embedded console bound to them.
type App struct {
	loop   *Loop
	state  *State
	interp *script.Interpreter
	runner *dispatch.Runner
	cfg    Config
}

// New creates an App. Nothing runs until RunBridge.
func New(cfg Config) *App {
	if cfg.SetupDelay <= 0 {
		cfg.SetupDelay = DefaultSetupDelay
	}
	if cfg.ScratchName == "" {
		cfg.ScratchName = script.DefaultFilename
	}

	loop := NewLoop(cfg.Idle)
	state := NewState(loop.OnMainThread)
	loop.OnIdle(state.Tick)

	interp := script.New(script.Config{
		Predeclared: starlark.StringDict{ModuleName: Module(state)},
		Output:      cfg.Output,
		Filename:    cfg.ScratchName,
	})

	runnerOpts := []dispatch.RunnerOption{dispatch.WithScratch(state.Scratch(cfg.ScratchName))}
	if cfg.Logger != nil {
		runnerOpts = append(runnerOpts, dispatch.WithRunnerLogger(cfg.Logger))
	}

	return &App{
		loop:   loop,
		state:  state,
		interp: interp,
		runner: dispatch.NewRunner(interp, runnerOpts...),
		cfg:    cfg,
	}
}

// Loop returns the main loop.
func (a *App) Loop() *Loop { return a.loop }

// State returns the scene data.
func (a *App) State() *State { return a.state }

// Run drives the main loop without a bridge until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return a.loop.Run(ctx)
}

// RunBridge drives the main loop on the calling goroutine and serves request
// frames from r to w once setup has run. It returns when r is exhausted or
// ctx is done.
func (a *App) RunBridge(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var opts []dispatch.Option
	if a.cfg.Logger != nil {
		opts = append(opts, dispatch.WithLogger(a.cfg.Logger))
	}
	d := dispatch.NewDispatcher(a.runner, a.loop, opts...)

	var serveErr error
	done := make(chan struct{})

	setup := func() (time.Duration, bool) {
		_ = a.state.SetText(a.cfg.ScratchName, "")
		a.info("bridge ready", "scratch", a.cfg.ScratchName)
		go func() {
			defer close(done)
			defer cancel()
			serveErr = d.Serve(r, w)
		}()
		return 0, false
	}
	if err := a.loop.Register(setup, a.cfg.SetupDelay); err != nil {
		return err
	}

	if err := a.loop.Run(ctx); err != nil {
		return err
	}

	select {
	case <-done:
		return serveErr
	default:
		return nil
	}
}

func (a *App) info(msg string, args ...any) {
	if a.cfg.Logger != nil {
		a.cfg.Logger.Info(msg, args...)
	}
}
