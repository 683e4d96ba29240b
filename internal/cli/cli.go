package cli

import (
	"context"
	"io"

	"github.com/specialistvlad/stagegrid/internal/app"
	"github.com/spf13/cobra"
)

// Env carries the process-level inputs of a CLI invocation.
type Env struct {
	// Stdout receives reports and help text.
	Stdout io.Writer
	// Stderr receives log output.
	Stderr io.Writer
	// BaseDir is the working directory captured at startup.
	BaseDir string
	// AppOptions are passed to every App the CLI creates.
	AppOptions []app.Option
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose         bool
	quiet           bool
	debug           bool
	logFormat       string
	healthcheckPort int
}

// logLevel maps the verbosity switches to a level name.
func (g *globalFlags) logLevel() string {
	switch {
	case g.debug:
		return "debug"
	case g.verbose:
		return "info"
	case g.quiet:
		return "error"
	default:
		return "warn"
	}
}

// Execute parses args and runs the selected subcommand. A nil error means
// exit code 0; any other error is an *ExitError.
func Execute(ctx context.Context, env Env, args []string) error {
	root := newRootCommand(env)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		return asExitError(err)
	}
	return nil
}

func newRootCommand(env Env) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "stagegrid",
		Short:         "Expand stage templates over targets and run them as a dependency graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return usagef("a subcommand is required")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log progress at info level")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "log errors only")
	pf.BoolVarP(&g.debug, "debug", "d", false, "log at debug level")
	pf.StringVar(&g.logFormat, "log-format", "text", "log output format: text or json")
	pf.IntVar(&g.healthcheckPort, "healthcheck-port", 0, "serve /health and /metrics on this port (0 disables)")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet", "debug")

	root.AddCommand(
		newMergeCommand(env, g),
		newRunCommand(env, g, "run", ""),
		newRunCommand(env, g, "post", "post"),
		newCollectCommand(env, g),
		newReportCommand(env, g),
	)
	return root
}

// newApp validates the global configuration and starts the health check
// server. The caller must Close the returned App.
func newApp(env Env, g *globalFlags) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		BaseDir:         env.BaseDir,
		LogFormat:       g.logFormat,
		LogLevel:        g.logLevel(),
		HealthcheckPort: g.healthcheckPort,
	})
	if err != nil {
		return nil, usage(err)
	}

	a := app.NewApp(env.Stderr, cfg, env.AppOptions...)
	if err := a.Start(); err != nil {
		return nil, operational(err)
	}
	return a, nil
}
