// Package process launches the external command lines of stages.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
)

// Command is one command line to run for a stage.
type Command struct {
	// Node is the qualified stage name, used for logging.
	Node string
	// Dir is the working directory. Relative paths are resolved against the
	// runner's base directory; empty means the base directory itself.
	Dir string
	// Line is passed verbatim to the shell.
	Line string
}

// Runner runs a single command line to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, cmd Command) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Error reports a command line that could not be started or exited non-zero.
type Error struct {
	Command Command
	// ExitCode is -1 when the process never produced an exit status.
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %q in %q exited with status %d", e.Command.Line, e.Command.Dir, e.ExitCode)
	}
	return fmt.Sprintf("command %q in %q failed: %v", e.Command.Line, e.Command.Dir, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Shell runs command lines through `sh -c`, inheriting the configured output
// streams. A cancelled context kills the shell.
type Shell struct {
	BaseDir string
	Stdout  io.Writer
	Stderr  io.Writer
	// WaitDelay bounds how long Run waits for output pipes after a kill.
	WaitDelay time.Duration
}

// NewShell returns a Shell rooted at baseDir writing to the process's own
// standard streams.
func NewShell(baseDir string) *Shell {
	return &Shell{
		BaseDir:   baseDir,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		WaitDelay: 5 * time.Second,
	}
}

// Run executes cmd and waits for it.
func (s *Shell) Run(ctx context.Context, cmd Command) error {
	logger := ctxlog.FromContext(ctx)
	dir := s.resolveDir(cmd.Dir)

	c := exec.CommandContext(ctx, "sh", "-c", cmd.Line)
	c.Dir = dir
	c.Stdout = s.Stdout
	c.Stderr = s.Stderr
	c.WaitDelay = s.WaitDelay

	logger.Debug("Starting command.", "dir", dir, "command", cmd.Line)
	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return &Error{Command: cmd, ExitCode: exitErr.ExitCode(), Err: err}
	}
	if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return &Error{Command: cmd, ExitCode: -1, Err: err}
}

func (s *Shell) resolveDir(dir string) string {
	switch {
	case dir == "":
		return s.BaseDir
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(s.BaseDir, dir)
	}
}
