// Package executor abstracts external command execution so pipeline
// stages can be tested with a recording mock.
package executor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandExecutor abstracts subprocess invocation. Every external tool
// the pipeline composes (git, fetch, gclient, gn, ninja, tar, apt-get)
// goes through this interface.
//
// The caller is responsible for validating command arguments; nothing
// here shells out through an interpreter.
type CommandExecutor interface {
	// Run executes a command in dir (empty for the process cwd),
	// streaming combined output to the configured writer. It blocks
	// until the command exits and returns the command's error.
	Run(ctx context.Context, dir, name string, args ...string) error

	// Output executes a command in dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// OSExecutor is the production CommandExecutor backed by os/exec.
type OSExecutor struct {
	// Stdout receives combined subprocess output for Run. Defaults to
	// os.Stdout when nil.
	Stdout io.Writer
	// PathPrepend is a directory searched for bare binary names before
	// PATH. It is also prepended to the child's PATH, since tools
	// living there spawn each other.
	PathPrepend string
}

// NewOSExecutor creates an executor streaming subprocess output to w.
func NewOSExecutor(w io.Writer) *OSExecutor {
	return &OSExecutor{Stdout: w}
}

func (e *OSExecutor) writer() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

// resolve prefers the PathPrepend directory for bare binary names.
// exec.CommandContext looks the name up on the parent process PATH, so
// a PATH entry handed to the child alone would not make the tool
// runnable.
func (e *OSExecutor) resolve(name string) string {
	if e.PathPrepend == "" || filepath.Base(name) != name {
		return name
	}
	if path, err := exec.LookPath(filepath.Join(e.PathPrepend, name)); err == nil {
		return path
	}
	return name
}

// environ returns the child environment with PathPrepend on PATH, or
// nil (inherit unchanged) when no prepend is configured.
func (e *OSExecutor) environ() []string {
	if e.PathPrepend == "" {
		return nil
	}
	env := os.Environ()
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + e.PathPrepend + string(os.PathListSeparator) + strings.TrimPrefix(kv, "PATH=")
		}
	}
	return env
}

// Run executes the command, streaming stdout and stderr to the writer.
// The command is killed when ctx is cancelled.
func (e *OSExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, e.resolve(name), args...)
	cmd.Dir = dir
	cmd.Stdout = e.writer()
	cmd.Stderr = e.writer()
	cmd.Env = e.environ()
	return cmd.Run()
}

// Output executes the command and returns its stdout. Stderr is
// discarded; a non-zero exit is returned as *exec.ExitError.
func (e *OSExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.resolve(name), args...)
	cmd.Dir = dir
	cmd.Env = e.environ()
	return cmd.Output()
}
