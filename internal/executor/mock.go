package executor

import (
	"context"
	"fmt"
	"strings"
)

// Call records a single executed command.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a shell-like line, used by tests.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// RecordingExecutor is a CommandExecutor for tests. It records every
// invocation and replies with scripted output keyed by a command-line
// prefix match.
type RecordingExecutor struct {
	Calls   []Call
	Outputs map[string][]byte // command-line prefix -> stdout
	Errs    map[string]error  // command-line prefix -> error
}

// NewRecordingExecutor creates an empty RecordingExecutor.
func NewRecordingExecutor() *RecordingExecutor {
	return &RecordingExecutor{
		Outputs: make(map[string][]byte),
		Errs:    make(map[string]error),
	}
}

// Script registers stdout and an error for commands starting with prefix.
func (e *RecordingExecutor) Script(prefix string, out []byte, err error) {
	e.Outputs[prefix] = out
	e.Errs[prefix] = err
}

func (e *RecordingExecutor) lookup(line string) ([]byte, error, bool) {
	for prefix := range e.Outputs {
		if strings.HasPrefix(line, prefix) {
			return e.Outputs[prefix], e.Errs[prefix], true
		}
	}
	for prefix, err := range e.Errs {
		if strings.HasPrefix(line, prefix) {
			return nil, err, true
		}
	}
	return nil, nil, false
}

// Run records the call and returns the scripted error, if any.
func (e *RecordingExecutor) Run(_ context.Context, dir, name string, args ...string) error {
	call := Call{Dir: dir, Name: name, Args: args}
	e.Calls = append(e.Calls, call)
	if _, err, ok := e.lookup(call.String()); ok {
		return err
	}
	return nil
}

// Output records the call and returns the scripted stdout, if any.
// Unscripted commands return empty output.
func (e *RecordingExecutor) Output(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	call := Call{Dir: dir, Name: name, Args: args}
	e.Calls = append(e.Calls, call)
	if out, err, ok := e.lookup(call.String()); ok {
		return out, err
	}
	return nil, nil
}

// CommandLines returns every recorded call rendered as a command line.
func (e *RecordingExecutor) CommandLines() []string {
	lines := make([]string, 0, len(e.Calls))
	for _, call := range e.Calls {
		lines = append(lines, call.String())
	}
	return lines
}

// CallsNamed returns the recorded calls for a given command name.
func (e *RecordingExecutor) CallsNamed(name string) []Call {
	var out []Call
	for _, call := range e.Calls {
		if call.Name == name {
			out = append(out, call)
		}
	}
	return out
}

var _ CommandExecutor = (*RecordingExecutor)(nil)

// Errf is a convenience for scripting failures.
func Errf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
