// Package image builds and pushes the container image described by a unit's
// image descriptor, shelling out to the docker CLI.
package image

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/kubegen/cli/internal/output"
)

// RunOptions adjusts a single command invocation.
type RunOptions struct {
	// Env is appended to the current process environment.
	Env []string

	// Stdin is fed to the command when non-empty.
	Stdin string
}

// CommandRunner executes a command and returns its combined output.
type CommandRunner interface {
	RunCommand(ctx context.Context, opts RunOptions, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

// RunCommand implements CommandRunner.
func (ExecRunner) RunCommand(ctx context.Context, opts RunOptions, args ...string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("no command given")
	}
	output.Debug("running command", "args", strings.Join(redact(args), " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output.Debug("command finished", "output", out.String())
	return out.String(), err
}

// redact hides the value following a password flag.
func redact(args []string) []string {
	out := append([]string(nil), args...)
	for i := range out {
		if (out[i] == "-p" || out[i] == "--password") && i+1 < len(out) {
			out[i+1] = "****"
		}
	}
	return out
}

// Call is one recorded FakeRunner invocation.
type Call struct {
	Args []string
	Opts RunOptions
}

// FakeRunner records invocations and replies from a canned table keyed by
// the joined argument list. Unmatched commands succeed with empty output.
type FakeRunner struct {
	Outputs map[string]string
	Errors  map[string]error

	mu    sync.Mutex
	calls []Call
}

var _ CommandRunner = (*FakeRunner)(nil)

// RunCommand implements CommandRunner.
func (f *FakeRunner) RunCommand(_ context.Context, opts RunOptions, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Args: args, Opts: opts})

	key := strings.Join(args, " ")
	return f.Outputs[key], f.Errors[key]
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Commands returns the recorded invocations as joined strings.
func (f *FakeRunner) Commands() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = strings.Join(c.Args, " ")
	}
	return out
}
