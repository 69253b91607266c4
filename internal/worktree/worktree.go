package worktree

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError reports a subprocess that ran to completion but exited
// non-zero. It is the expected, per-pull-request failure mode; anything
// else (missing binary, permission error) surfaces as an ordinary error.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// RunCmd runs a prepared command, capturing combined output. A non-zero
// exit is returned as *CommandError carrying the output; other failures
// are wrapped as-is.
func RunCmd(cmd *exec.Cmd) ([]byte, error) {
	out, err := cmd.CombinedOutput()
	if err == nil {
		return out, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &CommandError{
			Args:     cmd.Args,
			ExitCode: exitErr.ExitCode(),
			Output:   strings.TrimSpace(string(out)),
		}
	}
	return out, fmt.Errorf("%s: %w", strings.Join(cmd.Args, " "), err)
}

// Run executes a command in the current directory. See RunCmd.
func Run(name string, args ...string) ([]byte, error) {
	return RunCmd(exec.Command(name, args...))
}

// RunFunc executes a command and returns its combined output.
type RunFunc func(name string, args ...string) ([]byte, error)

// Tree manipulates the single local clone in place. All operations run git
// in the current working directory — callers are expected to have entered
// the work tree first. Not safe for concurrent use against the same clone.
type Tree struct {
	run RunFunc
}

// New returns a Tree backed by the real git binary.
func New() *Tree {
	return &Tree{run: Run}
}

func (t *Tree) git(args ...string) error {
	_, err := t.run("git", args...)
	return err
}

// Fetch updates remote-tracking branches. Does not touch the working tree.
func (t *Tree) Fetch() error {
	return t.git("fetch")
}

// Reset hard-resets the working tree and index to HEAD, discarding any
// leftover modifications from a prior merge.
func (t *Tree) Reset() error {
	return t.git("reset", "--hard")
}

// Clean removes all untracked and ignored files and directories, so no
// artifact from a previous check leaks into the next one.
func (t *Tree) Clean() error {
	return t.git("clean", "-dfx")
}

// Checkout checks out the remote-tracking ref directly, leaving the clone
// in detached HEAD state. No local branch is created or updated.
func (t *Tree) Checkout(ref string) error {
	return t.git("checkout", "origin/"+ref)
}

// Merge merges the remote-tracking ref into the current checkout, applying
// changes to the working tree and index without creating a commit. A
// conflicted merge comes back as *CommandError.
func (t *Tree) Merge(ref string) error {
	return t.git("merge", "origin/"+ref, "--no-commit")
}
