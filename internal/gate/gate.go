package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"

	"github.com/calegrey/prflight/internal/forge"
	"github.com/calegrey/prflight/internal/worktree"
)

var (
	passMark = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✔")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✘")
)

// Merger brings the local clone to a merged-but-uncommitted state.
// Satisfied by *worktree.Tree.
type Merger interface {
	Fetch() error
	Reset() error
	Clean() error
	Checkout(ref string) error
	Merge(ref string) error
}

// Gate merges each open pull request into the work tree and runs the
// configured checker against the result.
type Gate struct {
	tree              Merger
	workTree          string
	checkerPath       string
	checkerConfigPath string
	out               io.Writer

	runChecker worktree.RunFunc
}

// New creates a Gate. Per-pull-request notices are written to out.
func New(tree Merger, workTree, checkerPath, checkerConfigPath string, out io.Writer) *Gate {
	return &Gate{
		tree:              tree,
		workTree:          workTree,
		checkerPath:       checkerPath,
		checkerConfigPath: checkerConfigPath,
		out:               out,
	}
}

// MergeAndCheck merges head into base in the working tree, then runs the
// checker. Steps run in fixed order — fetch, reset, clean, checkout base,
// merge head, check — and the first failure aborts the rest. Only the
// working tree is modified; no commit is created, and the clone is left in
// detached HEAD state.
func (g *Gate) MergeAndCheck(base, head string) error {
	if err := g.tree.Fetch(); err != nil {
		return err
	}
	if err := g.tree.Reset(); err != nil {
		return err
	}
	if err := g.tree.Clean(); err != nil {
		return err
	}
	if err := g.tree.Checkout(base); err != nil {
		return err
	}
	if err := g.tree.Merge(head); err != nil {
		return err
	}
	return g.check()
}

// check invokes the checker with no arguments in the current directory.
// The optional checker config path is passed through the environment.
func (g *Gate) check() error {
	run := g.runChecker
	if run == nil {
		run = g.execChecker
	}
	_, err := run(g.checkerPath)
	return err
}

func (g *Gate) execChecker(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = os.Environ()
	if g.checkerConfigPath != "" {
		cmd.Env = append(cmd.Env, "CHECKER_CONFIG_PATH="+g.checkerConfigPath)
	}
	return worktree.RunCmd(cmd)
}

// Run enumerates open pull requests and merge-and-checks each one in order.
// The process working directory is switched to the work tree for the whole
// loop and restored on every exit path. A command failure (git or checker)
// is reported for that pull request and the loop continues; any other error
// terminates the run.
func (g *Gate) Run(ctx context.Context, lister forge.Lister) error {
	restore, err := enter(g.workTree)
	if err != nil {
		return err
	}
	defer restore()

	prs, err := lister.ListOpen(ctx)
	if err != nil {
		return err
	}
	slog.Debug("checking open pull requests", "count", len(prs))

	for _, pr := range prs {
		fmt.Fprintf(g.out, "Checking pull request #%d...\n", pr.Number)

		err := g.MergeAndCheck(pr.BaseRef, pr.HeadRef)
		var cmdErr *worktree.CommandError
		switch {
		case err == nil:
			fmt.Fprintf(g.out, "%s Looks good!\n", passMark)
		case errors.As(err, &cmdErr):
			fmt.Fprintf(g.out, "%s Problem with #%d: %v\n", failMark, pr.Number, cmdErr)
		default:
			return err
		}
	}

	return nil
}

// enter changes the working directory to dir and returns a func restoring
// the original directory.
func enter(dir string) (func(), error) {
	orig, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("entering work tree: %w", err)
	}
	return func() {
		if err := os.Chdir(orig); err != nil {
			slog.Error("failed to restore working directory", "dir", orig, "error", err)
		}
	}, nil
}
