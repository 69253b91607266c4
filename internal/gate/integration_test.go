package gate

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calegrey/prflight/internal/forge"
	"github.com/calegrey/prflight/internal/worktree"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// setupRepos builds an upstream repo with a mergeable branch and a
// conflicting branch, plus a local clone to use as the work tree.
func setupRepos(t *testing.T) (upstream, clone string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	upstream = filepath.Join(dir, "upstream")
	clone = filepath.Join(dir, "clone")
	require.NoError(t, os.MkdirAll(upstream, 0755))

	runGit(t, upstream, "init", "-b", "main")
	runGit(t, upstream, "config", "user.email", "test@example.com")
	runGit(t, upstream, "config", "user.name", "Test")

	writeFile(t, upstream, "a.txt", "base\n")
	runGit(t, upstream, "add", "a.txt")
	runGit(t, upstream, "commit", "-m", "base")

	// Mergeable branch: adds a new file.
	runGit(t, upstream, "checkout", "-b", "feature-clean")
	writeFile(t, upstream, "b.txt", "feature\n")
	runGit(t, upstream, "add", "b.txt")
	runGit(t, upstream, "commit", "-m", "add b")
	runGit(t, upstream, "checkout", "main")

	// Conflicting branch: edits the same line as a later main commit.
	runGit(t, upstream, "checkout", "-b", "feature-conflict")
	writeFile(t, upstream, "a.txt", "branch edit\n")
	runGit(t, upstream, "commit", "-am", "branch edit")
	runGit(t, upstream, "checkout", "main")
	writeFile(t, upstream, "a.txt", "main edit\n")
	runGit(t, upstream, "commit", "-am", "main edit")

	runGit(t, dir, "clone", upstream, clone)
	return upstream, clone
}

// writeChecker writes an executable script that exits with the given code.
func writeChecker(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run-checks")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func TestRunAgainstRealGit(t *testing.T) {
	_, clone := setupRepos(t)
	checker := writeChecker(t, "exit 0")

	var buf bytes.Buffer
	g := New(worktree.New(), clone, checker, "", &buf)

	lister := &staticLister{prs: []forge.PullRequest{
		{Number: 5, BaseRef: "main", HeadRef: "feature-clean"},
		{Number: 7, BaseRef: "main", HeadRef: "feature-conflict"},
	}}
	require.NoError(t, g.Run(context.Background(), lister))

	out := buf.String()
	assert.Contains(t, out, "Checking pull request #5...")
	assert.Contains(t, out, "Looks good!")
	assert.Contains(t, out, "Problem with #7")
	assert.Contains(t, out, "exit status 1")

	// Merge leftovers from #7 must not survive — the work tree is the shared
	// mutable resource and the next run starts from a clean state.
	g2 := New(worktree.New(), clone, checker, "", &bytes.Buffer{})
	require.NoError(t, g2.Run(context.Background(), &staticLister{prs: []forge.PullRequest{
		{Number: 5, BaseRef: "main", HeadRef: "feature-clean"},
	}}))
}

func TestRunAgainstRealGitCheckerFails(t *testing.T) {
	_, clone := setupRepos(t)
	checker := writeChecker(t, "exit 1")

	var buf bytes.Buffer
	g := New(worktree.New(), clone, checker, "", &buf)

	lister := &staticLister{prs: []forge.PullRequest{
		{Number: 5, BaseRef: "main", HeadRef: "feature-clean"},
	}}
	require.NoError(t, g.Run(context.Background(), lister))

	assert.Contains(t, buf.String(), "Problem with #5")
	assert.Contains(t, buf.String(), "exit status 1")
}

func TestRunAgainstRealGitIdempotent(t *testing.T) {
	_, clone := setupRepos(t)
	checker := writeChecker(t, "exit 0")

	lister := &staticLister{prs: []forge.PullRequest{
		{Number: 5, BaseRef: "main", HeadRef: "feature-clean"},
	}}

	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		g := New(worktree.New(), clone, checker, "", &buf)
		require.NoError(t, g.Run(context.Background(), lister))
		assert.Contains(t, buf.String(), "Looks good!", "run %d", i+1)
	}
}

func TestCheckerReceivesConfigPath(t *testing.T) {
	_, clone := setupRepos(t)
	checker := writeChecker(t, `[ "$CHECKER_CONFIG_PATH" = "/etc/checker.cfg" ] || exit 1`)

	var buf bytes.Buffer
	g := New(worktree.New(), clone, checker, "/etc/checker.cfg", &buf)

	lister := &staticLister{prs: []forge.PullRequest{
		{Number: 5, BaseRef: "main", HeadRef: "feature-clean"},
	}}
	require.NoError(t, g.Run(context.Background(), lister))

	assert.Contains(t, buf.String(), "Looks good!")
}
