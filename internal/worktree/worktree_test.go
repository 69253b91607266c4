package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{
		Args:     []string{"git", "merge", "origin/feature", "--no-commit"},
		ExitCode: 1,
		Output:   "CONFLICT (content): Merge conflict in a.txt",
	}
	assert.Equal(t, "git merge origin/feature --no-commit: exit status 1: CONFLICT (content): Merge conflict in a.txt", err.Error())

	noOutput := &CommandError{Args: []string{"git", "fetch"}, ExitCode: 128}
	assert.Equal(t, "git fetch: exit status 128", noOutput.Error())
}

func TestRunSuccess(t *testing.T) {
	out, err := Run("sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRunNonZeroExit(t *testing.T) {
	_, err := Run("sh", "-c", "echo boom; exit 3")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "boom", cmdErr.Output)
	assert.Equal(t, []string{"sh", "-c", "echo boom; exit 3"}, cmdErr.Args)
}

func TestRunMissingBinaryIsNotCommandError(t *testing.T) {
	_, err := Run("definitely-not-a-real-binary-xyz")
	require.Error(t, err)

	var cmdErr *CommandError
	assert.NotErrorAs(t, err, &cmdErr)
}

// recordingRunner captures invocations without touching git.
type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) run(name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil, nil
}

func TestTreeCommands(t *testing.T) {
	rec := &recordingRunner{}
	tree := &Tree{run: rec.run}

	require.NoError(t, tree.Fetch())
	require.NoError(t, tree.Reset())
	require.NoError(t, tree.Clean())
	require.NoError(t, tree.Checkout("main"))
	require.NoError(t, tree.Merge("feature-x"))

	assert.Equal(t, [][]string{
		{"git", "fetch"},
		{"git", "reset", "--hard"},
		{"git", "clean", "-dfx"},
		{"git", "checkout", "origin/main"},
		{"git", "merge", "origin/feature-x", "--no-commit"},
	}, rec.calls)
}
