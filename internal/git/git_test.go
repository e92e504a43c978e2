package git

import (
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/execx"
	"github.com/luc-dc/vss2git/internal/logger"
)

func testRunner(mock *execx.MockExecutor) *Runner {
	log := logger.NewWithOutput(false, "", false, io.Discard, io.Discard)
	return NewRunnerWithDeps(Config{RepoDir: "/work/repo"}, log, mock)
}

func TestAdd_BatchesPaths(t *testing.T) {
	mock := execx.NewMockExecutor()
	runner := testRunner(mock)

	require.NoError(t, runner.Add([]string{"a.c", "sub/b.c"}))
	assert.Equal(t, []string{"git", "-C", "/work/repo", "add", "--", "a.c", "sub/b.c"}, mock.LastCmd.Args)
}

func TestAdd_NoPathsIsNoop(t *testing.T) {
	mock := execx.NewMockExecutor()
	require.NoError(t, testRunner(mock).Add(nil))
	assert.Empty(t, mock.Commands)
}

func TestRemove(t *testing.T) {
	mock := execx.NewMockExecutor()
	runner := testRunner(mock)

	require.NoError(t, runner.Remove("old.c", false))
	assert.Equal(t, []string{"git", "-C", "/work/repo", "rm", "--ignore-unmatch", "-f", "--", "old.c"}, mock.LastCmd.Args)

	require.NoError(t, runner.Remove("olddir", true))
	assert.Equal(t, []string{"git", "-C", "/work/repo", "rm", "--ignore-unmatch", "-r", "-f", "--", "olddir"}, mock.LastCmd.Args)
}

func TestCommit_AuthorAndDates(t *testing.T) {
	mock := execx.NewMockExecutor()
	runner := testRunner(mock)

	ts := time.Date(2021, time.March, 12, 14, 5, 0, 0, time.UTC)
	require.NoError(t, runner.Commit("Jdoe", "JIRA-123", ts))

	assert.Equal(t, []string{"git", "-C", "/work/repo", "commit", "-m", "JIRA-123"}, mock.LastCmd.Args)
	assert.Contains(t, mock.LastCmd.Env, "GIT_AUTHOR_NAME=Jdoe")
	assert.Contains(t, mock.LastCmd.Env, "GIT_COMMITTER_NAME=Jdoe")
	assert.Contains(t, mock.LastCmd.Env, "GIT_AUTHOR_DATE=2021-03-12T14:05:00")
	assert.Contains(t, mock.LastCmd.Env, "GIT_COMMITTER_DATE=2021-03-12T14:05:00")
}

func TestCommit_EmptyMessageAllowed(t *testing.T) {
	mock := execx.NewMockExecutor()
	runner := testRunner(mock)

	require.NoError(t, runner.Commit("Jdoe", "", time.Now()))
	assert.Equal(t,
		[]string{"git", "-C", "/work/repo", "commit", "--allow-empty-message", "--no-edit", "-m", ""},
		mock.LastCmd.Args)
}

func TestTag(t *testing.T) {
	mock := execx.NewMockExecutor()
	require.NoError(t, testRunner(mock).Tag("MyProj_1.0.0.0"))
	assert.Equal(t, []string{"git", "-C", "/work/repo", "tag", "--", "MyProj_1.0.0.0"}, mock.LastCmd.Args)
}

func TestPush_RepoThenTags(t *testing.T) {
	mock := execx.NewMockExecutor()
	require.NoError(t, testRunner(mock).Push("master"))

	lines := mock.CommandLines()
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"git", "-C", "/work/repo", "push", "-u", "origin", "HEAD:master"}, lines[0])
	assert.Equal(t, []string{"git", "-C", "/work/repo", "push", "origin", "--tags"}, lines[1])
}

func TestHasCommits(t *testing.T) {
	mock := execx.NewMockExecutor()
	assert.True(t, testRunner(mock).HasCommits())

	mock.ExecuteFn = func(cmd *exec.Cmd) error {
		return errors.New("exit status 1")
	}
	assert.False(t, testRunner(mock).HasCommits())
}

func TestRunWrapsFailures(t *testing.T) {
	mock := execx.NewMockExecutor()
	mock.ExecuteFn = func(cmd *exec.Cmd) error {
		return errors.New("exit status 128")
	}

	err := testRunner(mock).Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrGitOperationFailed))

	var gitErr *errors.GitError
	require.True(t, errors.As(err, &gitErr))
	assert.Equal(t, "init", gitErr.Operation)
}
