package git

import (
	"os"
	"os/exec"
	"time"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/execx"
	"github.com/luc-dc/vss2git/internal/logger"
)

// Config contains the settings for the target repository runner.
type Config struct {
	// Exe is the git executable; an empty value means "git" from PATH
	Exe string

	// RepoDir is the work repository the conversion commits into
	RepoDir string
}

// Runner drives the git binary against the work repository. Staging is
// idempotent: adding an already-tracked path or removing an untracked one
// is a no-op, never an error.
type Runner struct {
	config   Config
	executor execx.CommandExecutor
	logger   logger.Logger
}

// NewRunner creates a Runner with the default executor.
func NewRunner(config Config, log logger.Logger) *Runner {
	return NewRunnerWithDeps(config, log, execx.NewExecExecutor(log))
}

// NewRunnerWithDeps creates a Runner with a custom executor.
func NewRunnerWithDeps(config Config, log logger.Logger, executor execx.CommandExecutor) *Runner {
	if config.Exe == "" {
		config.Exe = "git"
	}
	return &Runner{
		config:   config,
		executor: executor,
		logger:   log,
	}
}

// Init creates the work repository.
func (r *Runner) Init() error {
	return r.run("init")
}

// Add stages the given paths.
func (r *Runner) Add(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return r.run(append([]string{"add", "--"}, paths...)...)
}

// AddAll stages every change in the work tree.
func (r *Runner) AddAll() error {
	return r.run("add", "-A")
}

// Remove unstages and deletes a path. Removing an untracked path is
// treated as a no-op rather than an error.
func (r *Runner) Remove(path string, recursive bool) error {
	args := []string{"rm", "--ignore-unmatch"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, "-f", "--", path)
	return r.run(args...)
}

// Commit creates a commit over the staged changes, attributed to the
// release's author and timestamp on both the author and committer side.
// An empty message is tolerated: legacy labels frequently carry none.
func (r *Runner) Commit(author, message string, timestamp time.Time) error {
	when := timestamp.Format("2006-01-02T15:04:05")
	env := []string{
		"GIT_AUTHOR_NAME=" + author,
		"GIT_AUTHOR_EMAIL=",
		"GIT_AUTHOR_DATE=" + when,
		"GIT_COMMITTER_NAME=" + author,
		"GIT_COMMITTER_EMAIL=",
		"GIT_COMMITTER_DATE=" + when,
	}

	args := []string{"commit"}
	if message == "" {
		args = append(args, "--allow-empty-message", "--no-edit")
	}
	args = append(args, "-m", message)

	return r.runWithEnv(env, args...)
}

// Tag applies a tag to the current HEAD.
func (r *Runner) Tag(name string) error {
	return r.run("tag", "--", name)
}

// HasCommits reports whether the work repository has a HEAD to tag.
func (r *Runner) HasCommits() bool {
	err := r.run("rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// SetRemote registers the push target as origin.
func (r *Runner) SetRemote(url string) error {
	return r.run("remote", "add", "origin", url)
}

// Push publishes the converted history and its tags. Invoked at most
// once, after all releases are processed.
func (r *Runner) Push(branch string) error {
	if err := r.run("push", "-u", "origin", "HEAD:"+branch); err != nil {
		return err
	}
	return r.run("push", "origin", "--tags")
}

// run executes a git command in the work repository.
func (r *Runner) run(args ...string) error {
	return r.runWithEnv(nil, args...)
}

// runWithEnv executes a git command with extra environment variables.
func (r *Runner) runWithEnv(env []string, args ...string) error {
	baseArgs := []string{"-C", r.config.RepoDir}
	cmd := exec.Command(r.config.Exe, append(baseArgs, args...)...)
	cmd.Dir = r.config.RepoDir
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}

	if err := r.executor.Execute(cmd); err != nil {
		operation := ""
		if len(args) > 0 {
			operation = args[0]
		}
		return errors.NewGitError(operation, args,
			errors.Wrap(errors.ErrGitOperationFailed, err.Error()), "")
	}
	return nil
}
