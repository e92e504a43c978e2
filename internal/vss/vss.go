package vss

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/execx"
	"github.com/luc-dc/vss2git/internal/logger"
)

// Config contains the settings needed to drive the SourceSafe client.
type Config struct {
	// Exe is the full path to ss.exe
	Exe string

	// RepoDir is the SourceSafe repository folder containing srcsafe.ini
	RepoDir string

	// User and Password are the SourceSafe login credentials
	User     string
	Password string

	// ProjectBase is the project base folder within SourceSafe ("$")
	ProjectBase string
}

// Runner invokes the SourceSafe command-line client. All legacy-side
// information is obtained exclusively through the client's text output;
// the internal storage format is never touched.
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
	return &Runner{
		config:   config,
		executor: executor,
		logger:   log,
	}
}

// History returns the raw text of the full history log for a project.
func (r *Runner) History(project string) (string, error) {
	cmd := r.command("history", r.projectPath(project))

	output, err := r.executor.ExecuteWithOutput(cmd)
	if err != nil {
		return "", errors.NewVSSError("history", project, "",
			errors.Wrap(errors.ErrVSSOperationFailed, err.Error()), "")
	}
	return output, nil
}

// GetAtLabel checks out the project tree as of the given label into
// outDir. An empty label retrieves the current tree. SourceSafe marks
// retrieved files read-only, so the tree is made writable afterwards.
func (r *Runner) GetAtLabel(project, label, outDir string) error {
	args := []string{r.projectPath(project), "-I-N", "-r", "-gf", "-gl."}
	if label != "" {
		args = append(args, "-vl"+label)
	}

	cmd := r.command("get", args...)
	cmd.Dir = outDir

	if err := r.executor.Execute(cmd); err != nil {
		return errors.NewVSSError("get", project, label,
			errors.Wrap(errors.ErrVSSOperationFailed, err.Error()), "")
	}

	if err := makeWritable(outDir); err != nil {
		r.logger.Warning("Failed to clear read-only flags under %s: %v", outDir, err)
	}
	return nil
}

// projectPath joins the configured project base and a project name.
func (r *Runner) projectPath(project string) string {
	return r.config.ProjectBase + "/" + project
}

// command builds a ss invocation with the repository and credential
// environment the client expects.
func (r *Runner) command(operation string, args ...string) *exec.Cmd {
	cmd := exec.Command(r.config.Exe, append([]string{operation}, args...)...)
	cmd.Env = append(os.Environ(),
		"SSDIR="+r.config.RepoDir,
		"SSUSER="+r.config.User,
		"SSPWD="+r.config.Password,
	)
	return cmd
}

// makeWritable strips the read-only flag from every file under root.
func makeWritable(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.Chmod(path, 0755)
		}
		return os.Chmod(path, 0644)
	})
}
