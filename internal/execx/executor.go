package execx

import (
	"bytes"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/luc-dc/vss2git/internal/errors"
	"github.com/luc-dc/vss2git/internal/logger"
)

// CommandExecutor defines an interface for executing external commands.
// Both the SourceSafe and git runners are built on top of it so tests can
// substitute a mock and assert on the exact command lines.
type CommandExecutor interface {
	// Execute runs a command and returns an error if it exits non-zero
	Execute(cmd *exec.Cmd) error

	// ExecuteWithOutput runs a command and returns its standard output
	ExecuteWithOutput(cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct {
	log logger.Logger
}

// NewExecExecutor creates a new ExecExecutor. The logger may be nil.
func NewExecExecutor(log logger.Logger) *ExecExecutor {
	return &ExecExecutor{log: log}
}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(cmd *exec.Cmd) error {
	e.logCommand(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return commandError(cmd, err, stderr.String())
	}
	return nil
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput
func (e *ExecExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	e.logCommand(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), commandError(cmd, err, stderr.String())
	}
	return stdout.String(), nil
}

// logCommand writes the shell-quoted command line to the debug log
func (e *ExecExecutor) logCommand(cmd *exec.Cmd) {
	if e.log != nil {
		e.log.Info("exec: %s", shellquote.Join(cmd.Args...))
	}
}

// commandError builds a wrapped error carrying the command line and stderr
func commandError(cmd *exec.Cmd, err error, stderr string) error {
	quoted := shellquote.Join(cmd.Args...)
	if stderr != "" {
		return errors.Wrapf(err, "command %s failed: %s", quoted, stderr)
	}
	return errors.Wrapf(err, "command %s failed", quoted)
}
