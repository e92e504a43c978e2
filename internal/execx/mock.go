package execx

import (
	"os/exec"
)

// MockExecutor is a CommandExecutor that records commands instead of
// running them. It is shared by the vss, git and convert package tests.
type MockExecutor struct {
	Output              string
	LastCmd             *exec.Cmd
	Commands            []*exec.Cmd
	ExecuteFn           func(cmd *exec.Cmd) error
	ExecuteWithOutputFn func(cmd *exec.Cmd) (string, error)
}

// NewMockExecutor creates a new mock executor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands: make([]*exec.Cmd, 0),
	}
}

// Execute implements the CommandExecutor interface
func (m *MockExecutor) Execute(cmd *exec.Cmd) error {
	m.LastCmd = cmd
	m.Commands = append(m.Commands, cmd)

	if m.ExecuteFn != nil {
		return m.ExecuteFn(cmd)
	}
	return nil
}

// ExecuteWithOutput implements the CommandExecutor interface
func (m *MockExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	m.LastCmd = cmd
	m.Commands = append(m.Commands, cmd)

	if m.ExecuteWithOutputFn != nil {
		return m.ExecuteWithOutputFn(cmd)
	}
	return m.Output, nil
}

// CommandLines renders every recorded command as its argument vector.
// Convenient for asserting on staged git operations in order.
func (m *MockExecutor) CommandLines() [][]string {
	lines := make([][]string, 0, len(m.Commands))
	for _, cmd := range m.Commands {
		lines = append(lines, cmd.Args)
	}
	return lines
}
