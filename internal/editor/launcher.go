package editor

import (
	"context"
	"strings"
	"time"

	"github.com/agomusio/no-more-configs/internal/execshell"
)

const (
	// DefaultCommandConstant names the editor launched when none is configured.
	DefaultCommandConstant = "code"
	// DefaultTimeoutConstant bounds how long the launcher waits for the editor command.
	DefaultTimeoutConstant = 5 * time.Second
)

// CommandExecutor runs a single external command.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Launcher starts an editor on a directory with a bounded wait.
type Launcher struct {
	executor CommandExecutor
	command  execshell.CommandName
	timeout  time.Duration
}

// NewLauncher constructs a Launcher. Blank commands and non-positive timeouts
// fall back to the defaults.
func NewLauncher(executor CommandExecutor, command string, timeout time.Duration) *Launcher {
	trimmedCommand := strings.TrimSpace(command)
	if len(trimmedCommand) == 0 {
		trimmedCommand = DefaultCommandConstant
	}
	if timeout <= 0 {
		timeout = DefaultTimeoutConstant
	}
	return &Launcher{executor: executor, command: execshell.CommandName(trimmedCommand), timeout: timeout}
}

// Open reports whether the editor accepted the directory before the timeout.
func (launcher *Launcher) Open(executionContext context.Context, directory string) bool {
	if launcher == nil || launcher.executor == nil {
		return false
	}

	boundedContext, cancel := context.WithTimeout(executionContext, launcher.timeout)
	defer cancel()

	_, executionError := launcher.executor.Execute(boundedContext, execshell.ShellCommand{
		Name:    launcher.command,
		Details: execshell.CommandDetails{Arguments: []string{directory}},
	})
	return executionError == nil
}
