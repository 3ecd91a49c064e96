package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitStringConstant               = "git"
	loggerNotConfiguredMessageConstant     = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant     = "shell executor command runner not configured"
	commandFailedTemplateConstant          = "%s %s failed with exit code %d"
	commandFailedWithErrorTemplateConstant = "%s %s failed with exit code %d: %s"
	commandExecutionTemplateConstant       = "%s %s could not be executed: %v"
	commandStartedLogMessageConstant       = "executing command"
	commandCompletedLogMessageConstant     = "command completed"
	commandFailedLogMessageConstant        = "command failed"
	logFieldCommandNameConstant            = "command_name"
	logFieldArgumentsConstant              = "arguments"
	logFieldWorkingDirectoryConstant       = "working_directory"
	logFieldExitCodeConstant               = "exit_code"
	logFieldStandardErrorConstant          = "standard_error"
	toolVersionFlagConstant                = "--version"
	emptySubcommandLabelConstant           = "command"
)

// CommandName identifies an executable the installer invokes.
type CommandName string

// CommandGit names the git binary.
const CommandGit CommandName = CommandName(commandGitStringConstant)

// ErrLoggerNotConfigured indicates a ShellExecutor was created without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates a ShellExecutor was created without a runner.
var ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandDetails describes the arguments and process attributes of an invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// Subcommand returns the first argument, which for git is the subcommand name.
func (command ShellCommand) Subcommand() string {
	if len(command.Details.Arguments) == 0 {
		return emptySubcommandLabelConstant
	}
	return command.Details.Arguments[0]
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs a single process to completion.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	standardError := strings.TrimSpace(failure.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Name, failure.Command.Subcommand(), failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithErrorTemplateConstant, failure.Command.Name, failure.Command.Subcommand(), failure.Result.ExitCode, standardError)
}

// CommandExecutionError reports a process that could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionTemplateConstant, failure.Command.Name, failure.Command.Subcommand(), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// FailureDetail returns the captured standard error of a failed command, or
// the underlying error message when standard error is empty.
func FailureDetail(failure error) string {
	if failure == nil {
		return ""
	}

	var commandFailure CommandFailedError
	if errors.As(failure, &commandFailure) {
		if standardError := strings.TrimSpace(commandFailure.Result.StandardError); len(standardError) > 0 {
			return standardError
		}
		return commandFailure.Error()
	}

	var executionFailure CommandExecutionError
	if errors.As(failure, &executionFailure) && executionFailure.Cause != nil {
		return executionFailure.Cause.Error()
	}

	return failure.Error()
}

// ShellExecutor runs commands through a CommandRunner and logs their lifecycle.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor. Observers receive lifecycle
// notifications in addition to the structured log entries.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	var observer CommandEventObserver = noopCommandEventObserver{}
	for _, candidate := range observers {
		if candidate != nil {
			observer = candidate
		}
	}

	return &ShellExecutor{logger: logger, runner: runner, observer: observer}, nil
}

// Execute runs the command and converts non-zero exits into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)
	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(commandFailedLogMessageConstant, append(commandFields, zap.Error(runError))...)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Debug(
			commandFailedLogMessageConstant,
			append(commandFields,
				zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
				zap.String(logFieldStandardErrorConstant, strings.TrimSpace(executionResult.StandardError)),
			)...,
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
	return executionResult, nil
}

// ExecuteGit runs git with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ToolAvailable reports whether the named executable answers "--version".
// Any failure, including a missing binary, reports false.
func (executor *ShellExecutor) ToolAvailable(executionContext context.Context, name CommandName) bool {
	_, probeError := executor.Execute(executionContext, ShellCommand{
		Name:    name,
		Details: CommandDetails{Arguments: []string{toolVersionFlagConstant}},
	})
	return probeError == nil
}
