package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agomusio/no-more-configs/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	commandArgumentsJoinSeparatorConstant          = " "
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant                  = "unknown error"
	gitCloneSubcommandNameConstant                 = "clone"
	gitFetchSubcommandNameConstant                 = "fetch"
	gitPullSubcommandNameConstant                  = "pull"
	gitRevParseSubcommandNameConstant              = "rev-parse"
	gitStatusSubcommandNameConstant                = "status"
	gitCloneDescriptionTemplateConstant            = "clone of %s into %s"
	gitFetchDescriptionTemplateConstant            = "fetch from %s"
	gitPullDescriptionTemplateConstant             = "pull of %s from %s"
	gitRevParseDescriptionTemplateConstant         = "resolution of %s"
	gitStatusDescriptionConstant                   = "working tree status review"
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandStartedMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	return fmt.Sprintf(commandCompletedMessageTemplateConstant, formatter.describeCommand(command))
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	baseMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, formatter.describeCommand(command), result.ExitCode)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, formatter.describeCommand(command), failureMessage)
}

func (formatter CommandEventFormatter) describeCommand(command execshell.ShellCommand) string {
	if command.Name != execshell.CommandGit {
		return formatter.formatCommandLabel(command)
	}

	arguments := command.Details.Arguments
	switch command.Subcommand() {
	case gitCloneSubcommandNameConstant:
		if len(arguments) >= 3 {
			return fmt.Sprintf(gitCloneDescriptionTemplateConstant, arguments[1], arguments[2])
		}
	case gitFetchSubcommandNameConstant:
		if len(arguments) >= 2 {
			return fmt.Sprintf(gitFetchDescriptionTemplateConstant, arguments[1]) + formatter.formatWorkingDirectorySuffix(command)
		}
	case gitPullSubcommandNameConstant:
		if len(arguments) >= 3 {
			return fmt.Sprintf(gitPullDescriptionTemplateConstant, arguments[2], arguments[1]) + formatter.formatWorkingDirectorySuffix(command)
		}
	case gitRevParseSubcommandNameConstant:
		if len(arguments) >= 2 {
			return fmt.Sprintf(gitRevParseDescriptionTemplateConstant, arguments[len(arguments)-1]) + formatter.formatWorkingDirectorySuffix(command)
		}
	case gitStatusSubcommandNameConstant:
		return gitStatusDescriptionConstant + formatter.formatWorkingDirectorySuffix(command)
	}
	return formatter.formatCommandLabel(command)
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := []string{string(command.Name)}
	commandParts = append(commandParts, command.Details.Arguments...)
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant) + formatter.formatWorkingDirectorySuffix(command)
}

func (formatter CommandEventFormatter) formatWorkingDirectorySuffix(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return ""
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

// ConsoleCommandEventLogger renders command lifecycle events using a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver. Non-zero exits log at warn level.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver. Spawn
// failures log at warn level; callers decide whether the failure is fatal.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
