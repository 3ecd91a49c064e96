package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/agomusio/no-more-configs/internal/changelog"
	"github.com/agomusio/no-more-configs/internal/editor"
	"github.com/agomusio/no-more-configs/internal/environment"
	"github.com/agomusio/no-more-configs/internal/execshell"
	"github.com/agomusio/no-more-configs/internal/installer"
	"github.com/agomusio/no-more-configs/internal/repository"
	"github.com/agomusio/no-more-configs/internal/ui"
	"github.com/agomusio/no-more-configs/internal/utils"
	flagutils "github.com/agomusio/no-more-configs/internal/utils/flags"
	pathutils "github.com/agomusio/no-more-configs/internal/utils/path"
)

const (
	applicationNameConstant                 = "no-more-configs"
	applicationUsageConstant                = applicationNameConstant + " [directory]"
	applicationShortDescriptionConstant     = "No More Configs installer and updater"
	applicationLongDescriptionConstant      = "Installs No More Configs into a directory, or updates an existing clone.\n\nFresh install:\n  Clones the repo, prints next steps, and tries to open VS Code.\n\nUpdate:\n  Pulls latest changes. If devcontainer files changed, advises rebuild.\n\nMore info: https://github.com/agomusio/no-more-configs"
	applicationExampleConstant              = "  npx no-more-configs\n  npx no-more-configs my-nmc"
	versionTemplateConstant                 = "{{.Version}}\n"
	unknownVersionConstant                  = "unknown"
	develVersionConstant                    = "(devel)"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	commonLogLevelConfigKeyConstant         = "common.log_level"
	commonLogFormatConfigKeyConstant        = "common.log_format"
	environmentPrefixConstant               = "NMC"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	userConfigurationDirectoryNameConstant  = "no-more-configs"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	targetResolvedMessageConstant           = "target directory resolved"
	logFieldTargetPathConstant              = "target_path"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant   = "unable to determine working directory: %w"
	serviceCreationErrorTemplateConstant    = "unable to initialize installer: %w"
	reportedFailureTemplateConstant         = "%w: %w"
	failureReportedMessageConstant          = "failure reported"
	loggerNotInitializedMessageConstant     = "logger not initialized"
)

// ErrFailureReported marks errors already rendered for the user by the reporter.
var ErrFailureReported = errors.New(failureReportedMessageConstant)

// VersionResolver reports the version printed by --version.
type VersionResolver func(context.Context) string

// Application wires the Cobra root command, configuration loader, structured
// logger and installer service.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	versionResolver       VersionResolver
	pathResolver          *pathutils.TargetPathResolver
	commandRunner         execshell.CommandRunner
	standardOutput        io.Writer
	errorOutput           io.Writer
	workingDirectory      string
	lookupVariable        func(string) (string, bool)
	containerPathExists   environment.PathChecker
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName: configurationNameConstant,
		ConfigurationType: configurationTypeConstant,
		EnvironmentPrefix: environmentPrefixConstant,
		SearchPaths:       configurationSearchPaths(),
	})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		versionResolver:     resolveBuildVersion,
		pathResolver:        pathutils.NewTargetPathResolver(),
		commandRunner:       execshell.NewOSCommandRunner(),
		standardOutput:      os.Stdout,
		errorOutput:         os.Stderr,
		lookupVariable:      os.LookupEnv,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationUsageConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Example:       applicationExampleConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}
	cobraCommand.SetVersionTemplate(versionTemplateConstant)

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogLevelError), utils.SupportedLogLevels(), logLevelFlagUsageConstant),
	)
	persistentFlags.StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagUsageConstant),
	)

	application.rootCommand = cobraCommand
	return application
}

// Execute runs the root command under executionContext and flushes the logger.
func (application *Application) Execute(executionContext context.Context) error {
	if executionContext == nil {
		executionContext = context.Background()
	}
	application.rootCommand.Version = application.versionResolver(executionContext)
	application.rootCommand.SetOut(application.standardOutput)
	application.rootCommand.SetErr(application.errorOutput)

	executionError := application.rootCommand.ExecuteContext(executionContext)
	if syncError := application.syncLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and runs it with the process arguments.
func Execute(executionContext context.Context) error {
	return NewApplication().Execute(executionContext)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logLevel, logLevelError := flagutils.NormalizeChoice(logLevelFlagNameConstant, application.configuration.Common.LogLevel, utils.SupportedLogLevels())
	if logLevelError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logLevelError)
	}
	logFormat, logFormatError := flagutils.NormalizeChoice(logFormatFlagNameConstant, application.configuration.Common.LogFormat, utils.SupportedLogFormats())
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}
	application.configuration.Common.LogLevel = logLevel
	application.configuration.Common.LogFormat = logFormat

	logger, loggerCreationError := application.loggerFactory.CreateLogger(utils.LogLevel(logLevel), utils.LogFormat(logFormat))
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, logLevel),
		zap.String(configurationLogFormatFieldConstant, logFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)
	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	workingDirectory := application.workingDirectory
	if len(workingDirectory) == 0 {
		resolvedWorkingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
		}
		workingDirectory = resolvedWorkingDirectory
	}

	targetArgument := application.configuration.Installer.DefaultDirectory
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		targetArgument = arguments[0]
	}
	targetPath := application.pathResolver.Resolve(targetArgument, workingDirectory)
	application.logger.Debug(targetResolvedMessageConstant, zap.String(logFieldTargetPathConstant, targetPath))

	reporter := ui.NewConsoleReporter(application.standardOutput, application.errorOutput, ui.NewPalette(application.standardOutput, application.colorEnabled()))
	service, serviceError := application.buildService(workingDirectory, reporter)
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	runError := service.Run(command.Context(), targetPath)
	if flowError, isFlowError := installer.AsFlowError(runError); isFlowError {
		reporter.ReportFailure(flowError)
		return fmt.Errorf(reportedFailureTemplateConstant, ErrFailureReported, runError)
	}
	return runError
}

func (application *Application) buildService(workingDirectory string, reporter installer.Reporter) (*installer.Service, error) {
	var commandObservers []execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		commandObservers = append(commandObservers, ui.NewConsoleCommandEventLogger(application.logger))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, application.commandRunner, commandObservers...)
	if executorError != nil {
		return nil, executorError
	}

	installerConfiguration := application.configuration.Installer
	return installer.NewService(
		installer.Options{
			RepositoryURL:    installerConfiguration.RepositoryURL,
			RemoteName:       installerConfiguration.RemoteName,
			BranchName:       installerConfiguration.BranchName,
			SubtreePath:      installerConfiguration.SubtreePath,
			UserFiles:        installerConfiguration.UserFiles,
			WorkingDirectory: workingDirectory,
		},
		installer.Dependencies{
			Logger:         application.logger,
			GitExecutor:    shellExecutor,
			EditorLauncher: editor.NewLauncher(shellExecutor, installerConfiguration.EditorCommand, installerConfiguration.EditorTimeout),
			VersionReader:  changelog.NewReader(nil, installerConfiguration.ChangelogFile),
			Classifier: repository.NewClassifier(
				repository.Options{
					ProjectIdentifier: installerConfiguration.ProjectIdentifier,
					RemoteName:        installerConfiguration.RemoteName,
					MarkerPaths:       installerConfiguration.MarkerPaths,
				},
				repository.Dependencies{},
			),
			ContainerDetector: environment.NewContainerDetector(
				installerConfiguration.ContainerMarkerFile,
				installerConfiguration.ContainerEnvironmentVariables,
				application.containerPathExists,
				application.lookupVariable,
			),
			Reporter: reporter,
		},
	)
}

func (application *Application) colorEnabled() bool {
	outputFile, isFile := application.standardOutput.(*os.File)
	if !isFile {
		return false
	}
	return ui.ColorEnabled(application.lookupVariable, ui.IsTerminal(outputFile))
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(application.configuration.Common.LogFormat), string(utils.LogFormatConsole))
}

func (application *Application) syncLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP), errors.Is(syncError, syscall.EINVAL), errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{command.PersistentFlags(), command.InheritedFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, userConfigurationError := os.UserConfigDir(); userConfigurationError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersionConstant
	}
	version := strings.TrimSpace(buildInformation.Main.Version)
	if len(version) == 0 || version == develVersionConstant {
		return unknownVersionConstant
	}
	return version
}
