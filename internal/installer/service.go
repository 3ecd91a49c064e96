package installer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/agomusio/no-more-configs/internal/changelog"
	"github.com/agomusio/no-more-configs/internal/execshell"
	"github.com/agomusio/no-more-configs/internal/repository"
)

const (
	// DefaultRepositoryURLConstant is the upstream clone URL of the managed repository.
	DefaultRepositoryURLConstant = "https://github.com/agomusio/no-more-configs.git"
	// DefaultBranchNameConstant is the remote branch updates are pulled from.
	DefaultBranchNameConstant = "main"
	// DefaultSubtreePathConstant is the subtree whose changes require a container rebuild.
	DefaultSubtreePathConstant = ".devcontainer"
	// DefaultInvocationNameConstant is how users invoke the installer in hints.
	DefaultInvocationNameConstant = "npx no-more-configs"

	gitCloneSubcommandConstant                  = "clone"
	gitFetchSubcommandConstant                  = "fetch"
	gitPullSubcommandConstant                   = "pull"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitStatusUntrackedNoFlagConstant            = "--untracked-files=no"
	gitHeadReferenceConstant                    = "HEAD"
	gitTreeReferenceTemplateSeparatorConstant   = ":"
	gitRemoteReferenceSeparatorConstant         = "/"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	cloningProgressMessageConstant              = "Cloning repository..."
	fetchingProgressMessageConstant             = "Fetching updates..."
	pullingProgressMessageConstant              = "Pulling changes..."
	executorMissingMessageConstant              = "git executor not configured"
	reporterMissingMessageConstant              = "reporter not configured"
	classificationLogMessageConstant            = "target directory classified"
	subtreeHashUnavailableLogMessageConstant    = "subtree hash unavailable before update"
	subtreeHashRecomputeLogMessageConstant      = "subtree hash unavailable after update; assuming rebuild"
	headComparisonLogMessageConstant            = "head comparison unavailable; continuing with pull"
	statusUnavailableLogMessageConstant         = "working tree status unavailable; skipping dirty check"
	managedModificationsLogMessageConstant      = "tracked managed files modified"
	logFieldTargetPathConstant                  = "target_path"
	logFieldClassificationConstant              = "classification"
	logFieldModifiedPathsConstant               = "modified_paths"
)

// ErrGitExecutorNotConfigured indicates the service was built without a git executor.
var ErrGitExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrReporterNotConfigured indicates the service was built without a reporter.
var ErrReporterNotConfigured = errors.New(reporterMissingMessageConstant)

// GitExecutor runs git and probes for its availability.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ToolAvailable(executionContext context.Context, name execshell.CommandName) bool
}

// EditorLauncher opens a directory in an editor, reporting whether it succeeded.
type EditorLauncher interface {
	Open(executionContext context.Context, directory string) bool
}

// VersionReader reads the managed repository version from a directory.
type VersionReader interface {
	ReadVersion(repositoryDirectory string) (string, bool)
}

// Classifier decides what a target directory is.
type Classifier interface {
	Classify(path string) repository.Classification
}

// ContainerDetector reports whether the process runs inside a development container.
type ContainerDetector interface {
	InsideContainer() bool
}

// InstallSummary describes a completed install.
type InstallSummary struct {
	DirectoryName string
	Version       string
	EditorOpened  bool
}

// UpdateSummary describes a completed update.
type UpdateSummary struct {
	DirectoryName   string
	PreviousVersion string
	CurrentVersion  string
	RebuildNeeded   bool
	InsideContainer bool
}

// Reporter renders flow progress for a human reader.
type Reporter interface {
	InstallStarted(directoryName string)
	UpdateStarted(directoryName string)
	Progress(message string)
	InstallCompleted(summary InstallSummary)
	AlreadyUpToDate(version string)
	DirtyTreeWarning(modifiedPaths []string)
	UpdateCompleted(summary UpdateSummary)
}

// Options configures the flows.
type Options struct {
	RepositoryURL  string
	RemoteName     string
	BranchName     string
	SubtreePath    string
	UserFiles      []string
	InvocationName string
	// WorkingDirectory is where clone runs; empty uses the process directory.
	WorkingDirectory string
}

// Dependencies enumerates collaborators of the Service.
type Dependencies struct {
	Logger            *zap.Logger
	GitExecutor       GitExecutor
	EditorLauncher    EditorLauncher
	VersionReader     VersionReader
	Classifier        Classifier
	ContainerDetector ContainerDetector
	Reporter          Reporter
}

// Service coordinates install and update of the managed repository.
type Service struct {
	logger            *zap.Logger
	executor          GitExecutor
	editorLauncher    EditorLauncher
	versionReader     VersionReader
	classifier        Classifier
	containerDetector ContainerDetector
	reporter          Reporter
	options           Options
}

// NewService validates dependencies and fills blank options with defaults.
func NewService(options Options, dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.Reporter == nil {
		return nil, ErrReporterNotConfigured
	}

	service := &Service{
		logger:            dependencies.Logger,
		executor:          dependencies.GitExecutor,
		editorLauncher:    dependencies.EditorLauncher,
		versionReader:     dependencies.VersionReader,
		classifier:        dependencies.Classifier,
		containerDetector: dependencies.ContainerDetector,
		reporter:          dependencies.Reporter,
		options:           sanitizeOptions(options),
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.versionReader == nil {
		service.versionReader = changelog.NewReader(nil, changelog.DefaultFileNameConstant)
	}
	if service.classifier == nil {
		service.classifier = repository.NewClassifier(repository.Options{RemoteName: service.options.RemoteName}, repository.Dependencies{})
	}
	return service, nil
}

func sanitizeOptions(options Options) Options {
	sanitized := Options{
		RepositoryURL:    strings.TrimSpace(options.RepositoryURL),
		RemoteName:       strings.TrimSpace(options.RemoteName),
		BranchName:       strings.TrimSpace(options.BranchName),
		SubtreePath:      strings.TrimSpace(options.SubtreePath),
		UserFiles:        append([]string{}, options.UserFiles...),
		InvocationName:   strings.TrimSpace(options.InvocationName),
		WorkingDirectory: strings.TrimSpace(options.WorkingDirectory),
	}
	if len(sanitized.RepositoryURL) == 0 {
		sanitized.RepositoryURL = DefaultRepositoryURLConstant
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = repository.DefaultRemoteNameConstant
	}
	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = DefaultBranchNameConstant
	}
	if len(sanitized.SubtreePath) == 0 {
		sanitized.SubtreePath = DefaultSubtreePathConstant
	}
	if len(options.UserFiles) == 0 {
		sanitized.UserFiles = DefaultUserFiles()
	}
	if len(sanitized.InvocationName) == 0 {
		sanitized.InvocationName = DefaultInvocationNameConstant
	}
	return sanitized
}

// Run classifies targetPath and performs the matching flow.
func (service *Service) Run(executionContext context.Context, targetPath string) error {
	classification := service.classifier.Classify(targetPath)
	service.logger.Info(
		classificationLogMessageConstant,
		zap.String(logFieldTargetPathConstant, targetPath),
		zap.String(logFieldClassificationConstant, classification.String()),
	)

	switch classification {
	case repository.ClassificationAbsent:
		_, installError := service.Install(executionContext, targetPath)
		return installError
	case repository.ClassificationManagedClone:
		_, updateError := service.Update(executionContext, targetPath)
		return updateError
	default:
		return &FlowError{
			Kind:          ErrForeignDirectory,
			DirectoryName: filepath.Base(targetPath),
			Hint:          foreignDirectoryHint(service.options.InvocationName),
		}
	}
}

// Install clones the managed repository into targetPath.
func (service *Service) Install(executionContext context.Context, targetPath string) (InstallSummary, error) {
	directoryName := filepath.Base(targetPath)
	service.reporter.InstallStarted(directoryName)

	if !service.executor.ToolAvailable(executionContext, execshell.CommandGit) {
		return InstallSummary{}, &FlowError{Kind: ErrToolUnavailable}
	}

	service.reporter.Progress(cloningProgressMessageConstant)
	if _, cloneError := service.executeGit(executionContext, service.options.WorkingDirectory, gitCloneSubcommandConstant, service.options.RepositoryURL, targetPath); cloneError != nil {
		return InstallSummary{}, &FlowError{
			Kind:          ErrCloneFailed,
			DirectoryName: directoryName,
			Detail:        execshell.FailureDetail(cloneError),
			Cause:         cloneError,
		}
	}

	summary := InstallSummary{
		DirectoryName: directoryName,
		Version:       service.readVersion(targetPath),
	}
	if service.editorLauncher != nil {
		summary.EditorOpened = service.editorLauncher.Open(executionContext, targetPath)
	}

	service.reporter.InstallCompleted(summary)
	return summary, nil
}

// Update fetches and pulls the managed clone at targetPath. An up-to-date
// clone returns a summary equal in both versions without pulling.
func (service *Service) Update(executionContext context.Context, targetPath string) (UpdateSummary, error) {
	directoryName := filepath.Base(targetPath)
	service.reporter.UpdateStarted(directoryName)

	previousVersion := service.readVersion(targetPath)

	subtreeHashBefore, subtreeHashBeforeKnown := service.subtreeHash(executionContext, targetPath)
	if !subtreeHashBeforeKnown {
		service.logger.Debug(subtreeHashUnavailableLogMessageConstant, zap.String(logFieldTargetPathConstant, targetPath))
	}

	service.reporter.Progress(fetchingProgressMessageConstant)
	if _, fetchError := service.executeGit(executionContext, targetPath, gitFetchSubcommandConstant, service.options.RemoteName); fetchError != nil {
		return UpdateSummary{}, &FlowError{
			Kind:          ErrFetchFailed,
			DirectoryName: directoryName,
			Detail:        execshell.FailureDetail(fetchError),
			Cause:         fetchError,
		}
	}

	if service.headsMatch(executionContext, targetPath) {
		service.reporter.AlreadyUpToDate(previousVersion)
		return UpdateSummary{DirectoryName: directoryName, PreviousVersion: previousVersion, CurrentVersion: previousVersion}, nil
	}

	if managedModifications := service.managedModifications(executionContext, targetPath); len(managedModifications) > 0 {
		service.logger.Info(managedModificationsLogMessageConstant, zap.Strings(logFieldModifiedPathsConstant, managedModifications))
		service.reporter.DirtyTreeWarning(managedModifications)
	}

	service.reporter.Progress(pullingProgressMessageConstant)
	if _, pullError := service.executeGit(executionContext, targetPath, gitPullSubcommandConstant, service.options.RemoteName, service.options.BranchName); pullError != nil {
		return UpdateSummary{}, &FlowError{
			Kind:          ErrPullFailed,
			DirectoryName: directoryName,
			Detail:        execshell.FailureDetail(pullError),
			Hint:          pullRemediationHint(directoryName, service.options.InvocationName),
			Cause:         pullError,
		}
	}

	summary := UpdateSummary{
		DirectoryName:   directoryName,
		PreviousVersion: previousVersion,
		CurrentVersion:  service.readVersion(targetPath),
	}

	if subtreeHashBeforeKnown {
		subtreeHashAfter, subtreeHashAfterKnown := service.subtreeHash(executionContext, targetPath)
		if !subtreeHashAfterKnown {
			service.logger.Debug(subtreeHashRecomputeLogMessageConstant, zap.String(logFieldTargetPathConstant, targetPath))
		}
		summary.RebuildNeeded = !subtreeHashAfterKnown || subtreeHashAfter != subtreeHashBefore
	}
	if summary.RebuildNeeded && service.containerDetector != nil {
		summary.InsideContainer = service.containerDetector.InsideContainer()
	}

	service.reporter.UpdateCompleted(summary)
	return summary, nil
}

func (service *Service) readVersion(repositoryDirectory string) string {
	version, known := service.versionReader.ReadVersion(repositoryDirectory)
	return changelog.DisplayVersion(version, known)
}

func (service *Service) subtreeHash(executionContext context.Context, targetPath string) (string, bool) {
	treeReference := gitHeadReferenceConstant + gitTreeReferenceTemplateSeparatorConstant + service.options.SubtreePath
	return service.resolveRevision(executionContext, targetPath, treeReference)
}

func (service *Service) headsMatch(executionContext context.Context, targetPath string) bool {
	localHead, localKnown := service.resolveRevision(executionContext, targetPath, gitHeadReferenceConstant)
	remoteReference := service.options.RemoteName + gitRemoteReferenceSeparatorConstant + service.options.BranchName
	remoteHead, remoteKnown := service.resolveRevision(executionContext, targetPath, remoteReference)
	if !localKnown || !remoteKnown {
		service.logger.Debug(headComparisonLogMessageConstant, zap.String(logFieldTargetPathConstant, targetPath))
		return false
	}
	return localHead == remoteHead
}

func (service *Service) resolveRevision(executionContext context.Context, targetPath string, reference string) (string, bool) {
	executionResult, revParseError := service.executeGit(executionContext, targetPath, gitRevParseSubcommandConstant, reference)
	if revParseError != nil {
		return "", false
	}
	revision := strings.TrimSpace(executionResult.StandardOutput)
	return revision, len(revision) > 0
}

func (service *Service) managedModifications(executionContext context.Context, targetPath string) []string {
	executionResult, statusError := service.executeGit(executionContext, targetPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant, gitStatusUntrackedNoFlagConstant)
	if statusError != nil {
		service.logger.Debug(statusUnavailableLogMessageConstant, zap.Error(statusError))
		return nil
	}
	return ManagedModifications(ModifiedPaths(executionResult.StandardOutput), service.options.UserFiles)
}

func (service *Service) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
}
