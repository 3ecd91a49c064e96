package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

const (
	// DefaultProjectIdentifierConstant is the substring identifying managed remotes.
	DefaultProjectIdentifierConstant = "no-more-configs"
	// DefaultRemoteNameConstant names the remote inspected during classification.
	DefaultRemoteNameConstant = "origin"

	classificationAbsentLabelConstant          = "absent"
	classificationForeignExistingLabelConstant = "foreign_existing"
	classificationManagedCloneLabelConstant    = "managed_clone"
	remoteNotConfiguredMessageConstant         = "remote not configured"
	remoteWithoutURLMessageConstant            = "remote has no url"
)

// Classification enumerates what a target directory is.
type Classification int

// Supported classifications.
const (
	ClassificationAbsent Classification = iota
	ClassificationForeignExisting
	ClassificationManagedClone
)

// String returns a stable label for logging.
func (classification Classification) String() string {
	switch classification {
	case ClassificationAbsent:
		return classificationAbsentLabelConstant
	case ClassificationManagedClone:
		return classificationManagedCloneLabelConstant
	default:
		return classificationForeignExistingLabelConstant
	}
}

// ErrRemoteNotConfigured indicates the inspected remote does not exist.
var ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)

// DefaultMarkerPaths lists paths that only exist in the managed repository layout.
func DefaultMarkerPaths() []string {
	return []string{filepath.Join(".devcontainer", "install-agent-config.sh"), "agent-config"}
}

// RemoteURLReader resolves the URL of a named remote for a working copy.
type RemoteURLReader interface {
	RemoteURL(repositoryPath string, remoteName string) (string, error)
}

// FileSystem exposes the filesystem operations used by classification.
type FileSystem interface {
	Stat(path string) (os.FileInfo, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// GoGitRemoteURLReader reads remote configuration with go-git. The repository
// is discovered from the path upwards, matching how git resolves configuration
// from inside a work tree.
type GoGitRemoteURLReader struct{}

// RemoteURL returns the last URL configured for remoteName, the value
// `git config --get` reports when the key repeats.
func (GoGitRemoteURLReader) RemoteURL(repositoryPath string, remoteName string) (string, error) {
	openedRepository, openError := git.PlainOpenWithOptions(repositoryPath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return "", openError
	}

	repositoryConfiguration, configurationError := openedRepository.Config()
	if configurationError != nil {
		return "", configurationError
	}

	remoteConfiguration, remoteExists := repositoryConfiguration.Remotes[remoteName]
	if !remoteExists || remoteConfiguration == nil {
		return "", ErrRemoteNotConfigured
	}
	if len(remoteConfiguration.URLs) == 0 {
		return "", errors.New(remoteWithoutURLMessageConstant)
	}
	return remoteConfiguration.URLs[len(remoteConfiguration.URLs)-1], nil
}

// Options configures a Classifier.
type Options struct {
	ProjectIdentifier string
	RemoteName        string
	MarkerPaths       []string
}

// Dependencies enumerates collaborators used by a Classifier. Nil values use
// the operating system and go-git.
type Dependencies struct {
	FileSystem      FileSystem
	RemoteURLReader RemoteURLReader
}

type decisionStep func(path string) bool

// Classifier decides the Classification of a target path.
type Classifier struct {
	fileSystem        FileSystem
	remoteURLReader   RemoteURLReader
	projectIdentifier string
	remoteName        string
	markerPaths       []string
}

// NewClassifier constructs a Classifier, filling blank options with defaults.
func NewClassifier(options Options, dependencies Dependencies) *Classifier {
	classifier := &Classifier{
		fileSystem:        dependencies.FileSystem,
		remoteURLReader:   dependencies.RemoteURLReader,
		projectIdentifier: strings.TrimSpace(options.ProjectIdentifier),
		remoteName:        strings.TrimSpace(options.RemoteName),
		markerPaths:       append([]string{}, options.MarkerPaths...),
	}
	if classifier.fileSystem == nil {
		classifier.fileSystem = osFileSystem{}
	}
	if classifier.remoteURLReader == nil {
		classifier.remoteURLReader = GoGitRemoteURLReader{}
	}
	if len(classifier.projectIdentifier) == 0 {
		classifier.projectIdentifier = DefaultProjectIdentifierConstant
	}
	if len(classifier.remoteName) == 0 {
		classifier.remoteName = DefaultRemoteNameConstant
	}
	if len(classifier.markerPaths) == 0 {
		classifier.markerPaths = DefaultMarkerPaths()
	}
	return classifier
}

// Classify inspects path. A path that does not exist is Absent; otherwise the
// remote step and then the marker step may identify a managed clone, and
// anything else is ForeignExisting.
func (classifier *Classifier) Classify(path string) Classification {
	if !classifier.exists(path) {
		return ClassificationAbsent
	}

	managedCloneSteps := []decisionStep{
		classifier.remoteMatchesProject,
		classifier.markersPresent,
	}
	for _, step := range managedCloneSteps {
		if step(path) {
			return ClassificationManagedClone
		}
	}
	return ClassificationForeignExisting
}

func (classifier *Classifier) remoteMatchesProject(path string) bool {
	remoteURL, remoteError := classifier.remoteURLReader.RemoteURL(path, classifier.remoteName)
	if remoteError != nil {
		return false
	}
	return strings.Contains(remoteURL, classifier.projectIdentifier)
}

func (classifier *Classifier) markersPresent(path string) bool {
	for _, markerPath := range classifier.markerPaths {
		if !classifier.exists(filepath.Join(path, markerPath)) {
			return false
		}
	}
	return true
}

func (classifier *Classifier) exists(path string) bool {
	_, statError := classifier.fileSystem.Stat(path)
	return statError == nil
}
