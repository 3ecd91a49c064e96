package environment

import (
	"os"
	"strings"
)

const (
	// DefaultContainerMarkerFileConstant exists at the root of Docker containers.
	DefaultContainerMarkerFileConstant = "/.dockerenv"
	// RemoteContainersEnvironmentVariableConstant is set by the VS Code Dev Containers extension.
	RemoteContainersEnvironmentVariableConstant = "REMOTE_CONTAINERS"
	// CodespacesEnvironmentVariableConstant is set inside GitHub Codespaces.
	CodespacesEnvironmentVariableConstant = "CODESPACES"
)

// DefaultContainerEnvironmentVariables lists the variables that indicate a development container.
func DefaultContainerEnvironmentVariables() []string {
	return []string{RemoteContainersEnvironmentVariableConstant, CodespacesEnvironmentVariableConstant}
}

// PathChecker reports whether a filesystem path exists.
type PathChecker func(path string) bool

// VariableLookup resolves an environment variable.
type VariableLookup func(name string) (string, bool)

// PathExists reports whether path can be stat'ed.
func PathExists(path string) bool {
	_, statError := os.Stat(path)
	return statError == nil
}

// ContainerDetector decides whether the process runs inside a development container.
type ContainerDetector struct {
	markerFile           string
	environmentVariables []string
	pathExists           PathChecker
	lookupVariable       VariableLookup
}

// NewContainerDetector constructs a detector. Nil collaborators use the
// operating system; an empty marker file disables the file check.
func NewContainerDetector(markerFile string, environmentVariables []string, pathExists PathChecker, lookupVariable VariableLookup) *ContainerDetector {
	if pathExists == nil {
		pathExists = PathExists
	}
	if lookupVariable == nil {
		lookupVariable = os.LookupEnv
	}
	return &ContainerDetector{
		markerFile:           strings.TrimSpace(markerFile),
		environmentVariables: append([]string{}, environmentVariables...),
		pathExists:           pathExists,
		lookupVariable:       lookupVariable,
	}
}

// InsideContainer reports true when the marker file exists or any indicator
// variable holds a non-empty value.
func (detector *ContainerDetector) InsideContainer() bool {
	if len(detector.markerFile) > 0 && detector.pathExists(detector.markerFile) {
		return true
	}
	for _, variableName := range detector.environmentVariables {
		if value, exists := detector.lookupVariable(variableName); exists && len(value) > 0 {
			return true
		}
	}
	return false
}
