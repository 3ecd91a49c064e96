// Package pathutils resolves user-supplied target directories to absolute paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// TargetPathResolver expands home shortcuts and anchors relative paths to a
// working directory.
type TargetPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewTargetPathResolver constructs a resolver using the operating system home lookup.
func NewTargetPathResolver() *TargetPathResolver {
	return NewTargetPathResolverWithProvider(os.UserHomeDir)
}

// NewTargetPathResolverWithProvider constructs a resolver with a custom home lookup.
func NewTargetPathResolverWithProvider(provider HomeDirectoryProvider) *TargetPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &TargetPathResolver{homeDirectoryProvider: provider}
}

// Resolve converts candidatePath into a cleaned absolute path. A leading "~"
// expands to the home directory when it resolves; other relative paths are
// joined to workingDirectory.
func (resolver *TargetPathResolver) Resolve(candidatePath string, workingDirectory string) string {
	expandedPath := resolver.expandHome(strings.TrimSpace(candidatePath))
	if filepath.IsAbs(expandedPath) {
		return filepath.Clean(expandedPath)
	}
	return filepath.Join(workingDirectory, expandedPath)
}

func (resolver *TargetPathResolver) expandHome(candidatePath string) string {
	if resolver == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	var relativePath string
	switch {
	case candidatePath == tildeSymbolConstant:
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		relativePath = strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant)
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		relativePath = strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix)
	default:
		return candidatePath
	}

	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil || len(resolver.homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(resolver.homeDirectory, relativePath)
}
