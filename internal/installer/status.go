package installer

import (
	"strconv"
	"strings"
)

const (
	porcelainStatusColumnsWidthConstant = 3
	porcelainRenameSeparatorConstant    = " -> "
	porcelainQuoteConstant              = `"`
	statusLineSeparatorConstant         = "\n"
)

// DefaultUserFiles lists paths users are expected to edit. Modifications to
// them never trigger the dirty-tree warning.
func DefaultUserFiles() []string {
	return []string{"config.json", "secrets.json", "projects/"}
}

// ModifiedPaths extracts the paths of "git status --porcelain" output.
// Rename entries report their destination.
func ModifiedPaths(porcelainOutput string) []string {
	var modifiedPaths []string
	for _, statusLine := range strings.Split(porcelainOutput, statusLineSeparatorConstant) {
		statusLine = strings.TrimRight(statusLine, "\r")
		if len(statusLine) <= porcelainStatusColumnsWidthConstant {
			continue
		}
		entryPath := statusLine[porcelainStatusColumnsWidthConstant:]
		if separatorIndex := strings.Index(entryPath, porcelainRenameSeparatorConstant); separatorIndex >= 0 {
			entryPath = entryPath[separatorIndex+len(porcelainRenameSeparatorConstant):]
		}
		modifiedPaths = append(modifiedPaths, unquotePath(entryPath))
	}
	return modifiedPaths
}

// ManagedModifications filters paths that are equal to, or prefixed by, an
// entry of userFiles and returns the remainder.
func ManagedModifications(modifiedPaths []string, userFiles []string) []string {
	var managedPaths []string
	for _, modifiedPath := range modifiedPaths {
		if isUserFile(modifiedPath, userFiles) {
			continue
		}
		managedPaths = append(managedPaths, modifiedPath)
	}
	return managedPaths
}

func isUserFile(modifiedPath string, userFiles []string) bool {
	for _, userFile := range userFiles {
		if modifiedPath == userFile || strings.HasPrefix(modifiedPath, userFile) {
			return true
		}
	}
	return false
}

func unquotePath(entryPath string) string {
	if !strings.HasPrefix(entryPath, porcelainQuoteConstant) {
		return entryPath
	}
	unquoted, unquoteError := strconv.Unquote(entryPath)
	if unquoteError != nil {
		return entryPath
	}
	return unquoted
}
