package changelog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// DefaultFileNameConstant names the changelog document at the repository root.
	DefaultFileNameConstant = "CHANGELOG.md"
	// UnknownVersionConstant is displayed when no version can be read.
	UnknownVersionConstant = "unknown"
)

var versionHeadingPattern = regexp.MustCompile(`(?m)^## \[(\d+\.\d+\.\d+)\]`)

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Reader extracts versions from a changelog file inside a repository directory.
type Reader struct {
	fileReader FileReader
	fileName   string
}

// NewReader constructs a Reader for the named changelog file. A nil file
// reader uses the operating system.
func NewReader(fileReader FileReader, fileName string) *Reader {
	if fileReader == nil {
		fileReader = osFileReader{}
	}
	trimmedFileName := strings.TrimSpace(fileName)
	if len(trimmedFileName) == 0 {
		trimmedFileName = DefaultFileNameConstant
	}
	return &Reader{fileReader: fileReader, fileName: trimmedFileName}
}

// ReadVersion returns the version of the first "## [x.y.z]" heading. Missing
// files, read failures and changelogs without a heading report false.
func (reader *Reader) ReadVersion(repositoryDirectory string) (string, bool) {
	contents, readError := reader.fileReader.ReadFile(filepath.Join(repositoryDirectory, reader.fileName))
	if readError != nil {
		return "", false
	}
	return ParseVersion(string(contents))
}

// ParseVersion extracts the first version heading from changelog contents.
func ParseVersion(contents string) (string, bool) {
	match := versionHeadingPattern.FindStringSubmatch(contents)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// DisplayVersion renders an optional version, substituting "unknown".
func DisplayVersion(version string, known bool) string {
	if !known || len(version) == 0 {
		return UnknownVersionConstant
	}
	return version
}
