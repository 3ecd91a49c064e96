package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/agomusio/no-more-configs/internal/utils/path"
)

const (
	testHomeDirectoryConstant    = "/home/developer"
	testWorkingDirectoryConstant = "/workspace/projects"
)

func TestTargetPathResolverResolve(testInstance *testing.T) {
	resolver := pathutils.NewTargetPathResolverWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{name: "relative_name", candidatePath: "no-more-configs", expectedPath: filepath.Join(testWorkingDirectoryConstant, "no-more-configs")},
		{name: "relative_parent", candidatePath: "../nmc", expectedPath: "/workspace/nmc"},
		{name: "absolute", candidatePath: "/opt/nmc/", expectedPath: "/opt/nmc"},
		{name: "home_only", candidatePath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "home_relative", candidatePath: " ~/dev/nmc ", expectedPath: filepath.Join(testHomeDirectoryConstant, "dev", "nmc")},
		{name: "other_user_left_relative", candidatePath: "~other/nmc", expectedPath: filepath.Join(testWorkingDirectoryConstant, "~other", "nmc")},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, resolver.Resolve(testCase.candidatePath, testWorkingDirectoryConstant))
		})
	}
}

func TestTargetPathResolverWithoutHome(testInstance *testing.T) {
	resolver := pathutils.NewTargetPathResolverWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})

	require.Equal(testInstance, filepath.Join(testWorkingDirectoryConstant, "~", "nmc"), resolver.Resolve("~/nmc", testWorkingDirectoryConstant))
}
