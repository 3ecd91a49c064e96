package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agomusio/no-more-configs/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTNMC"
	testLogLevelKeyConstant                        = "common.log_level"
	testLogLevelEnvironmentNameConstant            = "TESTNMC_COMMON_LOG_LEVEL"
	testEditorTimeoutEnvironmentNameConstant       = "TESTNMC_INSTALLER_EDITOR_TIMEOUT"
	testUserFilesEnvironmentNameConstant           = "TESTNMC_INSTALLER_USER_FILES"
	testDefaultLogLevelConstant                    = "info"
	testEmbeddedLogLevelConstant                   = "debug"
	testFileLogLevelConstant                       = "warn"
	testEnvironmentLogLevelConstant                = "error"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigContentTemplateConstant              = "common:\n  log_level: %s\n"
	testEmbeddedConfigurationTemplateConstant      = "common:\n  log_level: %s\ninstaller:\n  editor_timeout: 5s\n  user_files:\n    - config.json\n"
	testCaseEmbeddedMessageConstant                = "embedded_configuration_applies"
	testCaseDefaultsMessageConstant                = "defaults_apply_without_embedded"
	testCaseFileMessageConstant                    = "config_file_overrides_embedded"
	testCaseEnvironmentMessageConstant             = "environment_overrides_file"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Common    configurationCommonFixture    `mapstructure:"common"`
	Installer configurationInstallerFixture `mapstructure:"installer"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationInstallerFixture struct {
	EditorTimeout time.Duration `mapstructure:"editor_timeout"`
	UserFiles     []string      `mapstructure:"user_files"`
}

func newTestConfigurationLoader(searchPaths ...string) *utils.ConfigurationLoader {
	return utils.NewConfigurationLoader(utils.ConfigurationLoaderOptions{
		ConfigurationName: testConfigurationNameConstant,
		ConfigurationType: testConfigurationTypeConstant,
		EnvironmentPrefix: testEnvironmentPrefixConstant,
		SearchPaths:       searchPaths,
	})
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedLogLevel    string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{
			name:             testCaseEmbeddedMessageConstant,
			embeddedLogLevel: testEmbeddedLogLevelConstant,
			expectedLogLevel: testEmbeddedLogLevelConstant,
		},
		{
			name:             testCaseDefaultsMessageConstant,
			expectedLogLevel: testDefaultLogLevelConstant,
		},
		{
			name:             testCaseFileMessageConstant,
			embeddedLogLevel: testEmbeddedLogLevelConstant,
			fileLogLevel:     testFileLogLevelConstant,
			expectedLogLevel: testFileLogLevelConstant,
		},
		{
			name:                testCaseEnvironmentMessageConstant,
			embeddedLogLevel:    testEmbeddedLogLevelConstant,
			fileLogLevel:        testFileLogLevelConstant,
			environmentLogLevel: testEnvironmentLogLevelConstant,
			expectedLogLevel:    testEnvironmentLogLevelConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
			}

			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentNameConstant, testCase.environmentLogLevel)
			}

			configurationLoader := newTestConfigurationLoader(temporaryDirectory)
			if len(testCase.embeddedLogLevel) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedLogLevel)), testConfigurationTypeConstant)
			}

			defaultValues := map[string]any{
				testLogLevelKeyConstant: testDefaultLogLevelConstant,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderDecodesDurationsAndLists(testInstance *testing.T) {
	configurationLoader := newTestConfigurationLoader(testInstance.TempDir())
	configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testEmbeddedConfigurationTemplateConstant, testEmbeddedLogLevelConstant)), testConfigurationTypeConstant)

	embeddedOnly := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration("", nil, &embeddedOnly)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 5*time.Second, embeddedOnly.Installer.EditorTimeout)
	require.Equal(testInstance, []string{"config.json"}, embeddedOnly.Installer.UserFiles)

	testInstance.Setenv(testEditorTimeoutEnvironmentNameConstant, "250ms")
	testInstance.Setenv(testUserFilesEnvironmentNameConstant, "config.json,secrets.json,projects/")

	overridden := configurationFixture{}
	_, overrideError := configurationLoader.LoadConfiguration("", nil, &overridden)
	require.NoError(testInstance, overrideError)
	require.Equal(testInstance, 250*time.Millisecond, overridden.Installer.EditorTimeout)
	require.Equal(testInstance, []string{"config.json", "secrets.json", "projects/"}, overridden.Installer.UserFiles)
}

func TestConfigurationLoaderSearchesWorkingDirectory(testInstance *testing.T) {
	workingDirectoryPath := testInstance.TempDir()
	configurationFilePath := filepath.Join(workingDirectoryPath, testConfigFileNameConstant)
	configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testFileLogLevelConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))

	loadedConfiguration := configurationFixture{}
	metadata, loadError := newTestConfigurationLoader(workingDirectoryPath).LoadConfiguration("", nil, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testFileLogLevelConstant, loadedConfiguration.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), "absent.yaml")

	loadedConfiguration := configurationFixture{}
	_, loadError := newTestConfigurationLoader().LoadConfiguration(missingPath, nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderRejectsMalformedEmbeddedData(testInstance *testing.T) {
	configurationLoader := newTestConfigurationLoader()
	configurationLoader.SetEmbeddedConfiguration([]byte("common: [unterminated"), testConfigurationTypeConstant)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration("", nil, &loadedConfiguration)
	require.ErrorContains(testInstance, loadError, "failed to merge embedded configuration")
}
