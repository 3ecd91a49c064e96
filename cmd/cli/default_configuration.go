package cli

import (
	_ "embed"
	"time"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Installer InstallerConfiguration         `mapstructure:"installer"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// InstallerConfiguration parameterizes the install and update flows.
type InstallerConfiguration struct {
	RepositoryURL                 string        `mapstructure:"repository_url"`
	ProjectIdentifier             string        `mapstructure:"project_identifier"`
	DefaultDirectory              string        `mapstructure:"default_directory"`
	RemoteName                    string        `mapstructure:"remote_name"`
	BranchName                    string        `mapstructure:"branch_name"`
	SubtreePath                   string        `mapstructure:"subtree_path"`
	ChangelogFile                 string        `mapstructure:"changelog_file"`
	MarkerPaths                   []string      `mapstructure:"marker_paths"`
	UserFiles                     []string      `mapstructure:"user_files"`
	EditorCommand                 string        `mapstructure:"editor_command"`
	EditorTimeout                 time.Duration `mapstructure:"editor_timeout"`
	ContainerMarkerFile           string        `mapstructure:"container_marker_file"`
	ContainerEnvironmentVariables []string      `mapstructure:"container_environment_variables"`
}

// EmbeddedDefaultConfiguration returns the embedded default configuration data and type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}
