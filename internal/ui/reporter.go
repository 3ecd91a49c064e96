package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agomusio/no-more-configs/internal/installer"
)

const (
	productNameConstant                    = "No More Configs"
	installStartedTemplateConstant         = "\n%s: installing into %s\n\n"
	updateStartedTemplateConstant          = "\n%s: updating %s\n\n"
	directoryLabelTemplateConstant         = "%s/"
	versionLabelTemplateConstant           = "v%s"
	installCompletedTemplateConstant       = "\n%s %s %s cloned into %s\n\n"
	editorOpenedTemplateConstant           = "%s When prompted, click %s.\n"
	nextStepsTemplateConstant              = "%s\n  cd %s\n  code .\n\nThen click %s when VS Code prompts you.\n"
	firstBuildNoticeConstant               = "\nFirst build takes a few minutes. See the README for setup details.\n"
	alreadyUpToDateTemplateConstant        = "%s (v%s)\n"
	dirtyTreeWarningTemplateConstant       = "%s You have uncommitted changes to tracked NMC files.\n"
	modifiedPathTemplateConstant           = "  %s\n"
	dirtyTreeAdviceTemplateConstant        = "%s\n\n"
	versionChangedTemplateConstant         = "\n%s v%s → %s\n"
	versionUnchangedTemplateConstant       = "\n%s (v%s)\n"
	rebuildNeededTemplateConstant          = "\n%s: devcontainer files changed.\n"
	rebuildInsideContainerTemplateConstant = "\n%s\n  Ctrl+Shift+P → %s\n"
	rebuildOnHostTemplateConstant          = "\n%s\n  1. Open VS Code: %s\n  2. Ctrl+Shift+P → %s\n"
	noRebuildNeededTemplateConstant        = "%s\n"
	progressTemplateConstant               = "%s\n"
	failureTemplateConstant                = "%s %s\n"
	foreignDirectoryTemplateConstant       = "%s %s exists but is not a No More Configs repository.\n"
	foreignDirectoryHintTemplateConstant   = "Choose a different directory name: %s\n"
	pullFailureHintTemplateConstant        = "\n%s If you have local changes, try: %s\n"
	genericHintTemplateConstant            = "%s\n"
	doneLabelConstant                      = "Done!"
	updatedLabelConstant                   = "Updated!"
	alreadyUpToDateLabelConstant           = "Already up to date."
	warningLabelConstant                   = "Warning:"
	errorLabelConstant                     = "Error:"
	cloneFailedLabelConstant               = "Clone failed:"
	fetchFailedLabelConstant               = "Fetch failed:"
	pullFailedLabelConstant                = "Pull failed:"
	tipLabelConstant                       = "Tip:"
	vsCodeOpenedLabelConstant              = "VS Code opened."
	reopenInContainerLabelConstant         = "Reopen in Container"
	nextStepsLabelConstant                 = "Next steps:"
	dirtyTreeAdviceConstant                = "The pull may fail if there are conflicts. Commit or stash first if needed."
	rebuildNeededLabelConstant             = "Container rebuild needed"
	rebuildInsideContainerLabelConstant    = "Rebuild from inside VS Code:"
	rebuildInsideContainerCommandConstant  = "Dev Containers: Rebuild Container"
	rebuildOnHostLabelConstant             = "To apply changes:"
	rebuildOnHostCommandConstant           = "Dev Containers: Rebuild and Reopen in Container"
	openEditorCommandTemplateConstant      = "code %s"
	noRebuildNeededMessageConstant         = "No devcontainer changes, no rebuild needed."
	gitInstallationHintConstant            = "Install it from https://git-scm.com/"
)

// ConsoleReporter renders installer progress and failures for a terminal user.
type ConsoleReporter struct {
	output      io.Writer
	errorOutput io.Writer
	palette     Palette
}

// NewConsoleReporter constructs a reporter. Progress goes to output and
// failure headlines go to errorOutput.
func NewConsoleReporter(output io.Writer, errorOutput io.Writer, palette Palette) *ConsoleReporter {
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = output
	}
	return &ConsoleReporter{output: output, errorOutput: errorOutput, palette: palette}
}

// InstallStarted prints the install banner.
func (reporter *ConsoleReporter) InstallStarted(directoryName string) {
	reporter.printf(installStartedTemplateConstant, reporter.palette.CyanBold(productNameConstant), reporter.directoryLabel(directoryName))
}

// UpdateStarted prints the update banner.
func (reporter *ConsoleReporter) UpdateStarted(directoryName string) {
	reporter.printf(updateStartedTemplateConstant, reporter.palette.CyanBold(productNameConstant), reporter.directoryLabel(directoryName))
}

// Progress prints a dimmed progress line.
func (reporter *ConsoleReporter) Progress(message string) {
	reporter.printf(progressTemplateConstant, reporter.palette.Dim(message))
}

// InstallCompleted prints the install summary and next steps.
func (reporter *ConsoleReporter) InstallCompleted(summary installer.InstallSummary) {
	reporter.printf(
		installCompletedTemplateConstant,
		reporter.palette.Green(doneLabelConstant),
		productNameConstant,
		reporter.palette.Bold(fmt.Sprintf(versionLabelTemplateConstant, summary.Version)),
		reporter.directoryLabel(summary.DirectoryName),
	)

	if summary.EditorOpened {
		reporter.printf(editorOpenedTemplateConstant, reporter.palette.Cyan(vsCodeOpenedLabelConstant), reporter.palette.Bold(reopenInContainerLabelConstant))
	} else {
		reporter.printf(nextStepsTemplateConstant, reporter.palette.Bold(nextStepsLabelConstant), summary.DirectoryName, reporter.palette.Bold(reopenInContainerLabelConstant))
	}

	reporter.printf(firstBuildNoticeConstant)
}

// AlreadyUpToDate prints the short-circuit notice of an update.
func (reporter *ConsoleReporter) AlreadyUpToDate(version string) {
	reporter.printf(alreadyUpToDateTemplateConstant, reporter.palette.Green(alreadyUpToDateLabelConstant), version)
}

// DirtyTreeWarning prints a non-blocking warning about modified managed files.
func (reporter *ConsoleReporter) DirtyTreeWarning(modifiedPaths []string) {
	reporter.printf(dirtyTreeWarningTemplateConstant, reporter.palette.Yellow(warningLabelConstant))
	for _, modifiedPath := range modifiedPaths {
		reporter.printf(modifiedPathTemplateConstant, reporter.palette.Dim(modifiedPath))
	}
	reporter.printf(dirtyTreeAdviceTemplateConstant, reporter.palette.Dim(dirtyTreeAdviceConstant))
}

// UpdateCompleted prints the version transition and rebuild guidance.
func (reporter *ConsoleReporter) UpdateCompleted(summary installer.UpdateSummary) {
	if summary.PreviousVersion != summary.CurrentVersion {
		reporter.printf(
			versionChangedTemplateConstant,
			reporter.palette.Green(updatedLabelConstant),
			summary.PreviousVersion,
			reporter.palette.Bold(fmt.Sprintf(versionLabelTemplateConstant, summary.CurrentVersion)),
		)
	} else {
		reporter.printf(versionUnchangedTemplateConstant, reporter.palette.Green(updatedLabelConstant), summary.CurrentVersion)
	}

	if !summary.RebuildNeeded {
		reporter.printf(noRebuildNeededTemplateConstant, reporter.palette.Dim(noRebuildNeededMessageConstant))
		return
	}

	reporter.printf(rebuildNeededTemplateConstant, reporter.palette.YellowBold(rebuildNeededLabelConstant))
	if summary.InsideContainer {
		reporter.printf(
			rebuildInsideContainerTemplateConstant,
			reporter.palette.Bold(rebuildInsideContainerLabelConstant),
			reporter.palette.Cyan(rebuildInsideContainerCommandConstant),
		)
		return
	}
	reporter.printf(
		rebuildOnHostTemplateConstant,
		reporter.palette.Bold(rebuildOnHostLabelConstant),
		reporter.palette.Cyan(fmt.Sprintf(openEditorCommandTemplateConstant, summary.DirectoryName)),
		reporter.palette.Cyan(rebuildOnHostCommandConstant),
	)
}

// ReportFailure renders a terminating flow failure with its captured detail
// and remediation hint.
func (reporter *ConsoleReporter) ReportFailure(failure *installer.FlowError) {
	if failure == nil {
		return
	}

	switch {
	case errors.Is(failure.Kind, installer.ErrForeignDirectory):
		fmt.Fprintf(reporter.errorOutput, foreignDirectoryTemplateConstant, reporter.palette.Red(errorLabelConstant), reporter.directoryLabel(failure.DirectoryName))
		if len(failure.Hint) > 0 {
			reporter.printf(foreignDirectoryHintTemplateConstant, reporter.palette.Cyan(failure.Hint))
		}
		return
	case errors.Is(failure.Kind, installer.ErrToolUnavailable):
		fmt.Fprintf(reporter.errorOutput, failureTemplateConstant, reporter.palette.Red(errorLabelConstant), failure.Kind.Error()+". "+gitInstallationHintConstant)
		return
	}

	fmt.Fprintf(reporter.errorOutput, failureTemplateConstant, reporter.palette.Red(failureLabel(failure.Kind)), strings.TrimSpace(failure.Detail))
	if len(failure.Hint) == 0 {
		return
	}
	if errors.Is(failure.Kind, installer.ErrPullFailed) {
		reporter.printf(pullFailureHintTemplateConstant, reporter.palette.Yellow(tipLabelConstant), failure.Hint)
		return
	}
	reporter.printf(genericHintTemplateConstant, failure.Hint)
}

func failureLabel(kind error) string {
	switch {
	case errors.Is(kind, installer.ErrCloneFailed):
		return cloneFailedLabelConstant
	case errors.Is(kind, installer.ErrFetchFailed):
		return fetchFailedLabelConstant
	case errors.Is(kind, installer.ErrPullFailed):
		return pullFailedLabelConstant
	default:
		return errorLabelConstant
	}
}

func (reporter *ConsoleReporter) directoryLabel(directoryName string) string {
	return reporter.palette.Bold(fmt.Sprintf(directoryLabelTemplateConstant, directoryName))
}

func (reporter *ConsoleReporter) printf(template string, arguments ...any) {
	fmt.Fprintf(reporter.output, template, arguments...)
}
