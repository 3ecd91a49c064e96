package installer

import (
	"errors"
	"fmt"
)

const (
	toolUnavailableMessageConstant         = "git is not installed"
	cloneFailedMessageConstant             = "clone failed"
	fetchFailedMessageConstant             = "fetch failed"
	pullFailedMessageConstant              = "pull failed"
	foreignDirectoryMessageConstant        = "directory exists but is not a No More Configs repository"
	flowErrorWithDetailTemplateConstant    = "%s: %s"
	flowErrorWithDirectoryTemplateConstant = "%s (%s/)"
	pullRemediationHintTemplateConstant    = "git -C %s stash && %s %s"
	foreignDirectoryHintTemplateConstant   = "%s my-nmc"
)

var (
	// ErrToolUnavailable indicates git is not installed or cannot be executed.
	ErrToolUnavailable = errors.New(toolUnavailableMessageConstant)
	// ErrCloneFailed indicates the managed repository could not be cloned.
	ErrCloneFailed = errors.New(cloneFailedMessageConstant)
	// ErrFetchFailed indicates the remote could not be fetched.
	ErrFetchFailed = errors.New(fetchFailedMessageConstant)
	// ErrPullFailed indicates the remote branch could not be merged.
	ErrPullFailed = errors.New(pullFailedMessageConstant)
	// ErrForeignDirectory indicates the target exists and is not a managed clone.
	ErrForeignDirectory = errors.New(foreignDirectoryMessageConstant)
)

// FlowError reports a failure that terminates an install or update.
type FlowError struct {
	// Kind is one of the sentinel errors of this package.
	Kind          error
	DirectoryName string
	// Detail holds the captured standard error of the failed command.
	Detail string
	// Hint suggests a remediation when one is known.
	Hint  string
	Cause error
}

// Error describes the failure including the captured command output.
func (failure *FlowError) Error() string {
	message := failure.Kind.Error()
	if len(failure.DirectoryName) > 0 {
		message = fmt.Sprintf(flowErrorWithDirectoryTemplateConstant, message, failure.DirectoryName)
	}
	if len(failure.Detail) > 0 {
		message = fmt.Sprintf(flowErrorWithDetailTemplateConstant, message, failure.Detail)
	}
	return message
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (failure *FlowError) Unwrap() []error {
	unwrapped := []error{failure.Kind}
	if failure.Cause != nil {
		unwrapped = append(unwrapped, failure.Cause)
	}
	return unwrapped
}

// AsFlowError extracts a *FlowError from an error chain.
func AsFlowError(candidate error) (*FlowError, bool) {
	var flowError *FlowError
	if errors.As(candidate, &flowError) {
		return flowError, true
	}
	return nil, false
}

func pullRemediationHint(directoryName string, invocationName string) string {
	return fmt.Sprintf(pullRemediationHintTemplateConstant, directoryName, invocationName, directoryName)
}

func foreignDirectoryHint(invocationName string) string {
	return fmt.Sprintf(foreignDirectoryHintTemplateConstant, invocationName)
}
