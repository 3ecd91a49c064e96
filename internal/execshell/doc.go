// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the failure types the installer
// inspects when git or the editor cannot complete a request.
package execshell
