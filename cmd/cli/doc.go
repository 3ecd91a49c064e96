// Package cli constructs the no-more-configs command-line interface. It wires
// the Cobra root command, the layered configuration, structured logging and
// the installer service, and maps flow failures to the process exit status.
package cli
