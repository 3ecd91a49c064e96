// Package installer implements the install and update flows for the managed
// repository.
//
// Service.Run classifies the target directory and dispatches to Install for
// absent directories or Update for existing managed clones. Failures that end
// the run are returned as *FlowError values that unwrap to one of the
// sentinel errors declared in this package; degraded outcomes such as an
// unknown version or an undeterminable rebuild requirement are absorbed and
// reported as part of the summary.
package installer
