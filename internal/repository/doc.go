// Package repository decides what a target directory is before the installer
// touches it: absent, an unrelated directory, or a clone of the managed
// repository.
//
// Classification runs as an ordered list of decision steps. The remote URL
// step is consulted before the marker-file step so that a decisive remote
// always wins over filesystem heuristics.
package repository
