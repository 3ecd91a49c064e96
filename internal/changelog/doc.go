// Package changelog extracts the released version of the managed repository
// from the first version heading of its CHANGELOG.md.
package changelog
