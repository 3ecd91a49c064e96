// Package environment inspects the host the installer runs on.
package environment
