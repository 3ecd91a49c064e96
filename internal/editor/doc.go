// Package editor opens the freshly cloned repository in an external editor.
package editor
