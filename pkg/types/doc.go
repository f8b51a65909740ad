// Package types defines the core types and interfaces shared by the
// templar packages: the filesystem and source-control collaborators, the
// substitution rule applied to a template tree, and the descriptor of a
// registered remote repository.
package types
