// Package walk traverses a directory tree in one of two named modes.
//
// The mode is part of the contract, not an implementation detail. Passes
// that rename directories must use BottomUp: renaming a directory before
// its children have been visited invalidates every path still queued
// beneath it. Passes that only read, write file contents or delete files
// use TopDown, which also lets the visitor prune subdirectories.
//
// Neither mode follows symbolic links to directories; such links are
// reported alongside regular files.
package walk
